package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/domain/config"
	"quill/internal/ingest"
	"quill/internal/manifest"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every content record and report all problems",
	Long: `Runs the full validation pass without writing anything: every author
and post record is checked, and every field violation is reported, not
just the first. Exits non-zero when any record is rejected.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	m := manifest.Build(cfg.Content.PostsDir, cfg.Content.AuthorsDir)
	if err := m.Verify(); err != nil {
		return err
	}

	snap, problems, warns, err := ingest.Ingest(ingest.Options{
		AuthorsDir: cfg.Content.AuthorsDir,
		PostsDir:   cfg.Content.PostsDir,
	})
	if err != nil {
		return err
	}

	for _, w := range warns {
		logger.Warn().Str("path", w.Path).Msg(w.Msg)
	}
	for _, p := range problems {
		logger.Error().Str("path", p.Path).Msg(p.Err.Error())
	}

	logger.Info().
		Int("posts", len(snap.Posts)).
		Int("authors", len(snap.Authors)).
		Int("rejected", len(problems)).
		Msg("check complete")

	if len(problems) > 0 {
		return fmt.Errorf("%d record(s) rejected", len(problems))
	}
	return nil
}
