package main

import (
	"github.com/spf13/cobra"

	"quill/internal/build"
	"quill/internal/domain/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Validate the content store and export the published view",
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	b := &build.Builder{Cfg: cfg, IndexPath: indexPath}
	res, err := b.Run(cmd.Context())
	if err != nil {
		return err
	}

	for _, p := range res.Problems {
		logger.Warn().Str("path", p.Path).Msg(p.Err.Error())
	}
	for _, w := range res.Warnings {
		logger.Warn().Str("path", w.Path).Msg(w.Msg)
	}
	logger.Info().
		Int("posts", res.Posts).
		Int("authors", res.Authors).
		Int("rejected", len(res.Problems)).
		Str("out", cfg.Build.PublicDir).
		Msg("build complete")
	return nil
}
