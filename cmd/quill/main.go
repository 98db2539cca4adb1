package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	indexPath  string

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "quill",
	Short:         "Validate, index and publish a markdown content store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./site.yaml", "site config file")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", ".quill/index.db", "content index path")

	rootCmd.AddCommand(buildCmd, serveCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
