package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zostay/go-email-codec/analyze"
)

var (
	logLevel string
	maxDepth int
	lazy     bool

	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Tools for checking that messages survive analysis and composition",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("bad --log-level: %w", err)
		}

		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(lvl).With().Timestamp().Logger()

		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "least severe level logged: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", analyze.DefaultMaxDepth, "deepest multipart nesting accepted, negative for no limit")
	rootCmd.PersistentFlags().BoolVar(&lazy, "lazy", false, "leave attachment data unread until it is needed")
}

// analyzeOptions returns the parser options chosen on the command line.
func analyzeOptions() []analyze.Option {
	return []analyze.Option{
		analyze.WithLogger(logger),
		analyze.WithMaxDepth(maxDepth),
		analyze.WithFetchAttachmentData(!lazy),
	}
}

func Execute() error {
	return rootCmd.Execute()
}
