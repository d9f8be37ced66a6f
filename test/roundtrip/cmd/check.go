package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email-codec/crosscheck"
)

var checkCmd = &cobra.Command{
	Use:   "check message",
	Short: "Compares the analysis of a message with a reading by go-message",
	Args:  cobra.ExactArgs(1),
	RunE:  RunCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func RunCheck(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	diffs, err := crosscheck.Check(f, analyzeOptions()...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range diffs {
		fmt.Fprintln(out, d)
	}

	if len(diffs) > 0 {
		return fmt.Errorf("%s: %d differences", args[0], len(diffs))
	}

	fmt.Fprintln(out, "agree")
	return nil
}
