package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-email-codec/analyze"
	"github.com/zostay/go-email-codec/compose"
	"github.com/zostay/go-email-codec/internal/report"
	"github.com/zostay/go-email-codec/message"
)

var showOutline bool

var oneCmd = &cobra.Command{
	Use:   "one message",
	Short: "Shows how a message changes when analyzed, composed and analyzed again",
	Args:  cobra.ExactArgs(1),
	RunE:  RunOne,
}

func init() {
	oneCmd.Flags().BoolVar(&showOutline, "outline", false, "print the part outline of both messages")
	rootCmd.AddCommand(oneCmd)
}

func RunOne(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// the data is read twice, once to compose and once to summarize
	opts := append(analyzeOptions(), analyze.WithFetchAttachmentData(true))

	before, err := analyze.ParseReader(bytes.NewReader(data), opts...)
	if err != nil {
		return fmt.Errorf("unable to analyze %s: %w", path, err)
	}

	composed, err := compose.Compose(before.Email(), compose.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("unable to compose %s: %w", path, err)
	}

	var rt bytes.Buffer
	if _, err := composed.WriteTo(&rt); err != nil {
		return err
	}

	after, err := analyze.ParseReader(bytes.NewReader(rt.Bytes()), opts...)
	if err != nil {
		return fmt.Errorf("unable to analyze the composed %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path = %s\n", path)

	if showOutline {
		for _, doc := range [][]byte{data, rt.Bytes()} {
			msg, err := message.Parse(bytes.NewReader(doc), message.WithMaxDepth(-1))
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := report.Outline(out, msg); err != nil {
				return err
			}
		}
		fmt.Fprintln(out)
	}

	a, err := summaryJSON(before)
	if err != nil {
		return err
	}
	b, err := summaryJSON(after)
	if err != nil {
		return err
	}

	if a == b {
		fmt.Fprintln(out, "no differences")
		return nil
	}

	fmt.Fprint(out, unifiedLines(a, b))
	return nil
}

func summaryJSON(res *analyze.Result) (string, error) {
	s, err := report.Summarize(res)
	if err != nil {
		return "", err
	}
	b, err := s.JSON()
	return string(b), err
}

// unifiedLines prints a line diff of a and b, each line prefixed by "-",
// "+" or " ".
func unifiedLines(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line != "" {
				sb.WriteString(prefix + line)
			}
		}
	}
	return sb.String()
}
