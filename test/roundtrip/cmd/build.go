package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email-codec"
	"github.com/zostay/go-email-codec/compose"
	"github.com/zostay/go-email-codec/message/header"
)

var (
	buildFrom     string
	buildTo       []string
	buildCc       []string
	buildSubject  string
	buildText     string
	buildHTML     string
	buildEmbed    []string
	buildAttach   []string
	buildDomain   string
	buildEncoding string
	buildReceipt  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Composes a message from flags and writes it to standard output",
	Args:  cobra.NoArgs,
	RunE:  RunBuild,
}

func init() {
	fs := buildCmd.Flags()
	fs.StringVar(&buildFrom, "from", "", "sender address")
	fs.StringSliceVar(&buildTo, "to", nil, "recipient addresses")
	fs.StringSliceVar(&buildCc, "cc", nil, "copied addresses")
	fs.StringVar(&buildSubject, "subject", "", "subject")
	fs.StringVar(&buildText, "text", "", "plain text body, or @file")
	fs.StringVar(&buildHTML, "html", "", "HTML body, or @file")
	fs.StringSliceVar(&buildEmbed, "embed", nil, "images referenced from the HTML as cid:<file name without extension>")
	fs.StringSliceVar(&buildAttach, "attach", nil, "files to attach")
	fs.StringVar(&buildDomain, "domain", "localhost", "domain of the generated Message-ID")
	fs.StringVar(&buildEncoding, "encoding", "", "Content-Transfer-Encoding of the text bodies")
	fs.BoolVar(&buildReceipt, "receipt", false, "ask for a read receipt")
	rootCmd.AddCommand(buildCmd)
}

// body returns v, or the contents of the file named after a leading "@".
func body(v string) (string, error) {
	if !strings.HasPrefix(v, "@") {
		return v, nil
	}
	b, err := os.ReadFile(v[1:])
	return string(b), err
}

func parseRecipients(vs []string, t email.RecipientType) []email.Recipient {
	var rs []email.Recipient
	for _, v := range vs {
		for _, a := range header.ParseAddressList(v) {
			rs = append(rs, email.Recipient{Name: header.AddressName(a), Address: a.Address(), Type: t})
		}
	}
	return rs
}

func fileResources(paths []string, named bool) ([]email.Resource, error) {
	rs := make([]email.Resource, 0, len(paths))
	for _, p := range paths {
		src, err := email.NewFileSource(p, "")
		if err != nil {
			return nil, err
		}

		r := email.Resource{Source: src}
		if named {
			base := filepath.Base(p)
			r.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		rs = append(rs, r)
	}
	return rs, nil
}

func RunBuild(cmd *cobra.Command, args []string) error {
	e := &email.Email{
		ID:                           compose.NewMessageID(buildDomain),
		Subject:                      buildSubject,
		SentDate:                     time.Now(),
		ContentTransferEncoding:      buildEncoding,
		UseDispositionNotificationTo: buildReceipt,
	}

	if buildFrom != "" {
		if from := parseRecipients([]string{buildFrom}, email.To); len(from) > 0 {
			e.From = &from[0]
		}
	}
	e.Recipients = append(parseRecipients(buildTo, email.To), parseRecipients(buildCc, email.Cc)...)

	var err error
	if e.PlainText, err = body(buildText); err != nil {
		return err
	}
	if e.HTMLText, err = body(buildHTML); err != nil {
		return err
	}
	if e.EmbeddedImages, err = fileResources(buildEmbed, true); err != nil {
		return err
	}
	if e.Attachments, err = fileResources(buildAttach, false); err != nil {
		return err
	}

	msg, err := compose.Compose(e, compose.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("unable to compose: %w", err)
	}

	_, err = msg.WriteTo(cmd.OutOrStdout())
	return err
}
