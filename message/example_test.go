package message_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/zostay/go-email-codec/message"
)

func ExampleOpaque_WriteTo() {
	msg := message.NewOpaque(nil, strings.NewReader("Hello World\n"))
	msg.SetSubject("A message to nowhere")
	_, _ = msg.WriteTo(os.Stdout)
	// Output:
	// Subject: A message to nowhere
	//
	// Hello World
}

func ExampleBuffer() {
	txt := &message.Buffer{}
	txt.SetMediaType("text/plain")
	_, _ = fmt.Fprintln(txt, "Hello *World*!")
	txtMsg, _ := txt.Opaque()

	html := &message.Buffer{}
	html.SetMediaType("text/html")
	_, _ = fmt.Fprintln(html, "Hello <b>World</b>!")
	htmlMsg, _ := html.Opaque()

	alt := &message.Buffer{}
	alt.SetMediaType("multipart/alternative")
	_ = alt.SetBoundary("alt")
	_ = alt.Add(txtMsg, htmlMsg)

	msg, err := alt.Multipart()
	if err != nil {
		panic(err)
	}
	_, _ = msg.WriteTo(os.Stdout)
	// Output:
	// Content-Type: multipart/alternative; boundary="alt"
	//
	// --alt
	// Content-Type: text/plain
	//
	// Hello *World*!
	//
	// --alt
	// Content-Type: text/html
	//
	// Hello <b>World</b>!
	//
	// --alt--
}
