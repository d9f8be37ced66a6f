// Package analyze reads any MIME tree back into the content it carries.
//
// Parse walks the tree depth-first. Plain and HTML bodies are concatenated
// in document order, the first calendar body is kept with its iTIP method,
// containers are descended into, and every other leaf becomes a resource.
// Resources with a Content-ID and an inline (or no) disposition are held as
// embedded candidates; after the walk, candidates the HTML body never refers
// to with a cid: URL become attachments.
//
// The Disposition-Notification-To, Return-Receipt-To and Return-Path headers
// are taken out of the header bag into fields of their own.
//
// Every failure is a *ParseError, and a failed parse returns no result.
package analyze
