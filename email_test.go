package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-email-codec"
)

func TestRecipient_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r    email.Recipient
		want string
	}{
		{email.Recipient{Address: "bob@example.com"}, "bob@example.com"},
		{email.Recipient{Name: "Bob", Address: "bob@example.com"}, "Bob <bob@example.com>"},
		{email.Recipient{Name: "Doe, Jane", Address: "jd@example.com"}, `"Doe, Jane" <jd@example.com>`},
		{email.Recipient{Name: `Say "hi"`, Address: "x@example.com"}, `"Say \"hi\"" <x@example.com>`},
		{email.Recipient{Name: "Jörg Müller", Address: "jm@example.com"}, "Jörg Müller <jm@example.com>"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, test.r.String())
	}
}

func TestRecipientType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "To", email.To.String())
	assert.Equal(t, "Cc", email.Cc.String())
	assert.Equal(t, "Bcc", email.Bcc.String())
	assert.Equal(t, "RecipientType(7)", email.RecipientType(7).String())
}

func TestEmail_HasCalendar(t *testing.T) {
	t.Parallel()

	e := &email.Email{CalendarText: "BEGIN:VCALENDAR"}
	assert.False(t, e.HasCalendar())

	e.CalendarMethod = email.Request
	assert.True(t, e.HasCalendar())

	e.CalendarText = ""
	assert.False(t, e.HasCalendar())
}

func TestEmail_TransferEncoding(t *testing.T) {
	t.Parallel()

	e := &email.Email{}
	assert.Equal(t, "quoted-printable", e.TransferEncoding())

	e.ContentTransferEncoding = "base64"
	assert.Equal(t, "base64", e.TransferEncoding())
}

func TestEmail_RecipientsOf(t *testing.T) {
	t.Parallel()

	e := &email.Email{Recipients: []email.Recipient{
		{Address: "a@example.com", Type: email.To},
		{Address: "b@example.com", Type: email.Cc},
		{Address: "c@example.com", Type: email.To},
	}}

	to := e.RecipientsOf(email.To)
	if assert.Len(t, to, 2) {
		assert.Equal(t, "a@example.com", to[0].Address)
		assert.Equal(t, "c@example.com", to[1].Address)
	}
	assert.Empty(t, e.RecipientsOf(email.Bcc))
}

func TestEmail_ReceiptRecipients(t *testing.T) {
	t.Parallel()

	from := &email.Recipient{Address: "from@example.com"}
	reply := &email.Recipient{Address: "reply@example.com"}
	dnt := &email.Recipient{Address: "dnt@example.com"}

	e := &email.Email{From: from}
	assert.Nil(t, e.DispositionNotificationRecipient())
	assert.Nil(t, e.ReturnReceiptRecipient())

	e.UseDispositionNotificationTo = true
	e.UseReturnReceiptTo = true
	assert.Equal(t, from, e.DispositionNotificationRecipient())
	assert.Equal(t, from, e.ReturnReceiptRecipient())

	e.ReplyTo = reply
	assert.Equal(t, reply, e.DispositionNotificationRecipient())
	assert.Equal(t, reply, e.ReturnReceiptRecipient())

	e.DispositionNotificationTo = dnt
	assert.Equal(t, dnt, e.DispositionNotificationRecipient())
	assert.Equal(t, reply, e.ReturnReceiptRecipient())

	assert.Nil(t, (&email.Email{UseReturnReceiptTo: true}).ReturnReceiptRecipient())
}
