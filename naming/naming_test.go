package naming_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-email-codec/naming"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		explicit, ds, cid string
		wantExt, wantEnc  bool
		want              string
	}{
		{"explicit wins", "logo", "image.png", "<cid1>", false, false, "logo"},
		{"explicit gets extension", "logo", "image.png", "", true, false, "logo.png"},
		{"explicit keeps its own extension", "logo.gif", "image.png", "", true, false, "logo.gif"},
		{"data source name", "", "image.png", "", true, false, "image.png"},
		{"data source extension stripped", "", "image.png", "", false, false, "image"},
		{"last extension only", "", "archive.tar.gz", "", false, false, "archive.tar"},
		{"explicit not stripped", "logo.png", "image.png", "", false, false, "logo.png"},
		{"content id", "", "", "<part1@example.com>", false, false, "part1@example.com"},
		{"content id without brackets", "", "", "abc", true, false, "abc"},
		{"no extension to add", "logo", "image", "", true, false, "logo"},
		{"encoded", "Grüße.txt", "", "", true, true, "=?utf-8?b?R3LDvMOfZS50eHQ=?="},
		{"ascii not encoded", "plain.txt", "", "", true, true, "plain.txt"},
		{"empty after strip", "", ".hidden", "", false, false, naming.Unnamed},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := naming.Resolve(test.explicit, test.ds, test.cid, test.wantExt, test.wantEnc)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestResolve_Generated(t *testing.T) {
	t.Parallel()

	got := naming.Resolve("", "", "", false, false)
	if assert.True(t, strings.HasPrefix(got, "resource")) {
		_, err := uuid.Parse(strings.TrimPrefix(got, "resource"))
		assert.NoError(t, err)
	}

	assert.NotEqual(t, got, naming.Resolve("", "", "", false, false))
}
