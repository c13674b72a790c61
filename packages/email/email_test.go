package email

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuild(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr error
	}{
		{"缺少发件人", Message{To: []string{"a@example.com"}, Subject: "s"}, ErrNoSender},
		{"缺少收件人", Message{From: "x@example.com", Subject: "s"}, ErrNoRecipient},
		{"缺少主题", Message{From: "x@example.com", To: []string{"a@example.com"}}, ErrNoSubject},
		{"正常", Message{From: "x@example.com", To: []string{"a@example.com"}, Subject: "s", Body: "hi"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.msg.Build()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			s := string(raw)
			assert.Contains(t, s, "Subject: s\r\n")
			assert.Contains(t, s, "Content-Type: text/plain; charset=UTF-8\r\n")
			assert.True(t, strings.HasSuffix(s, "\r\n\r\nhi"))
		})
	}
}

func TestSendUsesEnvelopeAddress(t *testing.T) {
	c := NewClient(Config{Host: "smtp.example.com", Port: 25})

	var gotAddr, gotFrom string
	var gotTo []string
	c.send = func(addr string, _ smtp.Auth, from string, to []string, _ []byte) error {
		gotAddr, gotFrom, gotTo = addr, from, to
		return nil
	}

	err := c.SendHTML("Library <noreply@library.local>", "reader@example.com", "Receipt", "<p>ok</p>")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:25", gotAddr)
	assert.Equal(t, "noreply@library.local", gotFrom)
	assert.Equal(t, []string{"reader@example.com"}, gotTo)
}

func TestBorrowReceiptTemplate(t *testing.T) {
	out, err := MustTemplate(BorrowReceiptTemplate).Render(BorrowReceiptData{
		Name:       "Ada",
		LibraryID:  "LIB-0042",
		Title:      "Clean Code",
		ISBN:       "9780132350884",
		BorrowedAt: "2025-11-10",
		DueAt:      "2025-11-24",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Clean Code")
	assert.Contains(t, out, "<td><strong>2025-11-24</strong></td>")
	assert.Contains(t, out, "LIB-0042")
}
