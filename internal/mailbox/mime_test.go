package mailbox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	gmailv1 "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestExtractPlainText(t *testing.T) {
	part := &gmailv1.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailv1.MessagePart{
			{
				MimeType: "text/html",
				Body:     &gmailv1.MessagePartBody{Data: b64("<p>Hello</p>")},
			},
			{
				MimeType: "text/plain",
				Body:     &gmailv1.MessagePartBody{Data: b64("Hello")},
			},
		},
	}

	assert.Equal(t, "Hello", extractPlainText(part))
}

func TestExtractPlainTextNested(t *testing.T) {
	part := &gmailv1.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailv1.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailv1.MessagePart{
					{
						MimeType: "text/plain",
						Body:     &gmailv1.MessagePartBody{Data: b64("nested body")},
					},
				},
			},
		},
	}

	assert.Equal(t, "nested body", extractPlainText(part))
}

func TestExtractPlainTextMissing(t *testing.T) {
	assert.Empty(t, extractPlainText(nil))
	assert.Empty(t, extractPlainText(&gmailv1.MessagePart{MimeType: "text/html"}))
}

func TestExtractHTML(t *testing.T) {
	part := &gmailv1.MessagePart{
		MimeType: "text/html",
		Body:     &gmailv1.MessagePartBody{Data: b64("<b>hi</b>")},
	}
	assert.Equal(t, "<b>hi</b>", extractHTML(part))
}

func TestStripHTMLTags(t *testing.T) {
	html := "<div><p>We are hiring &amp; growing.</p><br>Apply at <a href=\"x\">careers</a></div>"
	got := stripHTMLTags(html)

	assert.Contains(t, got, "We are hiring & growing.")
	assert.Contains(t, got, "Apply at careers")
	assert.NotContains(t, got, "<")
}

func TestDecodeBase64URLPaddedAndUnpadded(t *testing.T) {
	assert.Equal(t, "hello", decodeBase64URL(base64.URLEncoding.EncodeToString([]byte("hello"))))
	assert.Equal(t, "hello", decodeBase64URL(base64.RawURLEncoding.EncodeToString([]byte("hello"))))
	assert.Empty(t, decodeBase64URL("!!!not base64!!!"))
}

func TestRawFromGmail(t *testing.T) {
	msg := &gmailv1.Message{
		Id:      "abc123",
		Snippet: "We reviewed your profile...",
		Payload: &gmailv1.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmailv1.MessagePartHeader{
				{Name: "From", Value: "HR Team <hr@krishtechnolabs.com>"},
				{Name: "Subject", Value: "Magento Developer opening"},
			},
			Body: &gmailv1.MessagePartBody{Data: b64("We reviewed your profile and would like to talk.")},
		},
	}

	raw := rawFromGmail(msg)
	assert.Equal(t, "abc123", raw.ID)
	assert.Equal(t, "HR Team <hr@krishtechnolabs.com>", raw.SenderHeader)
	assert.Equal(t, "Magento Developer opening", raw.Subject)
	assert.Equal(t, "We reviewed your profile and would like to talk.", raw.Body)
}

func TestRawFromGmailHTMLFallback(t *testing.T) {
	msg := &gmailv1.Message{
		Id:      "def456",
		Snippet: "snippet text",
		Payload: &gmailv1.MessagePart{
			MimeType: "text/html",
			Body:     &gmailv1.MessagePartBody{Data: b64("<p>Rich body</p>")},
		},
	}

	raw := rawFromGmail(msg)
	assert.Equal(t, "Rich body", raw.Body)
}

func TestRawFromGmailNoPayload(t *testing.T) {
	raw := rawFromGmail(&gmailv1.Message{Id: "x", Snippet: "only snippet"})
	assert.Equal(t, "only snippet", raw.Snippet)
	assert.Empty(t, raw.Body)
	assert.Equal(t, "only snippet", raw.Content())
}
