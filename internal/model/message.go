package model

// RawMessage is one inbound email as delivered by the mailbox adapter.
// It is read-only to the enrichment core.
type RawMessage struct {
	ID           string `json:"id"`
	SenderHeader string `json:"sender"`  // raw "Display Name <addr>" From header
	Subject      string `json:"subject"`
	Body         string `json:"body,omitempty"` // best-effort plain text, may be empty
	Snippet      string `json:"snippet"`        // short preview, always present
}

// Content returns the richest text available for analysis: the full body
// when present, otherwise the snippet.
func (m RawMessage) Content() string {
	if m.Body != "" {
		return m.Body
	}
	return m.Snippet
}
