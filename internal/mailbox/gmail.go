// Package mailbox pulls raw messages out of a Gmail inbox for
// enrichment.
package mailbox

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/narrisia/inbox-intel/internal/model"
)

const gmailUser = "me"

// fetchConcurrency bounds parallel Users.Messages.Get calls.
const fetchConcurrency = 8

// Source lists messages from a mailbox.
type Source interface {
	Fetch(ctx context.Context, max int64) ([]model.RawMessage, error)
}

// GmailSource fetches unread inbox messages through the Gmail API.
type GmailSource struct {
	svc   *gmailv1.Service
	query string
}

// NewGmailSource builds a source from an OAuth access token. The token
// must carry the gmail.readonly scope.
func NewGmailSource(ctx context.Context, accessToken, query string) (*GmailSource, error) {
	if accessToken == "" {
		return nil, eris.New("mailbox: gmail access token is required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gmailv1.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, eris.Wrap(err, "mailbox: create gmail service")
	}
	if query == "" {
		query = "is:unread"
	}
	return &GmailSource{svc: svc, query: query}, nil
}

// Fetch lists up to max matching messages and loads each one in full.
// Messages that fail to load individually are skipped, not fatal.
func (s *GmailSource) Fetch(ctx context.Context, max int64) ([]model.RawMessage, error) {
	if max <= 0 {
		max = 25
	}

	list, err := s.svc.Users.Messages.List(gmailUser).
		LabelIds("INBOX").
		Q(s.query).
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, eris.Wrap(err, "mailbox: list messages")
	}
	if len(list.Messages) == 0 {
		return []model.RawMessage{}, nil
	}

	type indexed struct {
		pos int
		msg model.RawMessage
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	var mu sync.Mutex
	var fetched []indexed

	for i, ref := range list.Messages {
		i, ref := i, ref
		g.Go(func() error {
			full, err := s.svc.Users.Messages.Get(gmailUser, ref.Id).
				Format("full").
				Context(gCtx).
				Do()
			if err != nil {
				zap.L().Warn("mailbox: skipping unreadable message",
					zap.String("message_id", ref.Id),
					zap.Error(err),
				)
				return nil
			}

			mu.Lock()
			fetched = append(fetched, indexed{pos: i, msg: rawFromGmail(full)})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "mailbox: fetch messages")
	}

	sort.Slice(fetched, func(a, b int) bool { return fetched[a].pos < fetched[b].pos })
	msgs := make([]model.RawMessage, 0, len(fetched))
	for _, f := range fetched {
		msgs = append(msgs, f.msg)
	}

	zap.L().Info("mailbox: fetched messages",
		zap.Int("listed", len(list.Messages)),
		zap.Int("loaded", len(msgs)),
		zap.String("query", s.query),
	)
	return msgs, nil
}

// rawFromGmail flattens a Gmail message into the enrichment input
// shape. The body prefers text/plain parts, then stripped text/html,
// then the snippet.
func rawFromGmail(msg *gmailv1.Message) model.RawMessage {
	raw := model.RawMessage{
		ID:      msg.Id,
		Snippet: msg.Snippet,
	}
	if msg.Payload == nil {
		return raw
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			raw.SenderHeader = h.Value
		case "subject":
			raw.Subject = h.Value
		}
	}

	if body := extractPlainText(msg.Payload); body != "" {
		raw.Body = body
	} else if html := extractHTML(msg.Payload); html != "" {
		raw.Body = stripHTMLTags(html)
	}
	return raw
}
