// Package identity resolves the organization behind a message sender
// through an ordered heuristic chain: display name, content patterns,
// known sender domains, and a title-cased domain fallback. Resolution
// never fails; the worst case is the "Unknown" terminal identity.
package identity

import (
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/narrisia/inbox-intel/internal/model"
)

// contentPatterns extract candidate company names from subject+body
// phrasing. The first submatch is the candidate. Applied in order
// after the known-company substring scan.
var contentPatterns = []*regexp.Regexp{
	// "from Acme Corp", "at Initech"
	regexp.MustCompile(`(?:from|at)\s+([A-Z][\w&.-]*(?:\s+[A-Z][\w&.-]*){0,3}\s+(?:Technologies|Technolabs|Labs|Inc|Corp|Corporation|Ltd|LLC|Solutions|Systems|Group|Pvt|Limited|Incorporated))`),
	// "Acme Technologies", "Hooli Inc"
	regexp.MustCompile(`([A-Z][\w&.-]*(?:\s+[A-Z][\w&.-]*){0,3})\s+(?:Technologies|Technolabs|Labs|Inc|Corp|Corporation|Ltd|LLC|Solutions|Systems|Pvt|Limited|Incorporated)\b`),
	// "join Pied Piper", "career at Aviato", "careers at Raviga"
	regexp.MustCompile(`(?:join|careers?\s+at|work\s+at|position\s+at|opportunity\s+at)\s+([A-Z][\w&.-]*(?:\s+[A-Z][\w&.-]*){0,3})`),
}

// A strategy is one pure rule of the resolution chain. It returns the
// resolved identity and whether the rule fired.
type strategy func(addr parsedSender, subject, body string) (model.CompanyIdentity, bool)

// Resolver runs the identity chain against message metadata and
// content. Safe for concurrent use; all state is immutable after New.
type Resolver struct {
	tables *Tables
	titler cases.Caser
}

// NewResolver builds a resolver around the given lookup tables.
func NewResolver(tables *Tables) *Resolver {
	return &Resolver{
		tables: tables,
		titler: cases.Title(language.English),
	}
}

// Default returns a resolver backed by the embedded seed tables.
func Default() *Resolver {
	return NewResolver(DefaultTables())
}

// parsedSender is the decomposed From header.
type parsedSender struct {
	displayName string
	address     string
	domain      string
	personal    bool
}

// Resolve maps a sender header plus message content to a company
// identity. The first rule in the chain that produces a non-empty
// result wins. Personal-domain senders attempt content extraction
// before the display name, since their domain carries no signal.
func (r *Resolver) Resolve(senderHeader, subject, body string) model.CompanyIdentity {
	sender := r.parseSender(senderHeader)

	chain := []strategy{
		r.fromDisplayName,
		r.fromContent,
		r.fromKnownDomain,
	}
	if sender.personal {
		chain = []strategy{
			r.fromContent,
			r.fromDisplayName,
		}
	}

	for _, rule := range chain {
		if id, ok := rule(sender, subject, body); ok {
			return id
		}
	}
	return r.fallback(sender)
}

// Domain extracts the lowercased sender domain for display purposes.
// Returns "" when no address can be parsed from the header.
func (r *Resolver) Domain(senderHeader string) string {
	return r.parseSender(senderHeader).domain
}

func (r *Resolver) parseSender(header string) parsedSender {
	var p parsedSender

	if addr, err := mail.ParseAddress(strings.TrimSpace(header)); err == nil {
		p.displayName = addr.Name
		p.address = addr.Address
	} else {
		// Raw headers in the wild are not always RFC 5322 clean; fall
		// back to slicing "Name <addr>" by hand.
		header = strings.TrimSpace(header)
		if open := strings.LastIndex(header, "<"); open >= 0 {
			if end := strings.Index(header[open:], ">"); end > 0 {
				p.displayName = strings.Trim(strings.TrimSpace(header[:open]), `"`)
				p.address = header[open+1 : open+end]
			}
		} else if strings.Contains(header, "@") {
			p.address = header
		} else {
			p.displayName = strings.Trim(header, `"`)
		}
	}

	if at := strings.LastIndex(p.address, "@"); at >= 0 && at < len(p.address)-1 {
		p.domain = strings.ToLower(p.address[at+1:])
	}
	p.personal = p.domain != "" && r.tables.IsGenericDomain(p.domain)
	return p
}

// fromDisplayName accepts the display name as the company when, after
// noise stripping, it passes the company-like heuristic.
func (r *Resolver) fromDisplayName(sender parsedSender, _, _ string) (model.CompanyIdentity, bool) {
	name := r.stripNoise(sender.displayName)
	if name == "" || !r.looksLikeCompany(name) {
		return model.CompanyIdentity{}, false
	}
	return model.CompanyIdentity{
		Name:            name,
		IsPersonalEmail: sender.personal,
		Source:          model.SourceDisplayName,
	}, true
}

// fromContent scans subject+body for recognized company names, then
// for phrase patterns that introduce one. First match wins.
func (r *Resolver) fromContent(sender parsedSender, subject, body string) (model.CompanyIdentity, bool) {
	content := subject + "\n" + body
	lower := strings.ToLower(content)

	for _, known := range r.tables.KnownCompanies {
		if strings.Contains(lower, strings.ToLower(known)) {
			return model.CompanyIdentity{
				Name:            known,
				IsPersonalEmail: sender.personal,
				Source:          model.SourceContentPattern,
			}, true
		}
	}

	for _, pattern := range contentPatterns {
		m := pattern.FindStringSubmatch(content)
		if len(m) < 2 {
			continue
		}
		candidate := strings.TrimRight(strings.TrimSpace(m[1]), ".,;:")
		if candidate == "" || r.containsSalutation(candidate) {
			continue
		}
		return model.CompanyIdentity{
			Name:            candidate,
			IsPersonalEmail: sender.personal,
			Source:          model.SourceContentPattern,
		}, true
	}
	return model.CompanyIdentity{}, false
}

// fromKnownDomain resolves the sender domain against the canonical
// domain table. Generic consumer domains never reach this rule: the
// chain for personal senders skips it entirely.
func (r *Resolver) fromKnownDomain(sender parsedSender, _, _ string) (model.CompanyIdentity, bool) {
	if sender.domain == "" {
		return model.CompanyIdentity{}, false
	}
	name, ok := r.tables.CanonicalForDomain(sender.domain)
	if !ok {
		return model.CompanyIdentity{}, false
	}
	return model.CompanyIdentity{
		Name:   name,
		Source: model.SourceKnownDomain,
	}, true
}

// fallback terminates the chain. Corporate domains title-case their
// second-level label; personal senders with no signal resolve to
// Unknown with the generic-domain marker; senders with no domain at
// all resolve to Unknown.
func (r *Resolver) fallback(sender parsedSender) model.CompanyIdentity {
	if sender.personal {
		return model.CompanyIdentity{
			Name:            model.UnknownCompany,
			IsPersonalEmail: true,
			Source:          model.SourceGenericDomain,
		}
	}
	if label := secondLevelLabel(sender.domain); label != "" {
		return model.CompanyIdentity{
			Name:   r.titler.String(label),
			Source: model.SourceFallback,
		}
	}
	return model.CompanyIdentity{
		Name:   model.UnknownCompany,
		Source: model.SourceFallback,
	}
}

// secondLevelLabel returns the label left of the TLD, tolerating
// subdomains: mail.acme.io -> acme.
func secondLevelLabel(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
