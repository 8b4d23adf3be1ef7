package identity

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var seedTables []byte

// Tables holds the static lookup data driving identity resolution.
// The chain treats these as data, not code: callers may load their own
// tables from YAML to extend recognition without touching the resolver.
type Tables struct {
	// EntityKeywords mark a candidate string as a corporate entity
	// ("Technologies", "Inc", ...). Matched case-insensitively on
	// word boundaries.
	EntityKeywords []string `yaml:"entity_keywords"`

	// Salutations are personal greeting keywords that veto the
	// capitalized-words acceptance rules ("Dear", "Mr", ...).
	Salutations []string `yaml:"salutations"`

	// NoiseSuffixes are display-name suffixes stripped before the
	// company-like check (" team", " alerts", ...).
	NoiseSuffixes []string `yaml:"noise_suffixes"`

	// GenericDomains are consumer mail providers that carry no company
	// signal; senders on them are flagged as personal email.
	GenericDomains []string `yaml:"generic_domains"`

	// KnownDomains maps a sender domain (exact or suffix, so
	// subdomains match) to a canonical company name.
	KnownDomains map[string]string `yaml:"known_domains"`

	// KnownCompanies are recognized names searched for in message
	// content by case-insensitive substring match.
	KnownCompanies []string `yaml:"known_companies"`
}

// LoadTables parses resolution tables from YAML.
func LoadTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "identity: parse tables")
	}
	return &t, nil
}

// DefaultTables returns the embedded seed tables.
func DefaultTables() *Tables {
	t, err := LoadTables(seedTables)
	if err != nil {
		// The embedded seed is validated by tests; a parse failure here
		// is a build defect, not a runtime condition.
		panic(err)
	}
	return t
}

// IsGenericDomain reports whether domain is a consumer mail provider.
func (t *Tables) IsGenericDomain(domain string) bool {
	domain = strings.ToLower(domain)
	for _, g := range t.GenericDomains {
		if domain == g {
			return true
		}
	}
	return false
}

// CanonicalForDomain looks up the canonical company name for a sender
// domain. Suffix matching tolerates subdomains, so
// accounts.google.com resolves the same as google.com.
func (t *Tables) CanonicalForDomain(domain string) (string, bool) {
	domain = strings.ToLower(domain)
	if name, ok := t.KnownDomains[domain]; ok {
		return name, true
	}
	for known, name := range t.KnownDomains {
		if strings.HasSuffix(domain, "."+known) {
			return name, true
		}
	}
	return "", false
}
