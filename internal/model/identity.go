package model

// ResolutionSource records which rule of the identity chain produced a
// company name. Exactly one source is recorded per identity: the first
// rule that returned a non-empty result.
type ResolutionSource string

const (
	SourceDisplayName    ResolutionSource = "display_name"
	SourceContentPattern ResolutionSource = "content_pattern"
	SourceKnownDomain    ResolutionSource = "known_domain"
	SourceGenericDomain  ResolutionSource = "generic_domain"
	SourceFallback       ResolutionSource = "fallback"
)

// UnknownCompany is the terminal identity name for senders that yield
// no company signal at all. It is a valid value, not an error.
const UnknownCompany = "Unknown"

// CompanyIdentity is the resolved organization behind a message sender.
type CompanyIdentity struct {
	Name            string           `json:"name"` // never empty; UnknownCompany at worst
	IsPersonalEmail bool             `json:"is_personal_email"`
	Source          ResolutionSource `json:"resolution_source"`
}
