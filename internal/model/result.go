package model

import "time"

// CredibilityMetrics is the input record for deterministic credibility
// scoring. All fields must be populated before scoring; callers
// substitute the documented defaults (credibility.ApplyDefaults) for
// missing data.
type CredibilityMetrics struct {
	AgeYears             float64 `json:"age_years"`
	MarketCapUSD         float64 `json:"market_cap_usd"`
	EmployeeCount        int     `json:"employee_count"`
	DomainAgeYears       float64 `json:"domain_age_years"`
	SentimentScore       float64 `json:"sentiment_score"` // 0.0-1.0
	Certified            bool    `json:"certified"`
	FundedByTopInvestors bool    `json:"funded_by_top_investors"`
}

// CredibilityAssessment is the output of the credibility engine.
// Breakdown values sum to Score within rounding tolerance.
type CredibilityAssessment struct {
	Score     float64            `json:"score"` // 0-100
	Breakdown map[string]float64 `json:"breakdown"`
}

// IntentClassification is the AI-derived purpose of a message.
// When inference fails or returns unparsable output, Intent is
// "unknown", both confidences are 0.0 and BusinessRelevant is false.
type IntentClassification struct {
	Intent             string  `json:"intent"`
	IntentConfidence   float64 `json:"intent_confidence"` // 0.0-1.0
	BusinessRelevant   bool    `json:"business_relevant"`
	BusinessCategory   string  `json:"business_category,omitempty"`
	BusinessConfidence float64 `json:"business_confidence"` // 0.0-1.0
	Notes              string  `json:"notes,omitempty"`
}

// RelevancyAssessment scores a message against the caller's
// business-domain description.
type RelevancyAssessment struct {
	Score       float64 `json:"score"` // 0-100
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
}

// CompanyProfile carries the descriptive company details merged from
// provider output, with defaults for anything the provider omitted.
type CompanyProfile struct {
	Industry       string   `json:"industry"`
	CompanySize    string   `json:"company_size"`
	Founded        int      `json:"founded,omitempty"`
	MarketCapUSD   float64  `json:"market_cap_usd"`
	RevenueUSD     float64  `json:"revenue_usd"`
	FundingStatus  string   `json:"funding_status"`
	Investors      []string `json:"investors,omitempty"`
	DomainAgeYears float64  `json:"domain_age_years"`
	EmployeeCount  int      `json:"employee_count"`
	Headquarters   string   `json:"headquarters"`
	Website        string   `json:"website"`
	Description    string   `json:"description"`
	BusinessModel  string   `json:"business_model"`
}

// ContactQuality buckets the final credibility score for display.
type ContactQuality string

const (
	ContactQualityHigh   ContactQuality = "High"
	ContactQualityMedium ContactQuality = "Medium"
	ContactQualityLow    ContactQuality = "Low"
)

// QualityForScore maps a credibility score to a contact quality bucket.
func QualityForScore(score float64) ContactQuality {
	switch {
	case score > 70:
		return ContactQualityHigh
	case score > 40:
		return ContactQualityMedium
	default:
		return ContactQualityLow
	}
}

// EnrichmentResult is the complete per-message intelligence record.
// The orchestrator creates one per surviving message and never mutates
// it after it joins the output collection.
type EnrichmentResult struct {
	ID           string                `json:"id"`
	MessageID    string                `json:"message_id"`
	Sender       string                `json:"sender"`
	SenderDomain string                `json:"sender_domain"`
	Identity     CompanyIdentity       `json:"identity"`
	Profile      CompanyProfile        `json:"profile"`
	Credibility  CredibilityAssessment `json:"credibility"`
	Quality      ContactQuality        `json:"contact_quality"`
	Intent       IntentClassification  `json:"intent"`
	Relevancy    RelevancyAssessment   `json:"relevancy"`
	Summary      string                `json:"summary"`
	EnrichedAt   time.Time             `json:"enriched_at"`
}
