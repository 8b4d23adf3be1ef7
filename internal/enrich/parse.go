package enrich

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/narrisia/inbox-intel/internal/model"
)

var errMissingIntent = eris.New("enrich: payload missing intent category")

// analysisPayload mirrors the JSON contract of analysisSystemPrompt.
type analysisPayload struct {
	Company companyPayload `json:"company"`
	Intent  intentPayload  `json:"intent"`
	Summary string         `json:"summary"`
}

type companyPayload struct {
	Name                 string   `json:"name"`
	Industry             string   `json:"industry"`
	CompanySize          string   `json:"company_size"`
	Founded              int      `json:"founded"`
	MarketCapUSD         float64  `json:"market_cap_usd"`
	RevenueUSD           float64  `json:"revenue_usd"`
	FundingStatus        string   `json:"funding_status"`
	Investors            []string `json:"investors"`
	DomainAgeYears       float64  `json:"domain_age_years"`
	EmployeeCount        int      `json:"employee_count"`
	Headquarters         string   `json:"headquarters"`
	Website              string   `json:"website"`
	Description          string   `json:"description"`
	BusinessModel        string   `json:"business_model"`
	SentimentScore       float64  `json:"sentiment_score"`
	Certified            bool     `json:"certified"`
	FundedByTopInvestors bool     `json:"funded_by_top_investors"`
}

type intentPayload struct {
	Intent             string  `json:"intent"`
	IntentConfidence   float64 `json:"intent_confidence"`
	BusinessRelevant   bool    `json:"business_relevant"`
	BusinessCategory   string  `json:"business_category"`
	BusinessConfidence float64 `json:"business_confidence"`
	Notes              string  `json:"notes"`
}

// parseAnalysis sanitizes and decodes a combined analysis response.
// A payload missing the intent category is treated as malformed: the
// caller falls back to synthesis rather than emitting a hollow record.
func parseAnalysis(raw string) (*analysisPayload, error) {
	var payload analysisPayload
	if err := decodeJSON(raw, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Intent.Intent) == "" {
		return nil, errMissingIntent
	}
	return &payload, nil
}

// profileFrom merges provider company details with display defaults
// for anything omitted.
func profileFrom(c companyPayload) model.CompanyProfile {
	p := model.CompanyProfile{
		Industry:       orUnknown(c.Industry),
		CompanySize:    orUnknown(c.CompanySize),
		Founded:        c.Founded,
		MarketCapUSD:   c.MarketCapUSD,
		RevenueUSD:     c.RevenueUSD,
		FundingStatus:  orUnknown(c.FundingStatus),
		Investors:      c.Investors,
		DomainAgeYears: c.DomainAgeYears,
		EmployeeCount:  c.EmployeeCount,
		Headquarters:   orUnknown(c.Headquarters),
		Website:        c.Website,
		Description:    c.Description,
		BusinessModel:  orUnknown(c.BusinessModel),
	}
	if p.Description == "" {
		p.Description = "No description available"
	}
	return p
}

// metricsFrom lifts the scoring inputs out of a provider payload,
// substituting the documented defaults for anything missing.
func metricsFrom(c companyPayload) model.CredibilityMetrics {
	age := 0.0
	if c.Founded > 0 {
		age = yearsSince(c.Founded)
	}
	return model.CredibilityMetrics{
		AgeYears:             age,
		MarketCapUSD:         c.MarketCapUSD,
		EmployeeCount:        c.EmployeeCount,
		DomainAgeYears:       c.DomainAgeYears,
		SentimentScore:       clamp(c.SentimentScore, 0, 1),
		Certified:            c.Certified,
		FundedByTopInvestors: c.FundedByTopInvestors || len(c.Investors) > 0,
	}
}

// intentFrom clamps and normalizes a provider intent classification.
func intentFrom(i intentPayload) model.IntentClassification {
	return model.IntentClassification{
		Intent:             strings.TrimSpace(i.Intent),
		IntentConfidence:   clamp(i.IntentConfidence, 0, 1),
		BusinessRelevant:   i.BusinessRelevant,
		BusinessCategory:   i.BusinessCategory,
		BusinessConfidence: clamp(i.BusinessConfidence, 0, 1),
		Notes:              i.Notes,
	}
}

// unknownIntent is the classification recorded whenever inference
// fails or returns unparsable output.
func unknownIntent(reason string) model.IntentClassification {
	return model.IntentClassification{
		Intent:           "unknown",
		BusinessCategory: "unknown",
		Notes:            reason,
	}
}

func yearsSince(year int) float64 {
	y := time.Now().Year() - year
	if y < 0 {
		return 0
	}
	return float64(y)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
