package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysis = `{
  "company": {
    "name": "Krish TechnoLabs",
    "industry": "E-commerce Services",
    "company_size": "Small (51-200)",
    "founded": 2003,
    "market_cap_usd": 0,
    "revenue_usd": 10000000,
    "funding_status": "Private",
    "investors": [],
    "domain_age_years": 18,
    "employee_count": 180,
    "headquarters": "Ahmedabad, India",
    "website": "https://krishtechnolabs.com",
    "description": "Digital commerce agency.",
    "business_model": "B2B",
    "sentiment_score": 0.7,
    "certified": true,
    "funded_by_top_investors": false
  },
  "intent": {
    "intent": "job_offer",
    "intent_confidence": 0.92,
    "business_relevant": true,
    "business_category": "recruiting",
    "business_confidence": 0.85,
    "notes": "Recruiter outreach for a Magento role."
  },
  "summary": "Recruiter at Krish TechnoLabs offering a Magento developer position."
}`

func TestParseAnalysis(t *testing.T) {
	payload, err := parseAnalysis("```json\n" + sampleAnalysis + "\n```")
	require.NoError(t, err)

	assert.Equal(t, "Krish TechnoLabs", payload.Company.Name)
	assert.Equal(t, 2003, payload.Company.Founded)
	assert.Equal(t, "job_offer", payload.Intent.Intent)
	assert.Equal(t, 0.92, payload.Intent.IntentConfidence)
	assert.NotEmpty(t, payload.Summary)
}

func TestParseAnalysisMissingIntent(t *testing.T) {
	_, err := parseAnalysis(`{"company": {"name": "Acme"}, "summary": "x"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingIntent)
}

func TestParseAnalysisGarbage(t *testing.T) {
	_, err := parseAnalysis("The sender appears to be a recruiter.")
	assert.Error(t, err)

	_, err = parseAnalysis("")
	assert.Error(t, err)
}

func TestProfileFromDefaults(t *testing.T) {
	p := profileFrom(companyPayload{Name: "Acme"})

	assert.Equal(t, "Unknown", p.Industry)
	assert.Equal(t, "Unknown", p.CompanySize)
	assert.Equal(t, "Unknown", p.FundingStatus)
	assert.Equal(t, "Unknown", p.Headquarters)
	assert.Equal(t, "Unknown", p.BusinessModel)
	assert.Equal(t, "No description available", p.Description)
}

func TestMetricsFrom(t *testing.T) {
	c := companyPayload{
		Founded:        2003,
		MarketCapUSD:   5e7,
		EmployeeCount:  180,
		DomainAgeYears: 18,
		SentimentScore: 1.7,
		Certified:      true,
	}
	m := metricsFrom(c)

	assert.InDelta(t, float64(time.Now().Year()-2003), m.AgeYears, 0.001)
	assert.Equal(t, 1.0, m.SentimentScore, "sentiment clamps to [0,1]")
	assert.Equal(t, 180, m.EmployeeCount)
	assert.False(t, m.FundedByTopInvestors)
}

func TestMetricsFromInvestorsImplyFunding(t *testing.T) {
	m := metricsFrom(companyPayload{Investors: []string{"Sequoia"}})
	assert.True(t, m.FundedByTopInvestors)
}

func TestMetricsFromFutureFoundedYear(t *testing.T) {
	m := metricsFrom(companyPayload{Founded: time.Now().Year() + 5})
	assert.Equal(t, 0.0, m.AgeYears)
}

func TestIntentFromClampsConfidence(t *testing.T) {
	in := intentFrom(intentPayload{
		Intent:             " sales_pitch ",
		IntentConfidence:   1.4,
		BusinessConfidence: -0.2,
	})

	assert.Equal(t, "sales_pitch", in.Intent)
	assert.Equal(t, 1.0, in.IntentConfidence)
	assert.Equal(t, 0.0, in.BusinessConfidence)
}

func TestUnknownIntent(t *testing.T) {
	in := unknownIntent("analysis call failed: boom")

	assert.Equal(t, "unknown", in.Intent)
	assert.Equal(t, "unknown", in.BusinessCategory)
	assert.Equal(t, 0.0, in.IntentConfidence)
	assert.False(t, in.BusinessRelevant)
	assert.Contains(t, in.Notes, "boom")
}
