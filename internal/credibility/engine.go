// Package credibility turns a company metrics record into a
// deterministic 0-100 score with a per-factor breakdown. Scoring is a
// pure, total function: it never fails and never consults anything
// beyond its input.
package credibility

import (
	"math"

	"github.com/narrisia/inbox-intel/internal/model"
)

// Factor weights. They sum to 100, so each contribution is directly
// the number of points a factor can add.
const (
	weightAge       = 10.0
	weightMarketCap = 20.0
	weightEmployees = 20.0
	weightDomainAge = 10.0
	weightSentiment = 15.0
	weightCertified = 10.0
	weightFunded    = 15.0
)

// Saturation points for the scaled factors.
const (
	ageSaturationYears       = 10.0
	domainAgeSaturationYears = 10.0
	marketCapSaturationLog   = 12.0 // log10 of $1T
	employeeSaturationLog    = 6.0  // log10 of 1M heads
)

// Breakdown factor names. Stable keys: they appear in API responses.
const (
	FactorAge       = "company_age"
	FactorMarketCap = "market_cap"
	FactorEmployees = "employee_count"
	FactorDomainAge = "domain_age"
	FactorSentiment = "sentiment"
	FactorCertified = "certification"
	FactorFunded    = "top_investor_funding"
)

// Documented defaults substituted for missing metric values. Callers
// apply these (via ApplyDefaults) rather than passing zero records.
const (
	DefaultAgeYears       = 5.0
	DefaultEmployeeCount  = 100
	DefaultDomainAgeYears = 5.0
	DefaultSentiment      = 0.5
)

// ApplyDefaults fills the documented defaults into any metric field
// still at its zero value. Market cap has no default: an unknown cap
// simply contributes nothing.
func ApplyDefaults(m model.CredibilityMetrics) model.CredibilityMetrics {
	if m.AgeYears <= 0 {
		m.AgeYears = DefaultAgeYears
	}
	if m.EmployeeCount <= 0 {
		m.EmployeeCount = DefaultEmployeeCount
	}
	if m.DomainAgeYears <= 0 {
		m.DomainAgeYears = DefaultDomainAgeYears
	}
	if m.SentimentScore <= 0 {
		m.SentimentScore = DefaultSentiment
	}
	return m
}

// Score maps metrics to a credibility assessment. Each factor is
// normalized to [0,1], clipped, then weighted; the score is the exact
// sum of the breakdown contributions and lands in [0,100]. The mapping
// is monotonic non-decreasing in every factor.
func Score(m model.CredibilityMetrics) model.CredibilityAssessment {
	breakdown := map[string]float64{
		FactorAge:       weightAge * linear(m.AgeYears, ageSaturationYears),
		FactorMarketCap: weightMarketCap * logScaled(m.MarketCapUSD, marketCapSaturationLog),
		FactorEmployees: weightEmployees * logScaled(float64(m.EmployeeCount), employeeSaturationLog),
		FactorDomainAge: weightDomainAge * linear(m.DomainAgeYears, domainAgeSaturationYears),
		FactorSentiment: weightSentiment * clamp01(m.SentimentScore),
		FactorCertified: bonus(m.Certified, weightCertified),
		FactorFunded:    bonus(m.FundedByTopInvestors, weightFunded),
	}

	total := 0.0
	for factor, contribution := range breakdown {
		contribution = round2(contribution)
		breakdown[factor] = contribution
		total += contribution
	}

	return model.CredibilityAssessment{
		Score:     round2(total),
		Breakdown: breakdown,
	}
}

// linear normalizes v against a saturation cap.
func linear(v, saturation float64) float64 {
	if v <= 0 {
		return 0
	}
	return clamp01(v / saturation)
}

// logScaled compresses wide-ranging magnitudes (market cap, headcount)
// on a log10 curve that saturates at saturationLog decades.
func logScaled(v, saturationLog float64) float64 {
	if v <= 0 {
		return 0
	}
	return clamp01(math.Log10(v+1) / saturationLog)
}

func bonus(on bool, weight float64) float64 {
	if on {
		return weight
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
