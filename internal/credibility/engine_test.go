package credibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narrisia/inbox-intel/internal/model"
)

func metricsFixture() model.CredibilityMetrics {
	return model.CredibilityMetrics{
		AgeYears:             8,
		MarketCapUSD:         2_000_000_000,
		EmployeeCount:        1200,
		DomainAgeYears:       6,
		SentimentScore:       0.7,
		Certified:            true,
		FundedByTopInvestors: false,
	}
}

func TestScore_InRange(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.CredibilityMetrics
	}{
		{"zero record", model.CredibilityMetrics{}},
		{"typical", metricsFixture()},
		{"everything maxed", model.CredibilityMetrics{
			AgeYears:             200,
			MarketCapUSD:         5e12,
			EmployeeCount:        3_000_000,
			DomainAgeYears:       50,
			SentimentScore:       1.0,
			Certified:            true,
			FundedByTopInvestors: true,
		}},
		{"out-of-range sentiment clipped", model.CredibilityMetrics{SentimentScore: 9.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.metrics)
			assert.GreaterOrEqual(t, got.Score, 0.0)
			assert.LessOrEqual(t, got.Score, 100.0)
		})
	}
}

func TestScore_MaxedMetricsHitCeiling(t *testing.T) {
	got := Score(model.CredibilityMetrics{
		AgeYears:             100,
		MarketCapUSD:         1e13,
		EmployeeCount:        10_000_000,
		DomainAgeYears:       100,
		SentimentScore:       1.0,
		Certified:            true,
		FundedByTopInvestors: true,
	})
	assert.Equal(t, 100.0, got.Score)
}

func TestScore_BreakdownSumsToScore(t *testing.T) {
	got := Score(metricsFixture())

	sum := 0.0
	for _, contribution := range got.Breakdown {
		sum += contribution
	}
	assert.InDelta(t, got.Score, sum, 0.01)
	assert.Len(t, got.Breakdown, 7)
}

func TestScore_Idempotent(t *testing.T) {
	m := metricsFixture()
	first := Score(m)
	second := Score(m)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

// Varying one factor upward while holding the rest fixed must never
// decrease the score.
func TestScore_MonotonicPerFactor(t *testing.T) {
	base := metricsFixture()
	base.Certified = false

	mutations := []struct {
		name  string
		apply func(m model.CredibilityMetrics, step int) model.CredibilityMetrics
	}{
		{"age", func(m model.CredibilityMetrics, s int) model.CredibilityMetrics {
			m.AgeYears = float64(s) * 1.5
			return m
		}},
		{"market cap", func(m model.CredibilityMetrics, s int) model.CredibilityMetrics {
			m.MarketCapUSD = float64(s) * 7.3e8
			return m
		}},
		{"employees", func(m model.CredibilityMetrics, s int) model.CredibilityMetrics {
			m.EmployeeCount = s * 450
			return m
		}},
		{"domain age", func(m model.CredibilityMetrics, s int) model.CredibilityMetrics {
			m.DomainAgeYears = float64(s) * 0.8
			return m
		}},
		{"sentiment", func(m model.CredibilityMetrics, s int) model.CredibilityMetrics {
			m.SentimentScore = float64(s) * 0.05
			return m
		}},
		{"certified", func(m model.CredibilityMetrics, s int) model.CredibilityMetrics {
			m.Certified = s > 10
			return m
		}},
		{"funded", func(m model.CredibilityMetrics, s int) model.CredibilityMetrics {
			m.FundedByTopInvestors = s > 10
			return m
		}},
	}

	for _, mut := range mutations {
		t.Run(mut.name, func(t *testing.T) {
			prev := -1.0
			for step := 0; step <= 20; step++ {
				score := Score(mut.apply(base, step)).Score
				require.GreaterOrEqual(t, score, prev,
					"score decreased at step %d", step)
				prev = score
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	filled := ApplyDefaults(model.CredibilityMetrics{})
	assert.Equal(t, DefaultAgeYears, filled.AgeYears)
	assert.Equal(t, DefaultEmployeeCount, filled.EmployeeCount)
	assert.Equal(t, DefaultDomainAgeYears, filled.DomainAgeYears)
	assert.Equal(t, DefaultSentiment, filled.SentimentScore)
	assert.False(t, filled.Certified)
	assert.False(t, filled.FundedByTopInvestors)
	assert.Zero(t, filled.MarketCapUSD)
}

func TestApplyDefaults_KeepsProvidedValues(t *testing.T) {
	m := metricsFixture()
	assert.Equal(t, m, ApplyDefaults(m))
}
