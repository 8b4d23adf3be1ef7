package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narrisia/inbox-intel/internal/credibility"
	"github.com/narrisia/inbox-intel/internal/model"
)

func TestDefaultTiersLoads(t *testing.T) {
	tiers := DefaultTiers()
	require.NotEmpty(t, tiers)
	for _, name := range []TierName{TierHigh, TierMedium, TierLow, TierUnknown} {
		assert.Contains(t, tiers, name, "tier %q missing", name)
	}
}

func TestRecognize(t *testing.T) {
	tiers := DefaultTiers()

	tests := []struct {
		company string
		want    TierName
	}{
		{"Google", TierHigh},
		{"google", TierHigh},
		{"MICROSOFT", TierHigh},
		{"LinkedIn", TierHigh},
		{"Stripe", TierMedium},
		{"Internshala", TierLow},
		{"Krish TechnoLabs", TierLow},
		{"Definitely Not A Company", TierUnknown},
		{model.UnknownCompany, TierUnknown},
		{"", TierUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			assert.Equal(t, tt.want, tiers.Recognize(tt.company))
		})
	}
}

func TestTierMetricsOrdering(t *testing.T) {
	tiers := DefaultTiers()

	high := credibility.Score(tiers.MetricsFor(TierHigh)).Score
	medium := credibility.Score(tiers.MetricsFor(TierMedium)).Score
	low := credibility.Score(tiers.MetricsFor(TierLow)).Score

	assert.Greater(t, high, medium)
	assert.Greater(t, medium, low)
}

func TestMetricsForUnknownTierMatchesDefaults(t *testing.T) {
	metrics := DefaultTiers().MetricsFor(TierUnknown)

	defaults := credibility.ApplyDefaults(model.CredibilityMetrics{})

	assert.Equal(t, defaults.AgeYears, metrics.AgeYears)
	assert.Equal(t, defaults.EmployeeCount, metrics.EmployeeCount)
	assert.Equal(t, defaults.DomainAgeYears, metrics.DomainAgeYears)
	assert.Equal(t, defaults.SentimentScore, metrics.SentimentScore)
}

func TestProfileFor(t *testing.T) {
	tiers := DefaultTiers()

	profile := tiers.ProfileFor("Google", TierHigh)
	assert.NotEmpty(t, profile.CompanySize)
	assert.Contains(t, profile.Website, "google")

	unknown := tiers.ProfileFor(model.UnknownCompany, TierUnknown)
	assert.Equal(t, "Unknown", unknown.Industry)
	assert.Empty(t, unknown.Website)
}

func TestLoadTiersRejectsEmpty(t *testing.T) {
	_, err := LoadTiers([]byte(""))
	assert.Error(t, err)
}
