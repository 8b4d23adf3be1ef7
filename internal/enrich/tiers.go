package enrich

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/narrisia/inbox-intel/internal/model"
)

//go:embed tiers.yaml
var seedTiers []byte

// TierName is a coarse recognition bucket used to synthesize plausible
// defaults when inference is unavailable or implausible.
type TierName string

const (
	TierHigh    TierName = "high"
	TierMedium  TierName = "medium"
	TierLow     TierName = "low"
	TierUnknown TierName = "unknown"
)

// Tier carries the illustrative financial defaults for one recognition
// bucket. The company lists are seed data, not an exhaustive registry;
// deployments extend them through their own tier file.
type Tier struct {
	AgeYears       float64  `yaml:"age_years"`
	MarketCapUSD   float64  `yaml:"market_cap_usd"`
	EmployeeCount  int      `yaml:"employee_count"`
	DomainAgeYears float64  `yaml:"domain_age_years"`
	Sentiment      float64  `yaml:"sentiment"`
	Certified      bool     `yaml:"certified"`
	Funded         bool     `yaml:"funded_by_top_investors"`
	CompanySize    string   `yaml:"company_size"`
	FundingStatus  string   `yaml:"funding_status"`
	Description    string   `yaml:"description"`
	Companies      []string `yaml:"companies"`
}

// TierTable maps tier names to their defaults.
type TierTable map[TierName]Tier

// LoadTiers parses a recognition tier table from YAML.
func LoadTiers(data []byte) (TierTable, error) {
	var wrapper struct {
		Tiers TierTable `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "enrich: parse tiers")
	}
	if len(wrapper.Tiers) == 0 {
		return nil, eris.New("enrich: tier table is empty")
	}
	return wrapper.Tiers, nil
}

// DefaultTiers returns the embedded seed tier table.
func DefaultTiers() TierTable {
	t, err := LoadTiers(seedTiers)
	if err != nil {
		panic(err)
	}
	return t
}

// Recognize buckets a company name. Names are matched
// case-insensitively against each tier's company list, high tier
// first. Unlisted names land in TierUnknown.
func (t TierTable) Recognize(companyName string) TierName {
	name := strings.ToLower(strings.TrimSpace(companyName))
	if name == "" || name == strings.ToLower(model.UnknownCompany) {
		return TierUnknown
	}
	for _, tier := range []TierName{TierHigh, TierMedium, TierLow} {
		for _, c := range t[tier].Companies {
			if strings.EqualFold(c, name) {
				return tier
			}
		}
	}
	return TierUnknown
}

// MetricsFor returns the credibility metrics a tier implies.
func (t TierTable) MetricsFor(tier TierName) model.CredibilityMetrics {
	d, ok := t[tier]
	if !ok {
		d = t[TierUnknown]
	}
	return model.CredibilityMetrics{
		AgeYears:             d.AgeYears,
		MarketCapUSD:         d.MarketCapUSD,
		EmployeeCount:        d.EmployeeCount,
		DomainAgeYears:       d.DomainAgeYears,
		SentimentScore:       d.Sentiment,
		Certified:            d.Certified,
		FundedByTopInvestors: d.Funded,
	}
}

// ProfileFor synthesizes a best-guess company profile from tier
// defaults. The description makes clear this is fallback data.
func (t TierTable) ProfileFor(companyName string, tier TierName) model.CompanyProfile {
	d, ok := t[tier]
	if !ok {
		d = t[TierUnknown]
	}
	website := ""
	if companyName != "" && companyName != model.UnknownCompany {
		website = "https://" + strings.ToLower(strings.ReplaceAll(companyName, " ", "")) + ".com"
	}
	return model.CompanyProfile{
		Industry:       "Unknown",
		CompanySize:    d.CompanySize,
		MarketCapUSD:   d.MarketCapUSD,
		FundingStatus:  d.FundingStatus,
		DomainAgeYears: d.DomainAgeYears,
		EmployeeCount:  d.EmployeeCount,
		Headquarters:   "Unknown",
		Website:        website,
		Description:    d.Description,
		BusinessModel:  "Unknown",
	}
}
