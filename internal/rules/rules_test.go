package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	provider, err := LoadDefaults()
	require.NoError(t, err)

	keys := provider.Keys()
	assert.Len(t, keys, 9, "six Canadian provinces and three US states")

	// Every registered jurisdiction must have both a federal and a
	// regional bracket table, or the engine cannot compute taxes for it.
	for _, key := range keys {
		jr, err := provider.Resolve(key.Country, key.Region, key.Year)
		require.NoError(t, err)
		assert.Equal(t, key.Country, jr.Country)

		_, err = provider.Brackets(key.Country, "", key.Year)
		require.NoError(t, err, "missing federal table for %s", key)
		_, err = provider.Brackets(key.Country, key.Region, key.Year)
		require.NoError(t, err, "missing regional table for %s", key)
	}
}

func TestResolveUnsupportedJurisdiction(t *testing.T) {
	provider, err := LoadDefaults()
	require.NoError(t, err)

	cases := []struct {
		country, region string
		year            int
	}{
		{"fr", "idf", 2025},
		{"ca", "yt", 2025},
		{"ca", "on", 1999},
	}

	for _, tc := range cases {
		_, err := provider.Resolve(tc.country, tc.region, tc.year)
		var unsupported *UnsupportedJurisdictionError
		require.True(t, errors.As(err, &unsupported), "%s-%s/%d", tc.country, tc.region, tc.year)
		assert.Equal(t, tc.country, unsupported.Country)
		assert.Equal(t, tc.year, unsupported.Year)
	}
}

func TestResolveNormalizesKeys(t *testing.T) {
	provider, err := LoadDefaults()
	require.NoError(t, err)

	upper, err := provider.Resolve("CA", " ON ", 2025)
	require.NoError(t, err)
	lower, err := provider.Resolve("ca", "on", 2025)
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	provider := NewProvider()
	jr := JurisdictionRules{
		Country:                "ca",
		Region:                 "on",
		Year:                   2025,
		OvertimeThresholdHours: decimal.NewFromInt(44),
		OvertimeMultiplier:     decimal.NewFromFloat(1.5),
		DeductionSet:           SetCanadaCPPEI,
	}

	require.NoError(t, provider.Register(jr))
	assert.Error(t, provider.Register(jr), "rule sets are immutable once registered")
}

func TestRegisterRejectsUnknownDeductionSet(t *testing.T) {
	provider := NewProvider()
	err := provider.Register(JurisdictionRules{
		Country:            "ca",
		Region:             "on",
		Year:               2025,
		OvertimeMultiplier: decimal.NewFromFloat(1.5),
		DeductionSet:       DeductionSet("ca-legacy"),
	})
	assert.Error(t, err)
}

func TestBracketTableValidate(t *testing.T) {
	to := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	valid := BracketTable{Country: "ca", Year: 2025, Brackets: []Bracket{
		{From: decimal.Zero, To: to("50000"), Rate: decimal.RequireFromString("0.15")},
		{From: decimal.RequireFromString("50000"), Rate: decimal.RequireFromString("0.25")},
	}}
	require.NoError(t, valid.Validate())

	cases := map[string]BracketTable{
		"first bracket not at zero": {Country: "ca", Year: 2025, Brackets: []Bracket{
			{From: decimal.RequireFromString("100"), Rate: decimal.RequireFromString("0.15")},
		}},
		"overlap": {Country: "ca", Year: 2025, Brackets: []Bracket{
			{From: decimal.Zero, To: to("50000"), Rate: decimal.RequireFromString("0.15")},
			{From: decimal.RequireFromString("40000"), Rate: decimal.RequireFromString("0.25")},
		}},
		"two unbounded brackets": {Country: "ca", Year: 2025, Brackets: []Bracket{
			{From: decimal.Zero, Rate: decimal.RequireFromString("0.15")},
			{From: decimal.RequireFromString("50000"), Rate: decimal.RequireFromString("0.25")},
		}},
		"negative rate": {Country: "ca", Year: 2025, Brackets: []Bracket{
			{From: decimal.Zero, Rate: decimal.RequireFromString("-0.1")},
		}},
	}

	for name, table := range cases {
		t.Run(name, func(t *testing.T) {
			err := table.Validate()
			var invalid *BracketTableInvalidError
			require.True(t, errors.As(err, &invalid), "got: %v", err)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	data := `
jurisdictions:
  - country: ca
    region: ns
    year: 2025
    overtime_threshold_hours: 48
    overtime_multiplier: 1.5
    default_vacation_percent: 4
    vacation_in_gross_by_default: true
    deduction_set: ca-cpp-ei
    annual_exemption_credit: 16129
    statutory:
      pension_rate: 0.0595
      pension_max_annual_earnings: 71300
      pension_annual_exemption: 3500
      ei_rate: 0.0164
      ei_max_annual_earnings: 65700

brackets:
  - country: ca
    region: ""
    year: 2025
    brackets:
      - { from: 0, rate: 0.15 }

  - country: ca
    region: ns
    year: 2025
    brackets:
      - { from: 0, rate: 0.0879 }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ca-2025.yaml"), []byte(data), 0o644))

	provider, err := LoadDir(dir)
	require.NoError(t, err)

	jr, err := provider.Resolve("ca", "ns", 2025)
	require.NoError(t, err)
	assert.Equal(t, "48", jr.OvertimeThresholdHours.String())
	assert.Equal(t, SetCanadaCPPEI, jr.DeductionSet)

	_, err = provider.Brackets("ca", "ns", 2025)
	require.NoError(t, err)
}

func TestLoadDirRejectsBadData(t *testing.T) {
	dir := t.TempDir()
	data := `
jurisdictions:
  - country: ca
    region: ns
    year: 2025
    overtime_multiplier: 1.5
    deduction_set: not-a-set
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(data), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
}
