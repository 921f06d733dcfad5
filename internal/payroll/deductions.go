package payroll

import (
	"sort"

	"github.com/shopspring/decimal"

	"payengine/internal/rules"
)

// DeductionRequest carries everything the deduction engine needs for one
// period. PeriodCredit is the exemption credit already granted by the
// YTD accumulator for this period.
type DeductionRequest struct {
	TaxableGross  decimal.Decimal
	Rules         rules.JurisdictionRules
	FederalTable  rules.BracketTable
	RegionalTable rules.BracketTable
	PeriodCredit  decimal.Decimal
	Periods       int
	Overrides     map[string]decimal.Decimal
}

// DeductionBreakdown is the itemized, stably ordered deduction list plus
// the employer-side statutory mirrors carried for reporting.
type DeductionBreakdown struct {
	Items    []DeductionItem
	Total    decimal.Decimal
	Employer []EmployerContribution
}

// ComputeDeductions dispatches on the jurisdiction's deduction set to
// select the statutory calculators, evaluates the progressive income
// taxes on taxable gross net of the period credit, and appends the
// voluntary overrides verbatim as their own line items. Item order is
// fixed: federal tax, regional tax, statutory contributions in set
// order, then voluntary items, so exports can map fields positionally.
func ComputeDeductions(req DeductionRequest) (DeductionBreakdown, error) {
	var out DeductionBreakdown

	taxBase := req.TaxableGross.Sub(req.PeriodCredit)
	if taxBase.IsNegative() {
		taxBase = decimal.Zero
	}

	federalTax, federalUsage, err := EvaluateBrackets(req.FederalTable, taxBase)
	if err != nil {
		return DeductionBreakdown{}, err
	}
	out.Items = append(out.Items, DeductionItem{Name: ItemFederalTax, Amount: federalTax, Brackets: federalUsage})

	regionalName := ItemProvincialTax
	if req.Rules.DeductionSet == rules.SetUSFICA {
		regionalName = ItemStateTax
	}
	regionalTax, regionalUsage, err := EvaluateBrackets(req.RegionalTable, taxBase)
	if err != nil {
		return DeductionBreakdown{}, err
	}
	out.Items = append(out.Items, DeductionItem{Name: regionalName, Amount: regionalTax, Brackets: regionalUsage})

	statutory := statutoryItems(req)
	out.Items = append(out.Items, statutory...)
	for _, item := range statutory {
		out.Employer = append(out.Employer, EmployerContribution{Name: item.Name, Amount: item.Amount})
	}

	out.Items = append(out.Items, voluntaryItems(req.Overrides)...)

	total := decimal.Zero
	for _, item := range out.Items {
		total = total.Add(item.Amount)
	}
	out.Total = round2(total)
	return out, nil
}

func statutoryItems(req DeductionRequest) []DeductionItem {
	st := req.Rules.Statutory
	switch req.Rules.DeductionSet {
	case rules.SetCanadaCPPEI:
		return []DeductionItem{
			pensionItem(ItemCPP, req, st),
			cappedRateItem(ItemEI, st.EIRate, st.EIMaxAnnualEarnings, req),
		}
	case rules.SetQuebecQPPRQAP:
		// Québec runs the parental insurance plan alongside a reduced
		// EI premium in place of the baseline scheme.
		return []DeductionItem{
			pensionItem(ItemQPP, req, st),
			cappedRateItem(ItemEI, st.EIRate, st.EIMaxAnnualEarnings, req),
			cappedRateItem(ItemRQAP, st.ParentalRate, st.ParentalMaxAnnualEarnings, req),
		}
	case rules.SetUSFICA:
		return []DeductionItem{
			cappedRateItem(ItemSocialSecurity, st.PensionRate, st.PensionMaxAnnualEarnings, req),
			rateItem(ItemMedicare, st.MedicareRate, req.TaxableGross),
		}
	default:
		return nil
	}
}

// pensionItem computes a CPP/QPP contribution: rate applied to earnings
// under the prorated ceiling, less the prorated basic exemption.
func pensionItem(name string, req DeductionRequest, st rules.StatutoryRates) DeductionItem {
	base := contributionBase(req.TaxableGross, st.PensionMaxAnnualEarnings, req.Periods)
	exemption := round2(st.PensionAnnualExemption.Div(decimal.NewFromInt(int64(req.Periods))))
	base = base.Sub(exemption)
	if base.IsNegative() {
		base = decimal.Zero
	}
	rate := st.PensionRate
	return DeductionItem{Name: name, Amount: round2(base.Mul(rate)), Rate: &rate}
}

func cappedRateItem(name string, rate, maxAnnualEarnings decimal.Decimal, req DeductionRequest) DeductionItem {
	base := contributionBase(req.TaxableGross, maxAnnualEarnings, req.Periods)
	r := rate
	return DeductionItem{Name: name, Amount: round2(base.Mul(rate)), Rate: &r}
}

func rateItem(name string, rate, base decimal.Decimal) DeductionItem {
	r := rate
	return DeductionItem{Name: name, Amount: round2(base.Mul(rate)), Rate: &r}
}

// contributionBase caps period earnings at the prorated share of the
// annual insurable/pensionable ceiling. A zero ceiling means uncapped.
func contributionBase(taxableGross, maxAnnualEarnings decimal.Decimal, periods int) decimal.Decimal {
	if maxAnnualEarnings.IsZero() {
		return taxableGross
	}
	ceiling := round2(maxAnnualEarnings.Div(decimal.NewFromInt(int64(periods))))
	return decimal.Min(taxableGross, ceiling)
}

// voluntaryItems returns the override amounts verbatim, one line item
// each for auditability, known items first in their fixed order and any
// remaining keys in lexical order.
func voluntaryItems(overrides map[string]decimal.Decimal) []DeductionItem {
	if len(overrides) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(overrides))
	var items []DeductionItem
	for _, name := range voluntaryOrder {
		if amount, ok := overrides[name]; ok {
			items = append(items, DeductionItem{Name: name, Amount: round2(amount)})
			seen[name] = true
		}
	}

	var rest []string
	for name := range overrides {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		items = append(items, DeductionItem{Name: name, Amount: round2(overrides[name])})
	}
	return items
}
