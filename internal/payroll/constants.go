package payroll

// PayFrequency is the canonical pay cadence for a period.
type PayFrequency string

const (
	FrequencyWeekly      PayFrequency = "weekly"
	FrequencyBiweekly    PayFrequency = "biweekly"
	FrequencySemimonthly PayFrequency = "semimonthly"
	FrequencyMonthly     PayFrequency = "monthly"
)

// PeriodsPerYear returns the canonical number of pay periods for the
// frequency, or 0 for an unknown frequency.
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyBiweekly:
		return 26
	case FrequencySemimonthly:
		return 24
	case FrequencyMonthly:
		return 12
	default:
		return 0
	}
}

// Deduction line item names. The order items appear in a result is fixed
// so year-end exports can map fields positionally.
const (
	ItemFederalTax     = "federal_tax"
	ItemProvincialTax  = "provincial_tax"
	ItemStateTax       = "state_tax"
	ItemCPP            = "cpp"
	ItemQPP            = "qpp"
	ItemEI             = "ei"
	ItemRQAP           = "rqap"
	ItemSocialSecurity = "social_security"
	ItemMedicare       = "medicare"

	ItemMedicalInsurance = "medical_insurance"
	ItemDentalInsurance  = "dental_insurance"
	ItemLifeInsurance    = "life_insurance"
	ItemRetirement       = "retirement"
	ItemUnionDues        = "union_dues"
	ItemGarnishment      = "garnishment"
	ItemOtherDeduction   = "other"
)

// Well-known optional earning keys. The earnings map is open; unknown
// keys are still summed into taxable gross.
const (
	EarningBonus           = "bonus"
	EarningTip             = "tip"
	EarningCommission      = "commission"
	EarningShiftPremium    = "shift_premium"
	EarningTravelAllowance = "travel_allowance"
	EarningParentalTopUp   = "parental_top_up"
	EarningFamilyBonus     = "family_bonus"
	EarningTaxCredit       = "tax_credit"
)

// voluntaryOrder fixes the position of voluntary deduction line items.
var voluntaryOrder = []string{
	ItemMedicalInsurance,
	ItemDentalInsurance,
	ItemLifeInsurance,
	ItemRetirement,
	ItemUnionDues,
	ItemGarnishment,
	ItemOtherDeduction,
}
