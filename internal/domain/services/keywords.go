package services

// KeywordCategory groups literal trigger substrings under a semantic label.
// Categories are held in slices, not maps, so matching order is stable.
type KeywordCategory struct {
	Name     string
	Triggers []string
}

// detectionTaxonomy is the broad table used by the risk scorer to decide
// whether a message looks like a scam at all.
var detectionTaxonomy = []KeywordCategory{
	{Name: "upi", Triggers: []string{"upi", "@upi", "paytm", "gpay", "phonepe"}},
	{Name: "bank", Triggers: []string{"account", "kyc", "ifsc", "atm", "debit", "credit"}},
	{Name: "otp", Triggers: []string{"otp", "one time password", "verification code"}},
	{Name: "delivery", Triggers: []string{"courier", "parcel", "delivery", "shipment"}},
	{Name: "urgency", Triggers: []string{"urgent", "immediately", "act now", "limited time"}},
	{Name: "reward", Triggers: []string{"winner", "lottery", "prize", "reward", "jackpot", "mega draw"}},
	{Name: "job", Triggers: []string{"job offer", "work from home", "easy money"}},
	{Name: "link", Triggers: []string{"http", "https", ".com", ".link"}},
}

// pressureTaxonomy is the narrower table that drives the escalation state
// machine. It deliberately overlaps with the detection table: detection is
// broad triage, pressure triggers mark the turns where the scammer pushes
// for something dangerous.
var pressureTaxonomy = []KeywordCategory{
	{Name: "otp", Triggers: []string{"otp", "verification code", "one time password"}},
	{Name: "money", Triggers: []string{"pay", "fee", "charge", "amount", "transfer"}},
	{Name: "urgency", Triggers: []string{"urgent", "immediately", "act now"}},
	{Name: "bank", Triggers: []string{"bank", "account", "kyc", "ifsc"}},
	{Name: "upi", Triggers: []string{"upi", "paytm", "gpay", "phonepe"}},
}

// DetectionTaxonomy returns the canonical detection category table.
func DetectionTaxonomy() []KeywordCategory {
	return detectionTaxonomy
}

// PressureTaxonomy returns the canonical escalation-trigger table.
func PressureTaxonomy() []KeywordCategory {
	return pressureTaxonomy
}
