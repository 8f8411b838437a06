package pattern

import (
	"github.com/Veraticus/scamguard/internal/model"
)

// Rule categories referenced by the recommendation engine.
const (
	CategoryFinancial  = "financial"
	CategoryIdentity   = "identity"
	CategoryPhishing   = "phishing"
	CategorySecurity   = "security"
	CategoryThreat     = "threat"
	CategoryTactic     = "tactic"
	CategoryEmployment = "employment"
	CategoryEnticement = "enticement"
	CategoryDelivery   = "delivery"
	CategoryAuthority  = "authority"
	CategorySocial     = "social"
)

// DefaultRules returns the built-in scam indicator rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "lottery_winning",
			Expressions: []string{`won`, `winner`, `lottery`, `prize`, `congratulation`},
			Explanation: "Claims you won something - common lottery scam",
			Severity:    model.SeverityHigh,
			Category:    CategoryFinancial,
		},
		{
			Name:        "kyc_update",
			Expressions: []string{`kyc`, `update.*account`, `verify.*account`, `aadhaar`, `pan`},
			Explanation: "Asking for KYC/personal documents - bank impersonation scam",
			Severity:    model.SeverityCritical,
			Category:    CategoryIdentity,
		},
		{
			Name:        "account_suspension",
			Expressions: []string{`suspended`, `blocked`, `deactivated`, `closed`},
			Explanation: "Threatening to suspend account to create panic",
			Severity:    model.SeverityHigh,
			Category:    CategoryThreat,
		},
		{
			Name:        "otp_request",
			Expressions: []string{`otp`, `one time password`, `share.*otp`, `verify.*otp`},
			Explanation: "Requesting OTP - legitimate companies NEVER ask for OTP",
			Severity:    model.SeverityCritical,
			Category:    CategorySecurity,
		},
		{
			Name:        "suspicious_link",
			Expressions: []string{`click here`, `bit\.ly`, `tinyurl`, `http`, `www`, `\.com`},
			Explanation: "Contains suspicious link that could be phishing",
			Severity:    model.SeverityHigh,
			Category:    CategoryPhishing,
		},
		{
			Name:        "urgency",
			Expressions: []string{`urgent`, `immediate`, `action required`, `warning`},
			Explanation: "Creates false urgency to pressure you",
			Severity:    model.SeverityMedium,
			Category:    CategoryTactic,
		},
		{
			Name:        "job_offer",
			Expressions: []string{`work from home`, `earn money`, `part time`, `data entry`, `online job`},
			Explanation: "Too-good-to-be-true job offer - common employment scam",
			Severity:    model.SeverityMedium,
			Category:    CategoryEmployment,
		},
		{
			Name:        "free_offer",
			Expressions: []string{`free`, `gift`, `offer`, `discount`, `limited time`},
			Explanation: "Offers something free to lure you in",
			Severity:    model.SeverityMedium,
			Category:    CategoryEnticement,
		},
		{
			Name:        "parcel_courier",
			Expressions: []string{`parcel`, `courier`, `fedex`, `dhl`, `package`, `customs`},
			Explanation: "Fake parcel/courier scam - common in India",
			Severity:    model.SeverityHigh,
			Category:    CategoryDelivery,
		},
		{
			Name:        "payment_request",
			Expressions: []string{`payment pending`, `transaction failed`, `refund`, `money back`, `send money`},
			Explanation: "Fake payment issues or money requests",
			Severity:    model.SeverityHigh,
			Category:    CategoryFinancial,
		},
		{
			Name:        "banking_alert",
			Expressions: []string{`bank account`, `debit card`, `credit card`, `atm`, `net banking`},
			Explanation: "Banking-related scam - impersonating bank officials",
			Severity:    model.SeverityCritical,
			Category:    CategoryFinancial,
		},
		{
			Name:        "govt_impersonation",
			Expressions: []string{`income tax`, `itr`, `government`, `sarkari`, `official`},
			Explanation: "Impersonating government officials - serious scam",
			Severity:    model.SeverityCritical,
			Category:    CategoryAuthority,
		},
		{
			Name:        "investment",
			Expressions: []string{`investment`, `returns`, `profit`, `double.*money`, `quick money`},
			Explanation: "Fake investment scheme promising high returns",
			Severity:    model.SeverityHigh,
			Category:    CategoryFinancial,
		},
		{
			Name:        "lottery_overseas",
			Expressions: []string{`uk lottery`, `canada`, `usa`, `international`, `foreign`},
			Explanation: "Claims of winning foreign lottery - common scam",
			Severity:    model.SeverityHigh,
			Category:    CategoryFinancial,
		},
		{
			Name:        "friendship_trap",
			Expressions: []string{`dear friend`, `help me`, `need money`, `emergency`, `please help`},
			Explanation: "Emotional manipulation to extract money",
			Severity:    model.SeverityMedium,
			Category:    CategorySocial,
		},
	}
}
