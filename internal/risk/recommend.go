package risk

import (
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/Veraticus/scamguard/internal/pattern"
)

// Advice shown for severe (critical or high) risk.
var severeAdvice = []string{
	"❌ DO NOT click any links in this message",
	"❌ DO NOT share any personal information",
	"❌ DO NOT send money or OTP",
	"✅ Block and report the sender immediately",
	"📞 Report to Cyber Crime Helpline: 1930",
	"🌐 File online complaint: https://cybercrime.gov.in",
}

var mediumAdvice = []string{
	"⚠️ Be very cautious with this message",
	"✅ Verify the sender through official channels",
	"📚 Visit our awareness website to learn more about such scams",
}

var lowAdvice = []string{
	"✅ This message appears safe, but always stay vigilant",
	"📚 Visit our website to learn about scam prevention",
}

// categoryAdvice lists the category-specific directives in the order they are appended.
var categoryAdvice = []struct {
	category string
	advice   string
}{
	{pattern.CategoryFinancial, "💰 Never share bank details, OTP, or UPI PIN"},
	{pattern.CategoryIdentity, "🆔 Never share Aadhaar, PAN, or personal documents"},
	{pattern.CategoryPhishing, "🔍 Check URLs carefully - look for spelling mistakes"},
	{pattern.CategorySecurity, "🔐 Enable two-factor authentication on all accounts"},
}

// DoNotClickAdvice is the first directive for severe risk.
var DoNotClickAdvice = severeAdvice[0]

// Recommend returns de-duplicated advice for the risk level and findings,
// preserving first-seen order.
func Recommend(level model.RiskLevel, findings []model.Finding) []string {
	var base []string
	switch level {
	case model.RiskCritical, model.RiskHigh:
		base = severeAdvice
	case model.RiskMedium:
		base = mediumAdvice
	default:
		base = lowAdvice
	}

	recommendations := make([]string, 0, len(base)+len(categoryAdvice))
	recommendations = append(recommendations, base...)

	categories := make(map[string]bool, len(findings))
	for _, f := range findings {
		categories[f.Category] = true
	}
	for _, ca := range categoryAdvice {
		if categories[ca.category] {
			recommendations = append(recommendations, ca.advice)
		}
	}

	return dedupe(recommendations)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
