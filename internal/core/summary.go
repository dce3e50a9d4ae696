package core

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Summary is the display-ready set of profile statistics.
type Summary struct {
	FullName string `json:"fullName"`
	Login    string `json:"login"`
	Campus   string `json:"campus"`
	Email    string `json:"email"`

	TotalXP      string `json:"totalXp"`
	TotalXPExact string `json:"totalXpExact"`
	SchoolXP     string `json:"schoolXp"`
	PiscineGoXP  string `json:"piscineGoXp"`
	PiscineJSXP  string `json:"piscineJsXp"`

	AuditGiven string `json:"auditGiven"`
	Done       string `json:"done"`
	Bonus      string `json:"bonus"`
	Received   string `json:"received"`
	AuditRatio string `json:"auditRatio"`
}

// AuditRatioUnavailable is shown when nothing has been received yet.
const AuditRatioUnavailable = "n/a"

// Summarize formats the numeric profile fields. The totals are passed
// through FormatXP independently; no transaction is re-aggregated here.
func Summarize(p Profile) Summary {
	u := p.User
	given := u.TotalUp + u.TotalUpBonus
	return Summary{
		FullName: u.FullName(),
		Login:    u.Login,
		Campus:   u.Campus,
		Email:    u.Email,

		TotalXP:      FormatXP(p.Totals.Total, CategoryTotal),
		TotalXPExact: humanize.Comma(p.Totals.Total) + " XP",
		SchoolXP:     FormatXP(p.Totals.School, CategorySchool),
		PiscineGoXP:  FormatXP(p.Totals.PiscineGo, CategoryPiscineGo),
		PiscineJSXP:  FormatXP(p.Totals.PiscineJS, CategoryPiscineJS),

		AuditGiven: FormatXP(given, CategoryDone),
		Done:       FormatXP(u.TotalUp, CategoryDone),
		Bonus:      FormatXP(u.TotalUpBonus, CategoryBonus),
		Received:   FormatXP(u.TotalDown, CategoryReceived),
		AuditRatio: AuditRatio(given, u.TotalDown),
	}
}

// AuditRatio returns given/received rounded to one decimal place.
func AuditRatio(given, received int64) string {
	if received <= 0 {
		return AuditRatioUnavailable
	}
	r := decimal.NewFromInt(given).Div(decimal.NewFromInt(received))
	return r.Round(1).StringFixed(1)
}
