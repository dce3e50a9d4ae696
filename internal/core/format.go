// Package core provides the XP domain types and the pure functions that
// turn raw platform data into display values.
//
// This file contains the magnitude formatter. Each category has its own
// rounding policy and they are intentionally not unified:
//
//	>= 1 MB: Received rounds to 2 places, everything else truncates.
//	>= 1 kB: Bonus rounds to 2 places, everything else takes the ceiling.
//	<  1 kB: the raw integer with a "B" suffix.
package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Category selects the rounding policy applied by FormatXP.
type Category string

const (
	CategoryTotal     Category = "Total"
	CategorySchool    Category = "School"
	CategoryPiscineGo Category = "PiscineGo"
	CategoryPiscineJS Category = "PiscineJS"
	CategoryDone      Category = "Done"
	CategoryBonus     Category = "Bonus"
	CategoryReceived  Category = "Received"
)

const (
	megabyte = 1_000_000
	kilobyte = 1_000
)

var (
	decMega = decimal.NewFromInt(megabyte)
	decKilo = decimal.NewFromInt(kilobyte)
)

// FormatXP renders a non-negative XP amount as a "B", "kB" or "MB" string.
//
// Examples:
//
//	FormatXP(999, CategoryTotal)          -> "999 B"
//	FormatXP(1_001, CategoryTotal)        -> "2 kB"
//	FormatXP(1_500, CategoryBonus)        -> "1.50 kB"
//	FormatXP(2_549_000, CategoryTotal)    -> "2.54 MB"
//	FormatXP(2_500_000, CategoryReceived) -> "2.50 MB"
func FormatXP(amount int64, c Category) string {
	switch {
	case amount >= megabyte:
		m := decimal.NewFromInt(amount).Div(decMega)
		if c == CategoryReceived {
			m = m.Round(2)
		} else {
			m = m.Truncate(2)
		}
		return m.StringFixed(2) + " MB"
	case amount >= kilobyte:
		k := decimal.NewFromInt(amount).Div(decKilo)
		if c == CategoryBonus {
			return k.Round(2).StringFixed(2) + " kB"
		}
		return k.Ceil().String() + " kB"
	default:
		return strconv.FormatInt(amount, 10) + " B"
	}
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryTotal, CategorySchool, CategoryPiscineGo, CategoryPiscineJS,
		CategoryDone, CategoryBonus, CategoryReceived,
	}
}
