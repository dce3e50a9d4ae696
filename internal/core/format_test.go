package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatXP_Bytes(t *testing.T) {
	for _, c := range Categories() {
		assert.Equal(t, "999 B", FormatXP(999, c), "category %s", c)
		assert.Equal(t, "0 B", FormatXP(0, c), "category %s", c)
	}
}

func TestFormatXP_KilobytesCeiling(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{1_000, "1 kB"},
		{1_001, "2 kB"},
		{1_500, "2 kB"},
		{12_001, "13 kB"},
		{999_999, "1000 kB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, FormatXP(tc.in, CategoryTotal), "amount %d", tc.in)
		assert.Equal(t, tc.out, FormatXP(tc.in, CategoryReceived), "received below MB still takes the ceiling, amount %d", tc.in)
	}
}

func TestFormatXP_KilobytesBonusRounds(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{1_000, "1.00 kB"},
		{1_500, "1.50 kB"},
		{1_234, "1.23 kB"},
		{1_235, "1.24 kB"},
		{999_994, "999.99 kB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, FormatXP(tc.in, CategoryBonus), "amount %d", tc.in)
	}
}

func TestFormatXP_MegabytesTruncate(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{1_000_000, "1.00 MB"},
		{2_549_000, "2.54 MB"},
		{2_559_999, "2.55 MB"},
		{10_999_999, "10.99 MB"},
	}
	for _, tc := range cases {
		for _, c := range []Category{CategoryTotal, CategorySchool, CategoryPiscineGo, CategoryPiscineJS, CategoryDone, CategoryBonus} {
			assert.Equal(t, tc.out, FormatXP(tc.in, c), "amount %d category %s", tc.in, c)
		}
	}
}

func TestFormatXP_MegabytesReceivedRounds(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{2_500_000, "2.50 MB"},
		{2_549_000, "2.55 MB"},
		{2_544_999, "2.54 MB"},
		{1_995_000, "2.00 MB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, FormatXP(tc.in, CategoryReceived), "amount %d", tc.in)
	}
}
