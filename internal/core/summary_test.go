package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRatio(t *testing.T) {
	cases := []struct {
		given, received int64
		out             string
	}{
		{1_500_000, 1_000_000, "1.5"},
		{2, 3, "0.7"},
		{1_000, 1_000, "1.0"},
		{0, 0, AuditRatioUnavailable},
		{5_000, 0, AuditRatioUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, AuditRatio(tc.given, tc.received), "AuditRatio(%d, %d)", tc.given, tc.received)
	}
}

func TestSummarize(t *testing.T) {
	p := Profile{
		User: UserInfo{
			Login:        "jdoe",
			Campus:       "gritlab",
			Email:        "jdoe@example.com",
			FirstName:    "Jane",
			LastName:     "Doe",
			TotalUp:      1_200_000,
			TotalUpBonus: 1_500,
			TotalDown:    2_549_000,
		},
		Totals: XPTotals{Total: 1_234_567, School: 999, PiscineGo: 1_001, PiscineJS: 0},
	}

	s := Summarize(p)
	checks := map[string][2]string{
		"FullName":     {s.FullName, "Jane Doe"},
		"TotalXP":      {s.TotalXP, "1.23 MB"},
		"TotalXPExact": {s.TotalXPExact, "1,234,567 XP"},
		"SchoolXP":     {s.SchoolXP, "999 B"},
		"PiscineGoXP":  {s.PiscineGoXP, "2 kB"},
		"PiscineJSXP":  {s.PiscineJSXP, "0 B"},
		"AuditGiven":   {s.AuditGiven, "1.20 MB"},
		"Done":         {s.Done, "1.20 MB"},
		"Bonus":        {s.Bonus, "1.50 kB"},
		"Received":     {s.Received, "2.55 MB"},
		"AuditRatio":   {s.AuditRatio, "0.5"},
	}
	for field, c := range checks {
		assert.Equal(t, c[1], c[0], field)
	}
}

func TestFullNameFallsBackToLogin(t *testing.T) {
	u := UserInfo{Login: "jdoe"}
	assert.Equal(t, "jdoe", u.FullName())
}

func TestProfileValidate(t *testing.T) {
	good := Profile{User: UserInfo{Login: "jdoe"}, Transactions: []Transaction{{Amount: 0}}}
	require.NoError(t, good.Validate())
	assert.ErrorIs(t, (Profile{}).Validate(), ErrEmptyLogin)
	bad := Profile{User: UserInfo{Login: "jdoe"}, Transactions: []Transaction{{Amount: -1}}}
	assert.ErrorIs(t, bad.Validate(), ErrNegativeAmount)
}

func TestNewSnapshot(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.FixedZone("EET", 3*3600))
	p := Profile{
		User:   UserInfo{ID: 7, Login: "jdoe", Campus: "gritlab", TotalUp: 900, TotalUpBonus: 100, TotalDown: 500},
		Totals: XPTotals{Total: 1500, School: 1000, PiscineGo: 400, PiscineJS: 100},
	}
	part := Partition{
		Projects:  []Transaction{{Amount: 1}, {Amount: 2}},
		Exercises: []Transaction{{Amount: 3}},
	}

	s := NewSnapshot(p, part, at)
	assert.Equal(t, "jdoe", s.Login)
	assert.EqualValues(t, 7, s.UserID)
	assert.EqualValues(t, 1500, s.TotalXP)
	assert.EqualValues(t, 100, s.PiscineJSXP)
	assert.Equal(t, 2, s.Projects)
	assert.Equal(t, 1, s.Exercises)
	assert.Equal(t, time.UTC, s.TakenAt.Location())
	assert.True(t, s.TakenAt.Equal(at), "TakenAt = %v", s.TakenAt)
	assert.Equal(t, "2.0", s.AuditRatio())
	assert.NoError(t, s.Validate())

	s.Login = ""
	assert.ErrorIs(t, s.Validate(), ErrEmptyLogin)
}
