package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpdash/internal/core"
)

type fakeLister struct {
	login string
	limit int
}

func (f *fakeLister) ListSnapshots(_ context.Context, login string, limit int) ([]core.Snapshot, error) {
	f.login, f.limit = login, limit
	return nil, nil
}

func TestRunHistory_Args(t *testing.T) {
	f := &fakeLister{}
	require.NoError(t, runHistory(f, []string{"-limit", "5", "jdoe"}))
	assert.Equal(t, "jdoe", f.login)
	assert.Equal(t, 5, f.limit)

	assert.Error(t, runHistory(f, nil), "expected usage error without a login")
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snaps := []core.Snapshot{{
		Login:     "jdoe",
		TotalXP:   1_500_000,
		SchoolXP:  250_000,
		TotalUp:   1000,
		TotalDown: 500,
		Projects:  12,
		Exercises: 40,
		TakenAt:   now.Add(-2 * time.Hour),
	}}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, snaps, now))
	out := buf.String()
	for _, want := range []string{"TAKEN", "2 hours ago", "2.0", "12", "40"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	require.NoError(t, printHistory(&buf, nil, now))
	assert.Equal(t, "no snapshots", strings.TrimSpace(buf.String()))
}
