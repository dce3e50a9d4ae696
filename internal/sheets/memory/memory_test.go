package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpdash/internal/core"
)

func TestStore_Export(t *testing.T) {
	s := New()

	ref, err := s.Export(context.Background(), core.Snapshot{Login: "jdoe", TotalXP: 10})
	require.NoError(t, err)
	assert.Equal(t, "mem:1", ref)

	ref, _ = s.Export(context.Background(), core.Snapshot{Login: "jdoe", TotalXP: 20})
	assert.Equal(t, "mem:2", ref)

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, int64(20), rows[1][3])
}

func TestStore_ExportInvalid(t *testing.T) {
	s := New()
	_, err := s.Export(context.Background(), core.Snapshot{})
	require.Error(t, err, "expected validation error")
	assert.Empty(t, s.Rows(), "invalid snapshot must not be stored")
}
