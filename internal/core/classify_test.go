package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(name string, typ ObjectType, amount int64, day int) Transaction {
	return Transaction{
		Amount:    amount,
		Path:      "/gritlab/school-curriculum/" + name,
		CreatedAt: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Object:    Object{Type: typ, Name: name},
	}
}

func TestClassify_Empty(t *testing.T) {
	p := Classify(nil)
	assert.Empty(t, p.Projects)
	assert.Empty(t, p.Exercises)

	p = Classify([]Transaction{})
	assert.Empty(t, p.Projects)
	assert.Empty(t, p.Exercises)
}

func TestClassify_StablePartition(t *testing.T) {
	in := []Transaction{
		tx("go-reloaded", ObjectProject, 9000, 1),
		tx("printalphabet", ObjectExercise, 500, 2),
		tx("piscine-go", ObjectPiscine, 100, 3),
		tx("ascii-art", ObjectProject, 0, 4),
		tx("isprime", ObjectExercise, 700, 5),
		tx("mystery", ObjectType("module"), 10, 6),
		tx("net-cat", ObjectProject, 24000, 7),
	}

	p := Classify(in)
	require.Len(t, p.Projects, 3)
	require.Len(t, p.Exercises, 2)

	assert.Equal(t, []string{"go-reloaded", "ascii-art", "net-cat"}, names(p.Projects))
	assert.Equal(t, []string{"printalphabet", "isprime"}, names(p.Exercises))

	// zero-amount records are kept
	assert.Equal(t, int64(0), p.Projects[1].Amount)
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	in := []Transaction{
		tx("a", ObjectExercise, 1, 1),
		tx("b", ObjectProject, 2, 2),
	}
	before := append([]Transaction(nil), in...)
	_ = Classify(in)
	assert.Equal(t, before, in)
}

func names(ts []Transaction) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Object.Name)
	}
	return out
}
