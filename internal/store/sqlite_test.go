package store

import (
	"context"
	"testing"

	"github.com/nivora/nivora/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	s, err := NewSQLiteStore(test_utils.NewSQLiteDB(t))
	require.NoError(t, err)

	exerciseStore(t, s)
}

func TestSQLiteStore_CorruptValueFallsBackToDefault(t *testing.T) {
	// given
	s, err := NewSQLiteStore(test_utils.NewSQLiteDB(t))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "nivora-goals", []byte("[{broken")))

	// when
	goals := GetOr(ctx, s, "nivora-goals", []string{"default"})

	// then
	assert.Equal(t, []string{"default"}, goals)
}
