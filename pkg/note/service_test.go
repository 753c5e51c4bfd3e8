package note

import (
	"context"
	"testing"
	"time"

	"github.com/nivora/nivora/internal/store"
	"github.com/nivora/nivora/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl(t *testing.T) {
	ctx := context.Background()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}

	t.Run("should list newest first", func(t *testing.T) {
		// given
		service := NewService(NewRepository(store.NewMemoryStore()), clock)
		_, err := service.Create(ctx, Note{Title: "first"})
		require.NoError(t, err)
		_, err = service.Create(ctx, Note{Title: "second"})
		require.NoError(t, err)

		// when
		notes, err := service.List(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "second", notes[0].Title)
	})

	t.Run("should reject empty note", func(t *testing.T) {
		service := NewService(NewRepository(store.NewMemoryStore()), clock)

		_, err := service.Create(ctx, Note{Title: "  "})

		assert.ErrorIs(t, err, ErrEmptyNote)
	})

	t.Run("should return not found for unknown note", func(t *testing.T) {
		service := NewService(NewRepository(store.NewMemoryStore()), clock)

		_, err := service.Update(ctx, Note{Id: "missing", Title: "x"})
		assert.ErrorIs(t, err, ErrNoteNotFound)

		err = service.Delete(ctx, "missing")
		assert.ErrorIs(t, err, ErrNoteNotFound)
	})
}
