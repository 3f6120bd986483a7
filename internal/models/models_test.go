package models

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseModel_BeforeCreate(t *testing.T) {
	t.Run("generates ULID when empty", func(t *testing.T) {
		var b BaseModel
		require.NoError(t, b.BeforeCreate(nil))
		_, err := ulid.ParseStrict(b.ID)
		assert.NoError(t, err)
	})

	t.Run("keeps existing id", func(t *testing.T) {
		b := BaseModel{ID: "fixed"}
		require.NoError(t, b.BeforeCreate(nil))
		assert.Equal(t, "fixed", b.ID)
	})
}
