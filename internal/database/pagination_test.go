package database

import (
	"testing"
	"time"

	"blogswamp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 589793, time.UTC)
	id := "0195a3c1-9df1-7b44-a7c9-000000000001"

	encoded := encodeCursor(at, id)
	require.NotEmpty(t, encoded)

	decoded, err := decodeCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, at.UnixNano(), decoded.CreatedAt)
	assert.Equal(t, id, decoded.ID)
}

func TestDecodeCursorHead(t *testing.T) {
	decoded, err := decodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeCursorMalformed(t *testing.T) {
	for _, cursor := range []string{"%%%not-base64%%%", "bm90LWpzb24"} {
		_, err := decodeCursor(cursor)
		require.Error(t, err, "cursor %q", cursor)
		appErr, ok := err.(*utils.AppError)
		require.True(t, ok)
		assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
	}
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, clampPageSize(0))
	assert.Equal(t, DefaultPageSize, clampPageSize(-5))
	assert.Equal(t, 7, clampPageSize(7))
	assert.Equal(t, MaxPageSize, clampPageSize(MaxPageSize+1))
}

func TestCursorFilter(t *testing.T) {
	// Head of the feed: the base filter passes through untouched
	base := bson.M{"ownerId": "abc"}
	assert.Equal(t, base, cursorFilter(base, nil))

	// Resuming adds the strict-after clause
	pc := &pageCursor{CreatedAt: time.Now().UnixNano(), ID: "xyz"}
	filtered := cursorFilter(base, pc)
	clauses, ok := filtered["$and"].(bson.A)
	require.True(t, ok)
	assert.Len(t, clauses, 2)
	assert.Equal(t, base, clauses[0])

	// Without a base filter there is no $and wrapper
	open := cursorFilter(bson.M{}, pc)
	_, hasAnd := open["$and"]
	assert.False(t, hasAnd)
	_, hasOr := open["$or"]
	assert.True(t, hasOr)
}
