package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)

	encoded := EncodeCursor("advisor-1", ts)
	require.NotEmpty(t, encoded)

	cursor, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "advisor-1", cursor.LastID)
	assert.True(t, cursor.Timestamp.Equal(ts))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestDecodeCursor_Empty(t *testing.T) {
	cursor, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, err := DecodeCursor("not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeCursor("bm8tc2VwYXJhdG9y") // "no-separator"
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestCreateNextCursor(t *testing.T) {
	type item struct {
		id string
		ts time.Time
	}
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	items := []item{{"a", ts}, {"b", ts.Add(time.Hour)}}

	cursor := CreateNextCursor(items, 2,
		func(i item) string { return i.id },
		func(i item) time.Time { return i.ts },
	)
	assert.Equal(t, EncodeCursor("b", ts.Add(time.Hour)), cursor)

	// Fewer items than limit means no next page.
	assert.Empty(t, CreateNextCursor(items, 3,
		func(i item) string { return i.id },
		func(i item) time.Time { return i.ts },
	))
}
