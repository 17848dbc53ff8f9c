package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	c := Cursor{
		TransactionDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		TransactionID:   "txn-42",
	}

	token := EncodeToken(c)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)

	// Current time round-trips through RFC3339Nano
	now := time.Now().UTC()
	decoded, err = DecodeToken(EncodeToken(Cursor{TransactionDate: now, CreatedAt: now, TransactionID: "x"}))
	require.NoError(t, err)
	assert.True(t, now.Equal(decoded.TransactionDate))
	assert.True(t, now.Equal(decoded.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45Z|t-1")))
	assert.ErrorContains(t, err, "transaction date parse")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T14:30:45Z|")))
	assert.ErrorContains(t, err, "missing id")
}

func TestCursor_After(t *testing.T) {
	d1 := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	c := Cursor{TransactionDate: d1, CreatedAt: d1, TransactionID: "m"}

	assert.True(t, c.After(d2, d1, "a"))
	assert.False(t, c.After(d1.Add(-time.Hour), d2, "z"))
	assert.True(t, c.After(d1, d1.Add(time.Second), "a"))
	assert.True(t, c.After(d1, d1, "n"))
	assert.False(t, c.After(d1, d1, "m"))
}
