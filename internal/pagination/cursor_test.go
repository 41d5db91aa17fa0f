package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{
		Sort:  "created_at",
		Order: "desc",
		Value: "2026-08-27T10:15:30.123456Z",
		ID:    "33333333-3333-3333-3333-333333333333",
	}

	token := Encode(in)
	require.NotEmpty(t, token)

	out, err := Decode(token, "created_at", "desc")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRejectsBadTokens(t *testing.T) {
	valid := Encode(Cursor{
		Sort:  "created_at",
		Order: "desc",
		Value: "2026-08-27T10:15:30Z",
		ID:    "33333333-3333-3333-3333-333333333333",
	})

	tests := []struct {
		name  string
		token string
		sort  string
		order string
	}{
		{"not base64", "!!!not-base64!!!", "created_at", "desc"},
		{"not json", "bm90LWpzb24", "created_at", "desc"},
		{"sort mismatch", valid, "overall", "desc"},
		{"order mismatch", valid, "created_at", "asc"},
		{"missing id", Encode(Cursor{Sort: "created_at", Order: "desc", Value: "x"}), "created_at", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token, tt.sort, tt.order)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{20, 20},
		{100, 100},
		{101, MaxLimit},
		{5000, MaxLimit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in))
	}
}
