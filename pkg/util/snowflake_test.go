package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeRoundTrip(t *testing.T) {
	n, err := SnowflakeToUint64("123456789012345678")
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789012345678), n)
	assert.Equal(t, "123456789012345678", Uint64ToSnowflake(n))
}

func TestSnowflakeParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "abc", "12x4", "-5"} {
		_, err := SnowflakeToUint64(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestIsSnowflake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "typical id", in: "123456789012345678", want: true},
		{name: "short id", in: "123456789012345", want: true},
		{name: "too short", in: "12345", want: false},
		{name: "too long", in: "1234567890123456789012", want: false},
		{name: "letters", in: "12345678901234567a", want: false},
		{name: "empty", in: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSnowflake(tt.in))
		})
	}
}
