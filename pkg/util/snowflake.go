package util

import (
	"fmt"
	"strconv"
)

// SnowflakeToUint64 parses a Discord snowflake id string.
func SnowflakeToUint64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", s, err)
	}
	return n, nil
}

// Uint64ToSnowflake formats a snowflake id as its decimal string form.
func Uint64ToSnowflake(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// IsSnowflake reports whether s looks like a Discord snowflake id: decimal
// digits only, within the length range Discord has ever issued.
func IsSnowflake(s string) bool {
	if len(s) < 15 || len(s) > 21 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
