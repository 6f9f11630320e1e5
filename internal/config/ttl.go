package config

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ttlPattern = regexp.MustCompile(`(?i)^(\d+)([smhd])?$`)

// ParseTTL parses durations like "30s", "15m", "12h", "7d". A bare number is
// seconds. Anything else, including zero, yields DefaultTokenTTL.
func ParseTTL(raw string) time.Duration {
	m := ttlPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return DefaultTokenTTL
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return DefaultTokenTTL
	}

	unit := time.Second
	switch strings.ToLower(m[2]) {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	if n > math.MaxInt64/int64(unit) {
		return DefaultTokenTTL
	}
	return time.Duration(n) * unit
}
