// Package units parses human-readable size and bandwidth strings
// such as "4KiB" or "100MB/s" into byte counts.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// unitSuffixes maps the recognized size suffixes to their byte
// multipliers. binary units are powers of 1024, decimal units are
// powers of 1000
var unitSuffixes = map[string]int64{
	"":    1,
	"K":   1024,
	"KiB": 1024,
	"KB":  1000,
	"M":   1024 * 1024,
	"MiB": 1024 * 1024,
	"MB":  1000 * 1000,
	"G":   1024 * 1024 * 1024,
	"GiB": 1024 * 1024 * 1024,
	"GB":  1000 * 1000 * 1000,
}

// ParseSize converts a size string such as "4096", "4K" or "100MB"
// into a byte count. a missing suffix means raw bytes
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	// split the digits from the trailing unit suffix
	cut := len(s)
	for cut > 0 && !isDigit(s[cut-1]) {
		cut--
	}
	digits, suffix := s[:cut], s[cut:]

	unit, ok := unitSuffixes[suffix]
	if !ok {
		return 0, fmt.Errorf("invalid size %q: unknown suffix %q", s, suffix)
	}

	n, err := strconv.ParseUint(digits, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if unit > 1 && int64(n) > math.MaxInt64/unit {
		return 0, fmt.Errorf("invalid size %q: overflows", s)
	}

	return int64(n) * unit, nil
}

// ParseBandwidth converts a bandwidth string such as "100MB/s" into a
// bytes-per-second rate. the size part keeps its trailing B, so the
// unit table is the same one ParseSize uses
func ParseBandwidth(s string) (int64, error) {
	if len(s) < 4 || !strings.HasSuffix(s, "B/s") {
		return 0, fmt.Errorf("invalid bandwidth %q: must end in B/s", s)
	}

	n, err := ParseSize(strings.TrimSuffix(s, "/s"))
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth %q: %w", s, err)
	}

	return n, nil
}

// isDigit reports whether c is an ascii decimal digit
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
