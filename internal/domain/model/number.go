package model

// number.go holds best-effort number parsing for spreadsheet cells and
// hand-edited record values:
//   - currency symbols and percent signs ("1 500 €", "10%")
//   - thousands separators ("1,500" and "1 500")
//   - decimal commas ("7,5")
//   - accounting negatives ("(250)")

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates the cleaned-up text before parsing.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// thousandsRegex matches comma-grouped integers such as "1,500,000".
var thousandsRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

var numberNoise = strings.NewReplacer(
	"$", "",
	"\u20ac", "", // Euro
	"\u00a3", "", // Pound
	"%", "",
	" ", "",
	"\u00a0", "", // no-break space
	"\u202f", "", // narrow no-break space
)

// ParseNumber parses s as a decimal number. ok is false when s is not a number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = numberNoise.Replace(s)

	switch {
	case thousandsRegex.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1 && !strings.Contains(s, "."):
		s = strings.Replace(s, ",", ".", 1)
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// ParseInt parses s as a number and truncates it toward zero.
func ParseInt(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
