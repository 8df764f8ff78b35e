package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	dateStrip    = regexp.MustCompile(`[^0-9/.\-]`)
	dateSep      = regexp.MustCompile(`[/.\-]`)
	amountStrip  = regexp.MustCompile(`[^0-9,.\-]`)
	spanishStrip = regexp.MustCompile(`[^0-9.\-]`)
)

// NormalizeDate converts locale-formatted dates to ISO YYYY-MM-DD. It strips
// everything but digits and date separators, then tries DD sep MM sep YYYY
// (trailing 4-digit group) and YYYY sep MM sep DD (leading 4-digit group).
// Anything else is returned unchanged; callers must tolerate pass-through
// values.
func NormalizeDate(raw string) string {
	cleaned := dateStrip.ReplaceAllString(raw, "")
	parts := dateSep.Split(cleaned, -1)
	if len(parts) != 3 {
		return raw
	}
	for _, p := range parts {
		if p == "" {
			return raw
		}
	}

	switch {
	case len(parts[2]) == 4:
		return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
	case len(parts[0]) == 4:
		return fmt.Sprintf("%s-%s-%s", parts[0], pad2(parts[1]), pad2(parts[2]))
	}
	return raw
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// CleanAmountString strips everything but digits, comma, period and minus.
// The Iberia pipeline stores this cleaned string verbatim so exported
// amounts keep the statement's comma notation.
func CleanAmountString(raw string) string {
	return amountStrip.ReplaceAllString(raw, "")
}

// CleanAmount is the generic strip-and-replace numeric normalizer: clean the
// string, turn the decimal comma into a point and parse. Unparseable input
// yields zero, never an error.
//
// This is NOT the Spanish-notation parser below; the two coexist on purpose
// because they feed different pipelines with different input guarantees.
func CleanAmount(raw string) decimal.Decimal {
	s := strings.ReplaceAll(CleanAmountString(raw), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseSpanishAmount parses full Spanish notation: "." as thousands
// separator, "," as decimal point ("1.234,56" → 1234.56). Unparseable input
// yields zero.
func ParseSpanishAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = spanishStrip.ReplaceAllString(s, "")
	if s == "" || s == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders a decimal with two places and a comma separator,
// matching the notation the dashboard displays and re-exports.
func FormatAmount(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}
