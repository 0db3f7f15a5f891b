package utility

import (
	"fmt"
	"math"
	"strconv"
)

// CurrencyFormatter renders a currency amount for display.
type CurrencyFormatter interface {
	Format(amount int64) string
}

// LiteralFormat prints the exact integer.
type LiteralFormat struct{}

func (LiteralFormat) Format(amount int64) string {
	return strconv.FormatInt(amount, 10)
}

var suffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc"}

// AbbreviatedFormat shortens amounts of 1000 and up with K, M, B, ... suffixes,
// keeping one decimal when the scaled value is fractional.
type AbbreviatedFormat struct{}

func (AbbreviatedFormat) Format(amount int64) string {
	if amount < 1000 {
		return strconv.FormatInt(amount, 10)
	}
	v := float64(amount)
	i := 0
	for v >= 1000 && i < len(suffixes)-1 {
		v /= 1000
		i++
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d%s", int64(v), suffixes[i])
	}
	return fmt.Sprintf("%.1f%s", v, suffixes[i])
}

// FormatterFor returns the formatter named by policy ("abbreviated" or
// "literal"); anything else gets LiteralFormat.
func FormatterFor(policy string) CurrencyFormatter {
	if policy == "abbreviated" {
		return AbbreviatedFormat{}
	}
	return LiteralFormat{}
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds / 60)
	rest := int(math.Mod(seconds, 60))
	return fmt.Sprintf("%d:%02d", minutes, rest)
}

// FormatDuration renders a rough duration such as 42.0s, 3.5m, 1.2h or 2.0d.
func FormatDuration(seconds float64) string {
	if math.IsInf(seconds, 1) {
		return "∞"
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%.1fm", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%.1fh", hours)
	}
	return fmt.Sprintf("%.1fd", hours/24)
}

// TimeToAmount estimates the seconds needed to grow current to target at
// rate per second. A non-positive rate never gets there.
func TimeToAmount(current, target int64, rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	needed := target - current
	if needed <= 0 {
		return 0
	}
	return float64(needed) / rate
}
