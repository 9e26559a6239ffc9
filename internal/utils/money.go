package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatKES renders minor units as "KES 1,234.50".
func FormatKES(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sKES %s.%02d", sign, formatThousand(cents/100), cents%100)
}

// FormatRate renders 0.16 as "16%".
func FormatRate(rate float64) string {
	pct := math.Round(rate*10000) / 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
