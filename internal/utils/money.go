package utils

import (
	"fmt"
	"math"
	"strconv"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatINR renders an amount with Indian digit grouping, e.g. Rs. 1,23,456.
// The ASCII prefix keeps the string renderable by PDF core fonts. Paise are
// shown only when the amount is not whole.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount)
	frac := amount - float64(whole)
	s := sign + "Rs. " + groupIndian(whole)
	if frac > 1e-9 {
		s += fmt.Sprintf(".%02d", int(math.Round(frac*100)))
	}
	return s
}

// groupIndian applies the 3-then-2 grouping used for rupee amounts.
func groupIndian(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}
	head := str[:len(str)-3]
	out := str[len(str)-3:]
	for len(head) > 2 {
		out = head[len(head)-2:] + "," + out
		head = head[:len(head)-2]
	}
	return head + "," + out
}
