// Package cnpj validates and formats Brazilian company tax identifiers (CNPJ).
package cnpj

import (
	"regexp"
	"strings"
)

// Length is the number of digits in a CNPJ.
const Length = 14

var (
	nonDigits = regexp.MustCompile(`\D`)

	firstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Normalize strips every non-digit character from s.
func Normalize(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// IsValid reports whether s is a well-formed CNPJ whose two check digits match.
// Punctuation is ignored; any other input returns false.
func IsValid(s string) bool {
	digits := Normalize(s)
	if len(digits) != Length {
		return false
	}
	if strings.Count(digits, digits[:1]) == Length {
		return false
	}

	d := make([]int, Length)
	for i := 0; i < Length; i++ {
		d[i] = int(digits[i] - '0')
	}

	return checkDigit(d[:12], firstWeights) == d[12] &&
		checkDigit(d[:13], secondWeights) == d[13]
}

// checkDigit computes a CNPJ verifier digit over digits using weights.
func checkDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// Format renders s as NN.NNN.NNN/NNNN-NN.
// Input that does not normalize to 14 digits is returned unchanged.
// Format does not check the verifier digits.
func Format(s string) string {
	d := Normalize(s)
	if len(d) != Length {
		return s
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}
