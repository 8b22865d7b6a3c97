package validation

import "errors"

// Identifier checksum errors.
var (
	ErrCPFLength   = errors.New("CPF must have 11 digits")
	ErrInvalidCPF  = errors.New("invalid CPF")
	ErrCNPJLength  = errors.New("CNPJ must have 14 digits")
	ErrInvalidCNPJ = errors.New("invalid CNPJ")
)

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// CheckCPF validates an 11-digit CPF. Non-digit characters are ignored.
func CheckCPF(value string) error {
	digits := onlyDigits(value)
	if len(digits) != 11 {
		return ErrCPFLength
	}
	if allSame(digits) {
		return ErrInvalidCPF
	}

	if checkDigit(digits[:9], descending(10, 9)) != digits[9] {
		return ErrInvalidCPF
	}
	if checkDigit(digits[:10], descending(11, 10)) != digits[10] {
		return ErrInvalidCPF
	}
	return nil
}

// CheckCNPJ validates a 14-digit CNPJ. Non-digit characters are ignored.
func CheckCNPJ(value string) error {
	digits := onlyDigits(value)
	if len(digits) != 14 {
		return ErrCNPJLength
	}
	if allSame(digits) {
		return ErrInvalidCNPJ
	}

	if checkDigit(digits[:12], cnpjFirstWeights) != digits[12] {
		return ErrInvalidCNPJ
	}
	if checkDigit(digits[:13], cnpjSecondWeights) != digits[13] {
		return ErrInvalidCNPJ
	}
	return nil
}

// checkDigit computes a modulo-11 check digit.
func checkDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

// descending returns n weights counting down from start.
func descending(start, n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = start - i
	}
	return w
}

func onlyDigits(s string) []int {
	digits := make([]int, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	return digits
}

func allSame(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}
