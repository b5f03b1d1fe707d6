package dice

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Standard die sizes accepted from configuration and user input.
const (
	D4  = 4
	D6  = 6
	D8  = 8
	D10 = 10
	D12 = 12
	D20 = 20
)

var standardSides = []int{D4, D6, D8, D10, D12, D20}

// IsStandard reports whether sides is one of the fixed die sizes.
func IsStandard(sides int) bool {
	return slices.Contains(standardSides, sides)
}

// Sanitize maps a free-text die size such as "d8", "D12", or " 6 " onto one
// of the standard die sizes.
//
// Postcondition: Returns a standard size or a non-nil error.
func Sanitize(text string) (int, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(text)), "d")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("dice: invalid die size %q: %w", text, err)
	}
	if !IsStandard(n) {
		return 0, fmt.Errorf("dice: unsupported die size %q: must be one of %v", text, standardSides)
	}
	return n, nil
}
