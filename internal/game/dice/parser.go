package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
	KeepLowest  int    // if > 0, keep only the N lowest dice (e.g. 2d20kl1)
}

// Upper bounds on a parsed expression. User text reaches Parse directly, so
// the die count bounds the allocation a single roll may make.
const (
	MaxDice  = 100
	MaxSides = 1000
)

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "4d6kh3", "2d20kl1+5".
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a non-nil Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}

	// Count defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 || count > MaxDice {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be in [1, %d]", raw, MaxDice)
		}
	}

	rest, modStr := splitModifier(s[dIdx+1:])

	keepHighest, keepLowest := 0, 0
	for _, suffix := range []string{"kh", "kl"} {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			continue
		}
		keep, err := strconv.Atoi(rest[idx+2:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid %s value in %q: %w", suffix, raw, err)
		}
		if keep <= 0 || keep >= count {
			return Expression{}, fmt.Errorf("dice: %s value %d must be > 0 and < count %d in %q", suffix, keep, count, raw)
		}
		if suffix == "kh" {
			keepHighest = keep
		} else {
			keepLowest = keep
		}
		rest = rest[:idx]
	}
	if keepHighest > 0 && keepLowest > 0 {
		return Expression{}, fmt.Errorf("dice: kh and kl are mutually exclusive in %q", raw)
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 || sides > MaxSides {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be in [2, %d]", raw, MaxSides)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{
		Raw:         raw,
		Count:       count,
		Sides:       sides,
		Modifier:    modifier,
		KeepHighest: keepHighest,
		KeepLowest:  keepLowest,
	}, nil
}

// splitModifier separates "6kh3+2" into ("6kh3", "+2"). A sign at position 0
// belongs to the die part and is left for strconv to reject.
func splitModifier(s string) (string, string) {
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// Format renders count, sides and modifier in canonical "NdS+M" form.
// A zero modifier is omitted.
func Format(count, sides, modifier int) string {
	if modifier == 0 {
		return fmt.Sprintf("%dd%d", count, sides)
	}
	return fmt.Sprintf("%dd%d%+d", count, sides, modifier)
}
