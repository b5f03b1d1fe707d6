// Package dice provides the randomness abstraction, dice expressions, and
// roll-result types for the resolution engine.
package dice

import "fmt"

// Mode selects how a draw combines its dice.
type Mode int

const (
	// ModeNormal sums every die.
	ModeNormal Mode = iota
	// ModeKeepHighest draws two dice and keeps the larger (advantage).
	ModeKeepHighest
	// ModeKeepLowest draws two dice and keeps the smaller (disadvantage).
	ModeKeepLowest
)

// String returns a human-readable mode label.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeKeepHighest:
		return "keep-highest"
	case ModeKeepLowest:
		return "keep-lowest"
	default:
		return "unknown"
	}
}

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // kept die results before modifier
	Dropped    []int  // die results discarded by kh/kl; never counted
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all kept die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Dropped dice are shown in parentheses after the kept dice.
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	diceStr := fmt.Sprintf("%v", r.Dice)
	if len(r.Dropped) > 0 {
		diceStr += fmt.Sprintf(" (%v)", r.Dropped)
	}
	return fmt.Sprintf("%s → %s %+d = %d", r.Expression, diceStr, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
