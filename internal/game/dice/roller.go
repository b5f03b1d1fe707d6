package dice

import "sort"

// Draw is the raw outcome of the draw primitive.
//
// Invariant: for ModeNormal, Total == sum(Values); for the keep modes,
// len(Values) == 2 and Total is the kept value.
type Draw struct {
	Sides  int
	Mode   Mode
	Total  int
	Values []int
}

// DrawDice draws count dice of the given sides using src.
//
// In ModeKeepHighest and ModeKeepLowest exactly two dice are drawn regardless
// of count and both values are retained for display.
//
// Precondition: sides >= 1; count >= 0; src must be non-nil.
// Postcondition: every value is in [1, sides].
func DrawDice(src Source, sides, count int, mode Mode) Draw {
	switch mode {
	case ModeKeepHighest, ModeKeepLowest:
		a := src.Intn(sides) + 1
		b := src.Intn(sides) + 1
		kept := max(a, b)
		if mode == ModeKeepLowest {
			kept = min(a, b)
		}
		return Draw{Sides: sides, Mode: mode, Total: kept, Values: []int{a, b}}
	}

	values := make([]int, count)
	total := 0
	for i := range values {
		values[i] = src.Intn(sides) + 1
		total += values[i]
	}
	return Draw{Sides: sides, Mode: ModeNormal, Total: total, Values: values}
}

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr must come from Parse (Count >= 1, Sides >= 2); src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count when no keep suffix is set,
// otherwise len(result.Dice) equals the keep count and the remainder is in Dropped.
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) (RollResult, error) {
	rolled := DrawDice(src, expr.Sides, expr.Count, ModeNormal).Values

	kept, dropped := rolled, []int(nil)
	if keep := expr.KeepHighest + expr.KeepLowest; keep > 0 {
		sorted := make([]int, len(rolled))
		copy(sorted, rolled)
		if expr.KeepHighest > 0 {
			sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		} else {
			sort.Ints(sorted)
		}
		kept, dropped = sorted[:keep], sorted[keep:]
	}

	return RollResult{
		Expression: expr.Raw,
		Dice:       kept,
		Dropped:    dropped,
		Modifier:   expr.Modifier,
	}, nil
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: expr must be a valid dice expression string; src must be non-nil.
// Postcondition: Returns a RollResult or a parse/roll error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
