package tier

// Options carries the natural-face overrides and the optional ceiling.
type Options struct {
	// NaturalMax is true when the primary die showed its highest face.
	NaturalMax bool
	// NaturalMin is true when the primary die showed its lowest face.
	NaturalMin bool
	// Ceiling caps the result; nil means uncapped.
	Ceiling *Tier
}

// Outcome is the result of a tier resolution.
type Outcome struct {
	Tier Tier
	// Earned is the tier the total alone reached, before overrides and the cap.
	Earned Tier
	// Capped is true when the ceiling lowered the result.
	Capped bool
	// Natural records which natural-face override applied, if any.
	Natural Natural
}

// Natural identifies a natural-face override.
type Natural int

const (
	NoNatural Natural = iota
	NaturalMaxOverride
	NaturalMinOverride
)

// Resolve selects the tier for total.
//
//   - NaturalMin yields the worst tier unconditionally.
//   - NaturalMax yields the ceiling if one is set, else the best tier.
//   - Otherwise the first tier whose threshold <= total is chosen and then
//     lowered to the ceiling if it ranks above it.
func Resolve(total int, table *Table, opts Options) Outcome {
	earned := table.For(total)
	switch {
	case opts.NaturalMin:
		return Outcome{Tier: table.Worst(), Earned: earned, Natural: NaturalMinOverride}
	case opts.NaturalMax:
		best := table.Best()
		if opts.Ceiling != nil {
			best = *opts.Ceiling
		}
		return Outcome{Tier: best, Earned: earned, Natural: NaturalMaxOverride, Capped: opts.Ceiling != nil && opts.Ceiling.Rank < table.Best().Rank}
	}

	out := Outcome{Tier: earned, Earned: earned}
	if opts.Ceiling != nil && earned.Rank > opts.Ceiling.Rank {
		out.Tier = *opts.Ceiling
		out.Capped = true
	}
	return out
}
