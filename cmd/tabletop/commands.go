package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/table"
)

var errUsage = errors.New("usage")

const usage = `verbs:
  create <sheet.yaml>
  roll <expr>
  check [-adv adv|dis] [-bonus n] <skill|ability>
  save [-adv adv|dis] [-bonus n] <ability>
  initiative [character-id...]
  weapons
  attack [-adv adv|dis] [-bonus n] <weapon>
  damage [-crit] <weapon> <component>
  brew [-ingredient q] [-subject s] [-kit] [-adv adv|dis] <category>
  research [-subject s] [-adv adv|dis] <category>
  attempts <subject>
  corruption
  corrupt <n>
  redeem <n>
  macros
  macro <name> [int...]`

// run executes one verb against svc for key and writes the result to out.
func run(ctx context.Context, svc *table.Service, key character.Key, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no verb\n%s", errUsage, usage)
	}
	verb, args := args[0], args[1:]
	switch verb {
	case "create":
		return create(ctx, svc, key, args, out)
	case "roll":
		if len(args) != 1 {
			return fmt.Errorf("%w: roll <expr>", errUsage)
		}
		res, err := svc.Roll(ctx, key, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, res.Result.String())
	case "check", "save", "attack":
		return d20(ctx, svc, key, verb, args, out)
	case "initiative":
		return initiative(ctx, svc, key, args, out)
	case "weapons":
		for _, id := range svc.Weapons() {
			sels, err := svc.Components(id)
			if err != nil {
				return err
			}
			parts := make([]string, 0, len(sels))
			for _, s := range sels {
				parts = append(parts, fmt.Sprintf("%d:%s %s", s.Index, s.Component.Label(), s.Component.Expression()))
			}
			fmt.Fprintf(out, "%s\t%s\n", id, strings.Join(parts, ", "))
		}
	case "damage":
		return damage(ctx, svc, key, args, out)
	case "brew", "research":
		return craft(ctx, svc, key, verb, args, out)
	case "attempts":
		if len(args) != 1 {
			return fmt.Errorf("%w: attempts <subject>", errUsage)
		}
		rec, err := svc.Attempts(ctx, key, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: attempts %d/%d\n", args[0], rec.Filled(), attempt.Slots)
	case "macros":
		names, err := svc.Macros()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
	case "corruption":
		value, tr, err := svc.Corruption(ctx, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d %s (save DC %d)\n", value, tr.Name, tr.SaveDC)
	case "corrupt", "redeem":
		if len(args) != 1 {
			return fmt.Errorf("%w: %s <n>", errUsage, verb)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: amount %q: %w", errUsage, args[0], err)
		}
		op := svc.Corrupt
		if verb == "redeem" {
			op = svc.Redeem
		}
		res, err := op(ctx, key, n)
		if err != nil {
			return err
		}
		ch := res.Change
		fmt.Fprintf(out, "%d → %d %s\n", ch.Previous, ch.Current, ch.To.Name)
	case "macro":
		if len(args) == 0 {
			return fmt.Errorf("%w: macro <name> [int...]", errUsage)
		}
		ints, err := atois(args[1:])
		if err != nil {
			return err
		}
		res, err := svc.Macro(ctx, key, args[0], ints...)
		if err != nil {
			return err
		}
		for _, r := range res.Result.Rolls {
			fmt.Fprintln(out, r.String())
		}
		for _, o := range res.Result.Checks {
			fmt.Fprintln(out, o.Details()+critSuffix(o))
		}
		if res.Result.Value != "" {
			fmt.Fprintln(out, res.Result.Value)
		}
	default:
		return fmt.Errorf("%w: unknown verb %q\n%s", errUsage, verb, usage)
	}
	return nil
}

func create(ctx context.Context, svc *table.Service, key character.Key, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: create <sheet.yaml>", errUsage)
	}
	if key.UserID == "" {
		return fmt.Errorf("%w: create requires -user", errUsage)
	}
	s, err := loadSheet(args[0])
	if err != nil {
		return err
	}
	c, err := s.character(key.UserID)
	if err != nil {
		return err
	}
	created, err := svc.Create(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created character %d\n", created.ID)
	return nil
}

// rollFlags are the options shared by every d20 verb.
type rollFlags struct {
	adv   string
	bonus int
}

func newFlagSet(verb string, rf *rollFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(verb, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if rf != nil {
		fs.StringVar(&rf.adv, "adv", "", "adv or dis")
		fs.IntVar(&rf.bonus, "bonus", 0, "situational bonus")
	}
	return fs
}

func (rf rollFlags) parse() (check.Advantage, []int, error) {
	adv, err := check.ParseAdvantage(rf.adv)
	if err != nil {
		return check.Normal, nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	var situational []int
	if rf.bonus != 0 {
		situational = []int{rf.bonus}
	}
	return adv, situational, nil
}

func d20(ctx context.Context, svc *table.Service, key character.Key, verb string, args []string, out io.Writer) error {
	var rf rollFlags
	fs := newFlagSet(verb, &rf)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: %s [-adv adv|dis] [-bonus n] <target>", errUsage, verb)
	}
	adv, situational, err := rf.parse()
	if err != nil {
		return err
	}
	var res table.CheckResult
	switch verb {
	case "check":
		res, err = svc.Check(ctx, key, fs.Arg(0), adv, situational...)
	case "save":
		res, err = svc.Save(ctx, key, fs.Arg(0), adv, situational...)
	default:
		res, err = svc.Attack(ctx, key, fs.Arg(0), adv, situational...)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s%s\n", res.Outcome.Label, res.Outcome.Details(), critSuffix(res.Outcome))
	return nil
}

func initiative(ctx context.Context, svc *table.Service, key character.Key, args []string, out io.Writer) error {
	keys := []character.Key{key}
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: character id %q: %w", errUsage, a, err)
		}
		keys = append(keys, character.Key{CharacterID: id, UserID: key.UserID})
	}
	res, err := svc.Initiative(ctx, keys...)
	if err != nil {
		return err
	}
	for i, e := range res.Order {
		fmt.Fprintf(out, "%d. %s %s\n", i+1, e.Name, e.Outcome.Details())
	}
	return nil
}

func damage(ctx context.Context, svc *table.Service, key character.Key, args []string, out io.Writer) error {
	fs := newFlagSet("damage", nil)
	crit := fs.Bool("crit", false, "critical hit")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: damage [-crit] <weapon> <component>", errUsage)
	}
	index, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("%w: component %q: %w", errUsage, fs.Arg(1), err)
	}
	res, err := svc.Damage(ctx, key, fs.Arg(0), index, *crit)
	if err != nil {
		return err
	}
	line := res.Outcome.Component + ": " + res.Outcome.Details()
	if res.Outcome.Critical {
		line += " (critical)"
	}
	fmt.Fprintln(out, line)
	return nil
}

func craft(ctx context.Context, svc *table.Service, key character.Key, verb string, args []string, out io.Writer) error {
	var (
		rf  rollFlags
		req table.CraftRequest
	)
	fs := newFlagSet(verb, &rf)
	fs.StringVar(&req.Subject, "subject", "", "attempt record subject")
	if verb == "brew" {
		fs.StringVar(&req.Ingredient, "ingredient", "standard", "ingredient quality")
		fs.BoolVar(&req.Kit, "kit", false, "specialised kit on hand")
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: %s [flags] <category>", errUsage, verb)
	}
	adv, situational, err := rf.parse()
	if err != nil {
		return err
	}
	req.Category, req.Advantage, req.Situational = fs.Arg(0), adv, situational

	var res table.CraftResult
	if verb == "brew" {
		res, err = svc.Brew(ctx, key, req)
	} else {
		res, err = svc.Research(ctx, key, req)
	}
	if err != nil {
		return err
	}
	r := res.Result
	fmt.Fprintf(out, "%s %s (DC %d): %s%s\n", r.Ladder, r.Category, r.DC, res.Outcome.Details(), critSuffix(res.Outcome))
	quality := r.Tier.Tier.Name
	if r.Tier.Capped {
		quality += " (limited by training)"
	}
	fmt.Fprintf(out, "quality %s, attempts %d/%d\n", quality, res.Record.Filled(), attempt.Slots)
	return nil
}

func critSuffix(o check.Outcome) string {
	switch {
	case o.CriticalSuccess:
		return " critical success"
	case o.CriticalFailure:
		return " critical failure"
	default:
		return ""
	}
}

func atois(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", errUsage, a)
		}
		out[i] = n
	}
	return out, nil
}
