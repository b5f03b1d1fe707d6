package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/corruption"
	"github.com/cory-johannsen/tabletop/internal/game/crafting"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/notify"
	"github.com/cory-johannsen/tabletop/internal/scripting"
)

// Message colors.
const (
	ColorRoll    = 0x3498db
	ColorSuccess = 0x2ecc71
	ColorFailure = 0xe74c3c
	ColorDamage  = 0xe67e22
)

func outcomeColor(o check.Outcome) int {
	switch {
	case o.CriticalSuccess:
		return ColorSuccess
	case o.CriticalFailure:
		return ColorFailure
	default:
		return ColorRoll
	}
}

func withAdvantage(desc string, adv check.Advantage) string {
	if adv == check.Normal {
		return desc
	}
	return desc + " with " + adv.String()
}

func expressionMessage(c *character.Character, r dice.RollResult) notify.Message {
	return notify.Message{
		Author:      c.Name,
		Title:       "Roll " + r.Expression,
		Description: fmt.Sprintf("%s rolls %s", c.Name, r.Expression),
		Color:       ColorRoll,
	}.WithRollDetails(r.String())
}

func checkMessage(c *character.Character, o check.Outcome) notify.Message {
	return notify.Message{
		Author:      c.Name,
		Title:       o.Label,
		Description: withAdvantage(fmt.Sprintf("%s rolls %s", c.Name, o.Label), o.Advantage),
		Color:       outcomeColor(o),
	}.WithOutcome(o)
}

func attackMessage(c *character.Character, w *combat.Weapon, o check.Outcome) notify.Message {
	return notify.Message{
		Author:      c.Name,
		Title:       "Attack: " + w.Name,
		Description: withAdvantage(fmt.Sprintf("%s attacks with %s", c.Name, w.Name), o.Advantage),
		Color:       outcomeColor(o),
	}.WithOutcome(o)
}

func damageMessage(c *character.Character, w *combat.Weapon, d combat.DamageOutcome) notify.Message {
	desc := fmt.Sprintf("%s deals %d %s damage with %s", c.Name, d.Total, damageType(d), w.Name)
	if d.Critical {
		desc += "\nCritical Hit"
	}
	return notify.Message{
		Author:      c.Name,
		Title:       "Damage: " + d.Component,
		Description: desc,
		Color:       ColorDamage,
	}.WithRollDetails(d.Details())
}

func damageType(d combat.DamageOutcome) string {
	if d.Type == "" {
		return "untyped"
	}
	return d.Type
}

func craftMessage(c *character.Character, title string, r crafting.Result, o check.Outcome) notify.Message {
	color := ColorFailure
	if r.Succeeded || o.CriticalSuccess {
		color = ColorSuccess
	}
	msg := notify.Message{
		Author:      c.Name,
		Title:       title,
		Description: fmt.Sprintf("%s attempts %s (%s)", c.Name, strings.ReplaceAll(r.Category, "_", " "), r.Ladder),
		Color:       color,
	}.WithOutcome(o)
	msg.Fields = append(msg.Fields,
		notify.Field{Name: "DC", Value: strconv.Itoa(r.DC), Inline: true},
		notify.Field{Name: "Quality", Value: r.Tier.Tier.Name, Inline: true},
	)
	if r.Tier.Capped {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Limited By Training", Value: r.Tier.Earned.Name + " → " + r.Ceiling.Name})
	}
	return msg
}

func corruptionMessage(c *character.Character, ch corruption.Change) notify.Message {
	verb := "gains"
	if ch.Delta < 0 {
		verb = "redeems"
	}
	desc := fmt.Sprintf("%s %s %d corruption", c.Name, verb, abs(ch.Delta))
	if ch.TierChanged() {
		desc += fmt.Sprintf("\n%s → %s", ch.From.Name, ch.To.Name)
	}
	msg := notify.Message{
		Author:      c.Name,
		Title:       "Corruption",
		Description: desc,
		Color:       ch.To.Color,
		Fields: []notify.Field{
			{Name: "Corruption", Value: strconv.Itoa(ch.Current), Inline: true},
			{Name: "Tier", Value: ch.To.Name, Inline: true},
			{Name: "Save DC", Value: strconv.Itoa(ch.To.SaveDC), Inline: true},
		},
	}
	if ch.To.Boon != "" {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Boon", Value: ch.To.Boon})
	}
	if ch.To.Effect != "" {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Effect", Value: ch.To.Effect})
	}
	return msg
}

func macroMessage(c *character.Character, r scripting.Result) notify.Message {
	msg := notify.Message{
		Author:      c.Name,
		Title:       "Macro: " + r.Macro,
		Description: fmt.Sprintf("%s runs %s", c.Name, r.Macro),
		Color:       ColorRoll,
	}
	var parts []string
	for _, roll := range r.Rolls {
		parts = append(parts, roll.String())
	}
	for _, o := range r.Checks {
		parts = append(parts, o.Details())
		switch {
		case o.CriticalSuccess:
			msg.Description += "\n" + notify.CriticalSuccessMarker
		case o.CriticalFailure:
			msg.Description += "\n" + notify.CriticalFailureMarker
		}
	}
	if len(parts) > 0 {
		msg = msg.WithRollDetails(strings.Join(parts, "\n"))
	}
	if r.Value != "" {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Result", Value: r.Value, Inline: true})
	}
	return msg
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
