// Package notify defines the outbound chat notification payload and the
// sink interface that posts it.
package notify

import (
	"context"
	"strings"

	"github.com/cory-johannsen/tabletop/internal/game/check"
)

// RollDetailsField is the name of the field carrying the roll breakdown.
const RollDetailsField = "Roll Details"

// Markers appended to a description for critical checks.
const (
	CriticalSuccessMarker = "Critical Success"
	CriticalFailureMarker = "Critical Failure"
)

// Field is one name/value pair rendered in the message body.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is a structured chat message.
type Message struct {
	// Author names the character the message is about. Empty omits it.
	Author      string
	Title       string
	Description string
	Color       int
	Fields      []Field
	// Footer is small trailing text, used for the roll id.
	Footer string
}

// Notifier posts messages to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Nop discards every message.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Message) error { return nil }

// WithRollDetails appends the "Roll Details" field carrying details.
func (m Message) WithRollDetails(details string) Message {
	m.Fields = append(append([]Field(nil), m.Fields...), Field{Name: RollDetailsField, Value: details, Inline: true})
	return m
}

// WithOutcome appends the check breakdown and, for a critical, the matching
// marker on its own line of the description.
func (m Message) WithOutcome(o check.Outcome) Message {
	m = m.WithRollDetails(o.Details())
	switch {
	case o.CriticalSuccess:
		m.Description = appendLine(m.Description, CriticalSuccessMarker)
	case o.CriticalFailure:
		m.Description = appendLine(m.Description, CriticalFailureMarker)
	}
	return m
}

func appendLine(s, line string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return line
	}
	return s + "\n" + line
}
