package notify_test

import (
	"testing"

	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithOutcome_Plain(t *testing.T) {
	msg := notify.Message{Title: "Stealth", Description: "Kara rolls Stealth"}.
		WithOutcome(check.Outcome{Primary: 15, Modifier: 5, Total: 20})
	require.Len(t, msg.Fields, 1)
	assert.Equal(t, notify.Field{Name: "Roll Details", Value: "15+5=20", Inline: true}, msg.Fields[0])
	assert.Equal(t, "Kara rolls Stealth", msg.Description)
}

func TestWithOutcome_Criticals(t *testing.T) {
	msg := notify.Message{Description: "attack"}.
		WithOutcome(check.Outcome{Primary: 20, Modifier: 3, Total: 23, CriticalSuccess: true})
	assert.Equal(t, "attack\nCritical Success", msg.Description)

	msg = notify.Message{}.WithOutcome(check.Outcome{Primary: 1, Modifier: -1, Total: 0, CriticalFailure: true})
	assert.Equal(t, "Critical Failure", msg.Description)
	assert.Equal(t, "1-1=0", msg.Fields[0].Value)
}

func TestWithRollDetails_DoesNotAlias(t *testing.T) {
	base := notify.Message{Fields: make([]notify.Field, 0, 4)}
	a := base.WithRollDetails("2d6+3 → [4 5] +3 = 12")
	b := base.WithRollDetails("1d8 → [8] = 8")
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", a.Fields[0].Value)
	assert.Equal(t, "1d8 → [8] = 8", b.Fields[0].Value)
}
