package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendTurn_BoundsWindow(t *testing.T) {
	var c Context

	for _, msg := range []string{"a", "b", "c", "d"} {
		c.AppendTurn(Turn{Message: msg}, 3)
	}

	assert.Equal(t, 4, c.TurnCount)
	assert.Len(t, c.Turns, 3)
	assert.Equal(t, "b", c.Turns[0].Message)
	assert.Equal(t, "d", c.Turns[2].Message)
}

func TestClone_DoesNotShareTurns(t *testing.T) {
	c := Context{Turns: []Turn{{Message: "a"}}}

	cpy := c.Clone()
	cpy.Turns[0].Message = "changed"

	assert.Equal(t, "a", c.Turns[0].Message)
}
