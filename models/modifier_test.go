package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifier_Display(t *testing.T) {
	m := &Modifier{Name: "No navy", Description: "Do not build ships.", Turns: 5}
	assert.Equal(t, "**No navy**: Do not build ships. *(lasts 5 turns in scramble games)*", m.Display())

	whole := &Modifier{Name: "Pacifist", Description: "No attacking."}
	assert.Contains(t, whole.Display(), "∞")
}

func TestPickModifiers(t *testing.T) {
	pool := []*Modifier{
		{Name: "a", Description: "x"},
		{Name: "b", Description: "y"},
		{Name: "c", Description: "z"},
	}

	picked := PickModifiers(pool, 2, nil)
	require.Len(t, picked, 2)
	assert.NotEqual(t, picked[0], picked[1])

	// Avoid list excludes current modifiers when re-rolling.
	avoid := []string{pool[0].Display(), pool[1].Display()}
	rerolled := PickModifiers(pool, 1, avoid)
	require.Len(t, rerolled, 1)
	assert.Equal(t, pool[2].Display(), rerolled[0])
}

func TestPickModifiers_Empty(t *testing.T) {
	assert.Nil(t, PickModifiers(nil, 1, nil))
	assert.Nil(t, PickModifiers([]*Modifier{{Name: "a"}}, 0, nil))
}

func TestTag_HasName(t *testing.T) {
	tag := &Tag{Names: []string{"rules", "Rulebook"}, Content: "Be nice."}
	assert.True(t, tag.HasName("rules"))
	assert.True(t, tag.HasName("RULEBOOK"))
	assert.False(t, tag.HasName("rule"))
	assert.Equal(t, "rules", tag.String())
}
