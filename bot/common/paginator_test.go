package common

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPages(titles ...string) []*discordgo.MessageEmbed {
	pages := make([]*discordgo.MessageEmbed, len(titles))
	for i, title := range titles {
		pages[i] = &discordgo.MessageEmbed{Title: title}
	}
	return pages
}

func TestPaginator_Turn(t *testing.T) {
	p := NewPaginator(time.Minute)
	p.Track("msg1", testPages("a", "b", "c"))

	page, ok := p.turn("msg1", 1)
	require.True(t, ok)
	assert.Equal(t, "b", page.Title)

	page, _ = p.turn("msg1", 1)
	assert.Equal(t, "c", page.Title)

	// Wraps in both directions.
	page, _ = p.turn("msg1", 1)
	assert.Equal(t, "a", page.Title)
	page, _ = p.turn("msg1", -1)
	assert.Equal(t, "c", page.Title)
}

func TestPaginator_SinglePageNotTracked(t *testing.T) {
	p := NewPaginator(time.Minute)
	p.Track("msg1", testPages("only"))

	_, ok := p.turn("msg1", 1)
	assert.False(t, ok)
}

func TestPaginator_Footers(t *testing.T) {
	p := NewPaginator(time.Minute)
	pages := testPages("a", "b")
	p.Track("msg1", pages)

	require.NotNil(t, pages[0].Footer)
	assert.Equal(t, "Page 1/2", pages[0].Footer.Text)
	assert.Equal(t, "Page 2/2", pages[1].Footer.Text)
}

func TestPaginator_Sweep(t *testing.T) {
	p := NewPaginator(time.Minute)
	p.Track("msg1", testPages("a", "b"))

	// Not yet expired.
	p.sweep(time.Now())
	_, ok := p.turn("msg1", 1)
	assert.True(t, ok)

	// The turn renewed the expiry; sweep well past it.
	p.sweep(time.Now().Add(2 * time.Minute))
	_, ok = p.turn("msg1", 1)
	assert.False(t, ok)
}

func TestPaginator_Components(t *testing.T) {
	p := NewPaginator(time.Minute)

	rows := p.Components(true)
	require.Len(t, rows, 1)
	row := rows[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	assert.True(t, row.Components[0].(discordgo.Button).Disabled)
}
