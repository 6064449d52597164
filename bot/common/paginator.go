package common

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	pagePrevID = "page_prev"
	pageNextID = "page_next"
)

// Paginator tracks multi-page embed messages by message ID and flips
// pages in response to button presses. Sessions expire after the TTL and
// are dropped by the sweep loop; expired messages keep their last page
// with the buttons disabled.
type Paginator struct {
	mu       sync.Mutex
	sessions map[string]*pageSession
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type pageSession struct {
	pages   []*discordgo.MessageEmbed
	index   int
	expires time.Time
}

// NewPaginator creates a paginator whose sessions expire after ttl
func NewPaginator(ttl time.Duration) *Paginator {
	return &Paginator{
		sessions: make(map[string]*pageSession),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
}

// Components returns the page-flip button row
func (p *Paginator) Components(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: pagePrevID,
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: pageNextID,
					Disabled: disabled,
				},
			},
		},
	}
}

// Track starts a session for a sent message. Pages get a "Page x/y"
// footer; single-page messages are not tracked.
func (p *Paginator) Track(messageID string, pages []*discordgo.MessageEmbed) {
	if len(pages) < 2 {
		return
	}
	for i, page := range pages {
		page.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", i+1, len(pages)),
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[messageID] = &pageSession{
		pages:   pages,
		expires: time.Now().Add(p.ttl),
	}
}

// HandleInteraction flips the page if the interaction is a tracked
// page button press. Returns false for unrelated interactions.
func (p *Paginator) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Type != discordgo.InteractionMessageComponent {
		return false
	}

	var delta int
	switch i.MessageComponentData().CustomID {
	case pagePrevID:
		delta = -1
	case pageNextID:
		delta = 1
	default:
		return false
	}

	page, ok := p.turn(i.Message.ID, delta)
	if !ok {
		// Session expired; acknowledge so the button doesn't error.
		_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		return true
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{page},
			Components: p.Components(false),
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to flip page")
	}
	return true
}

// turn moves a session's index by delta, wrapping around, and renews the
// session's expiry.
func (p *Paginator) turn(messageID string, delta int) (*discordgo.MessageEmbed, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[messageID]
	if !ok {
		return nil, false
	}

	count := len(session.pages)
	session.index = (session.index + delta + count) % count
	session.expires = time.Now().Add(p.ttl)
	return session.pages[session.index], true
}

// StartSweep drops expired sessions on a ticker until Stop is called
func (p *Paginator) StartSweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case now := <-ticker.C:
			p.sweep(now)
		}
	}
}

// Stop terminates the sweep loop
func (p *Paginator) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

func (p *Paginator) sweep(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, session := range p.sessions {
		if now.After(session.expires) {
			delete(p.sessions, id)
		}
	}
}
