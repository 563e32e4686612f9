package common

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MenuExpiredMessage replaces a paged menu once its timer fires
const MenuExpiredMessage = "This menu has expired due to inactivity."

// maxMenuLifetime keeps expiry edits inside the 15 minute lifetime of the
// interaction token they are made with
const maxMenuLifetime = 14 * time.Minute

// Menu is a paged message controlled with ⬅ ❌ ➡ buttons
type Menu struct {
	id      string
	ownerID string
	pages   []string
	page    int
	timeout time.Duration
	// deadline is when the menu expires regardless of activity
	deadline time.Time
	timer    *time.Timer
	closed   bool
}

// untilExpiry is the idle timeout, cut short by the hard deadline
func (m *Menu) untilExpiry(now time.Time) time.Duration {
	d := m.timeout
	if left := m.deadline.Sub(now); left < d {
		d = left
	}
	return max(d, 0)
}

// capLifetime bounds a timeout to what the interaction token allows
func capLifetime(timeout time.Duration) time.Duration {
	return min(timeout, maxMenuLifetime)
}

// Page returns the current page text
func (m *Menu) Page() string {
	return m.pages[m.page]
}

// Move advances by delta pages, wrapping around
func (m *Menu) Move(delta int) {
	n := len(m.pages)
	m.page = ((m.page+delta)%n + n) % n
}

// Components returns the navigation buttons
func (m *Menu) Components() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Emoji: &discordgo.ComponentEmoji{Name: "⬅"}, Style: discordgo.SecondaryButton, CustomID: MenuPrefix + m.id + "_prev"},
			discordgo.Button{Emoji: &discordgo.ComponentEmoji{Name: "❌"}, Style: discordgo.SecondaryButton, CustomID: MenuPrefix + m.id + "_close"},
			discordgo.Button{Emoji: &discordgo.ComponentEmoji{Name: "➡"}, Style: discordgo.SecondaryButton, CustomID: MenuPrefix + m.id + "_next"},
		}},
	}
}

// Confirmation is a pending ✅/❌ question
type Confirmation struct {
	id       string
	ownerID  string
	timer    *time.Timer
	onAnswer func(s *discordgo.Session, i *discordgo.InteractionCreate, yes bool)
}

// Components returns the answer buttons
func (c *Confirmation) Components() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Emoji: &discordgo.ComponentEmoji{Name: "✅"}, Style: discordgo.SuccessButton, CustomID: ConfirmPrefix + c.id + "_yes"},
			discordgo.Button{Emoji: &discordgo.ComponentEmoji{Name: "❌"}, Style: discordgo.DangerButton, CustomID: ConfirmPrefix + c.id + "_no"},
		}},
	}
}

// Interactive tracks open menus and confirmations. Expiry timers edit the
// original interaction response, so pending state lives only as long as the
// interaction token.
type Interactive struct {
	mu            sync.Mutex
	menus         map[string]*Menu
	confirmations map[string]*Confirmation
}

// NewInteractive creates an empty tracker
func NewInteractive() *Interactive {
	return &Interactive{
		menus:         make(map[string]*Menu),
		confirmations: make(map[string]*Confirmation),
	}
}

// SendMenu answers the interaction with a paged menu. A single page is
// sent without buttons.
func (m *Interactive) SendMenu(s *discordgo.Session, i *discordgo.InteractionCreate, pages []string, timeout time.Duration, deferred bool) error {
	if len(pages) == 0 {
		return fmt.Errorf("menu needs at least one page")
	}

	menu := &Menu{
		id:       uuid.NewString(),
		pages:    pages,
		timeout:  timeout,
		deadline: time.Now().Add(maxMenuLifetime),
	}
	if user := InteractionUser(i); user != nil {
		menu.ownerID = user.ID
	}

	var components []discordgo.MessageComponent
	if len(pages) > 1 {
		components = menu.Components()
	}

	var err error
	if deferred {
		err = EditResponse(s, i, menu.Page(), components)
	} else {
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:         menu.Page(),
				Components:      components,
				AllowedMentions: noMentions,
			},
		})
	}
	if err != nil || len(pages) == 1 {
		return err
	}

	m.mu.Lock()
	m.menus[menu.id] = menu
	menu.timer = time.AfterFunc(menu.untilExpiry(time.Now()), func() { m.expireMenu(s, i, menu.id) })
	m.mu.Unlock()
	return nil
}

func (m *Interactive) expireMenu(s *discordgo.Session, i *discordgo.InteractionCreate, id string) {
	m.mu.Lock()
	menu, ok := m.menus[id]
	if ok {
		delete(m.menus, id)
		menu.closed = true
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	if err := EditResponse(s, i, MenuExpiredMessage, []discordgo.MessageComponent{}); err != nil {
		log.WithError(err).WithField("menu_id", id).Debug("Failed to expire menu")
	}
}

// Confirm answers the interaction with a ✅/❌ question. onAnswer runs once
// with the caller's choice; a timeout counts as no and edits the prompt.
func (m *Interactive) Confirm(s *discordgo.Session, i *discordgo.InteractionCreate, question string, timeout time.Duration, onAnswer func(s *discordgo.Session, i *discordgo.InteractionCreate, yes bool)) error {
	c := &Confirmation{
		id:       uuid.NewString(),
		onAnswer: onAnswer,
	}
	if user := InteractionUser(i); user != nil {
		c.ownerID = user.ID
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         question,
			Components:      c.Components(),
			AllowedMentions: noMentions,
		},
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.confirmations[c.id] = c
	c.timer = time.AfterFunc(capLifetime(timeout), func() {
		if m.takeConfirmation(c.id) == nil {
			return
		}
		msg := "Response timed out. Please run this command again if you wish to try again."
		if err := EditResponse(s, i, msg, []discordgo.MessageComponent{}); err != nil {
			log.WithError(err).Debug("Failed to expire confirmation")
		}
	})
	m.mu.Unlock()
	return nil
}

func (m *Interactive) takeConfirmation(id string) *Confirmation {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.confirmations[id]
	if !ok {
		return nil
	}
	delete(m.confirmations, id)
	return c
}

// HandleInteraction routes menu and confirmation button presses
func (m *Interactive) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, MenuPrefix):
		m.handleMenu(s, i, strings.TrimPrefix(customID, MenuPrefix))
	case strings.HasPrefix(customID, ConfirmPrefix):
		m.handleConfirm(s, i, strings.TrimPrefix(customID, ConfirmPrefix))
	}
}

// splitAction splits "<uuid>_<action>"
func splitAction(rest string) (id, action string) {
	idx := strings.LastIndex(rest, "_")
	if idx < 0 {
		return rest, ""
	}
	return rest[:idx], rest[idx+1:]
}

func (m *Interactive) handleMenu(s *discordgo.Session, i *discordgo.InteractionCreate, rest string) {
	id, action := splitAction(rest)

	m.mu.Lock()
	menu, ok := m.menus[id]
	if !ok {
		m.mu.Unlock()
		respondUpdate(s, i, MenuExpiredMessage, []discordgo.MessageComponent{})
		return
	}
	if user := InteractionUser(i); user == nil || user.ID != menu.ownerID {
		m.mu.Unlock()
		RespondWithError(s, i, "This menu belongs to someone else.")
		return
	}

	switch action {
	case "prev":
		menu.Move(-1)
	case "next":
		menu.Move(1)
	case "close":
		delete(m.menus, id)
		menu.closed = true
		menu.timer.Stop()
	}
	if !menu.closed {
		menu.timer.Reset(menu.untilExpiry(time.Now()))
	}
	content := menu.Page()
	closed := menu.closed
	m.mu.Unlock()

	if closed {
		if err := s.ChannelMessageDelete(i.ChannelID, i.Message.ID); err != nil {
			respondUpdate(s, i, content, []discordgo.MessageComponent{})
			return
		}
		_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate})
		return
	}
	respondUpdate(s, i, content, menu.Components())
}

func (m *Interactive) handleConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, rest string) {
	id, action := splitAction(rest)

	m.mu.Lock()
	c, ok := m.confirmations[id]
	if ok {
		if user := InteractionUser(i); user == nil || user.ID != c.ownerID {
			m.mu.Unlock()
			RespondWithError(s, i, "This question is not for you.")
			return
		}
		delete(m.confirmations, id)
		c.timer.Stop()
	}
	m.mu.Unlock()

	if !ok {
		respondUpdate(s, i, "Response timed out. Please run this command again if you wish to try again.", []discordgo.MessageComponent{})
		return
	}
	c.onAnswer(s, i, action == "yes")
}

// respondUpdate edits the message that carries the pressed component
func respondUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			Components:      components,
			AllowedMentions: noMentions,
		},
	})
	if err != nil {
		log.WithError(err).Debug("Failed to update component message")
	}
}

// UpdateComponentMessage replaces the content of the message carrying the
// pressed component and removes its buttons
func UpdateComponentMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	respondUpdate(s, i, content, []discordgo.MessageComponent{})
}
