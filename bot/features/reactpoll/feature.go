package reactpoll

import (
	"sync"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/config"

	"github.com/bwmarrin/discordgo"
)

// Feature runs reaction polls. Message IDs of open polls are cached so
// reaction events on other messages never reach the database.
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	cfg        config.PollConfig

	mu   sync.RWMutex
	open map[int64]struct{}
}

// NewFeature creates a new reactpoll feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, cfg config.PollConfig) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		cfg:        cfg,
		open:       make(map[int64]struct{}),
	}
}

// HandleCommand routes /rpoll subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "new":
		err = f.handleNew(s, i, opts.String("poll"))
	case "end":
		id, _ := opts.Int("id")
		err = f.handleEnd(s, i, id)
	case "list":
		err = f.handleList(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

func (f *Feature) track(messageID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open[messageID] = struct{}{}
}

func (f *Feature) untrack(messageID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.open, messageID)
}

func (f *Feature) isTracked(messageID int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.open[messageID]
	return ok
}
