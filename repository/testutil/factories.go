package testutil

import (
	"time"

	"cogbot/domain/entities"
)

// CreateTestPoll creates a two-option poll ending after d
func CreateTestPoll(channelID, authorID int64, d time.Duration) *entities.Poll {
	return &entities.Poll{
		ChannelID: channelID,
		AuthorID:  authorID,
		Question:  "Pizza or tacos?",
		Options:   []string{"Pizza", "Tacos"},
		Emojis:    []string{"1️⃣", "2️⃣"},
		Embed:     true,
		EndTime:   time.Now().UTC().Add(d),
	}
}

// CreateTestPollWithOptions creates a poll with one keycap emoji per option
func CreateTestPollWithOptions(channelID int64, options []string, multiple bool, endTime time.Time) *entities.Poll {
	keycaps := []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}
	return &entities.Poll{
		ChannelID:     channelID,
		AuthorID:      1,
		Question:      "Which one?",
		Options:       options,
		Emojis:        keycaps[:len(options)],
		MultipleVotes: multiple,
		Embed:         true,
		EndTime:       endTime,
	}
}
