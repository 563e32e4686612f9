package common

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GenericErrorMessage is shown for failures the user cannot fix
const GenericErrorMessage = "❌ Something went wrong. Please try again later."

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     log.Fields
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, missing data)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewPublicUserError is a user error whose reply is visible to the channel
func NewPublicUserError(userMessage string, logMessage string) *BotError {
	e := NewUserError(userMessage, logMessage)
	e.Ephemeral = false
	return e
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: GenericErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// NewFetchError is a system error with a feature-specific user message,
// used when an outside service could not be scraped or queried
func NewFetchError(err error, userMessage, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Err:         err,
	}
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	respondWithError(s, i, message, true)
}

func respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Content:         message,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content:         message,
		Flags:           discordgo.MessageFlagsEphemeral,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes an error from a command handler and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := interactionFields(i)

	var botErr *BotError
	if errors.As(err, &botErr) {
		for k, v := range botErr.Context {
			fields[k] = v
		}
		fields["user_message"] = botErr.UserMessage

		entry := log.WithFields(fields)
		if botErr.Err != nil {
			entry.WithError(botErr.Err).Error(botErr.LogMessage)
		} else {
			entry.Info(botErr.LogMessage)
		}

		if deferred {
			FollowUpWithError(s, i, botErr.UserMessage)
		} else {
			respondWithError(s, i, botErr.UserMessage, botErr.Ephemeral)
		}
		return
	}

	// Unexpected error - log full details but show generic message to user
	log.WithFields(fields).WithError(err).Error("Unexpected error in bot command")
	if deferred {
		FollowUpWithError(s, i, GenericErrorMessage)
	} else {
		RespondWithError(s, i, GenericErrorMessage)
	}
}

func interactionFields(i *discordgo.InteractionCreate) log.Fields {
	fields := log.Fields{
		"guild_id":   i.GuildID,
		"channel_id": i.ChannelID,
	}
	if user := InteractionUser(i); user != nil {
		fields["user_id"] = user.ID
	}
	if i.Type == discordgo.InteractionApplicationCommand {
		fields["command"] = i.ApplicationCommandData().Name
	}
	return fields
}
