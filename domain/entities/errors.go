package entities

import "errors"

// Sentinel errors returned by domain services. Handlers map them to user replies.
var (
	ErrInvalidEmoji         = errors.New("invalid emoji")
	ErrInvalidWord          = errors.New("trigger must be a single word")
	ErrReactionExists       = errors.New("smart reaction already exists")
	ErrReactionNotFound     = errors.New("smart reaction not found")
	ErrPollNotFound         = errors.New("poll not found")
	ErrPollClosed           = errors.New("poll already closed")
	ErrInvalidPoll          = errors.New("invalid poll")
	ErrInvalidDefconLevel   = errors.New("invalid defcon level")
	ErrDefconAtMaximum      = errors.New("already at defcon 1")
	ErrDefconAtMinimum      = errors.New("already at defcon 5")
	ErrInvalidBattletag     = errors.New("invalid battletag")
	ErrInvalidVolume        = errors.New("volume out of range")
	ErrSoundNotFound        = errors.New("sound not found")
	ErrInvalidDuration      = errors.New("duration must be positive")
	ErrInvalidThreshold     = errors.New("threshold must not be negative")
	ErrInvalidNotesFormat   = errors.New("invalid patch notes format")
	ErrInvalidNotesTimeout  = errors.New("patch notes timeout out of range")
	ErrInvalidColor         = errors.New("invalid color")
	ErrInvalidMaxWords      = errors.New("max words must not be negative")
	ErrCredentialsMissing   = errors.New("credentials missing")
	ErrRoleAlreadyProtected = errors.New("role already protected")
	ErrRoleNotProtected     = errors.New("role not protected")
	ErrWordAlreadyExcluded  = errors.New("word already excluded")
)
