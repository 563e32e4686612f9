package sfx

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"cogbot/domain/entities"
)

var (
	ErrAmbiguousSound     = errors.New("multiple sounds share a name")
	ErrSoundExists        = errors.New("sound already exists")
	ErrUnsupportedFormat  = errors.New("unsupported sound format")
	ErrInvalidSoundName   = errors.New("invalid sound name")
	supportedSoundFormats = map[string]bool{".mp3": true, ".wav": true, ".ogg": true, ".m4a": true, ".opus": true}
)

// Sound is one file in a guild's library
type Sound struct {
	Name string
	Path string
}

// Library stores sounds under root/<guildID>/<name>.<ext>
type Library struct {
	root string
	// pick chooses among n partial matches
	pick func(n int) int
}

// NewLibrary creates a library rooted at dir
func NewLibrary(dir string) *Library {
	return &Library{root: dir, pick: rand.IntN}
}

// SupportedFormat reports whether the extension of filename can be played
func SupportedFormat(filename string) bool {
	return supportedSoundFormats[strings.ToLower(filepath.Ext(filename))]
}

func (l *Library) guildDir(guildID int64) (string, error) {
	dir := filepath.Join(l.root, strconv.FormatInt(guildID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create sound directory: %w", err)
	}
	return dir, nil
}

func (l *Library) sounds(guildID int64) ([]Sound, error) {
	dir, err := l.guildDir(guildID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound directory: %w", err)
	}

	sounds := make([]Sound, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !SupportedFormat(e.Name()) {
			continue
		}
		sounds = append(sounds, Sound{
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return sounds, nil
}

// List returns the sound names of a guild sorted case-insensitively
func (l *Library) List(guildID int64) ([]string, error) {
	sounds, err := l.sounds(guildID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sounds))
	for _, s := range sounds {
		names = append(names, s.Name)
	}
	sort.SliceStable(names, func(a, b int) bool {
		return strings.ToLower(names[a]) < strings.ToLower(names[b])
	})
	return names, nil
}

// Find returns the sound named exactly name
func (l *Library) Find(guildID int64, name string) (Sound, error) {
	sounds, err := l.sounds(guildID)
	if err != nil {
		return Sound{}, err
	}
	exact := matching(sounds, func(s Sound) bool { return s.Name == name })
	switch len(exact) {
	case 0:
		return Sound{}, entities.ErrSoundNotFound
	case 1:
		return exact[0], nil
	default:
		return Sound{}, ErrAmbiguousSound
	}
}

// Resolve finds the sound to play for name. An exact match wins; otherwise
// a random sound whose name starts with name is chosen.
func (l *Library) Resolve(guildID int64, name string) (Sound, error) {
	sound, err := l.Find(guildID, name)
	if !errors.Is(err, entities.ErrSoundNotFound) {
		return sound, err
	}

	sounds, err := l.sounds(guildID)
	if err != nil {
		return Sound{}, err
	}
	partial := matching(sounds, func(s Sound) bool { return strings.HasPrefix(s.Name, name) })
	if len(partial) == 0 {
		return Sound{}, entities.ErrSoundNotFound
	}
	return partial[l.pick(len(partial))], nil
}

// Add stores data as name with the extension of filename
func (l *Library) Add(guildID int64, name, filename string, data []byte) (Sound, error) {
	if err := validateName(name); err != nil {
		return Sound{}, err
	}
	if !SupportedFormat(filename) {
		return Sound{}, ErrUnsupportedFormat
	}

	sounds, err := l.sounds(guildID)
	if err != nil {
		return Sound{}, err
	}
	if len(matching(sounds, func(s Sound) bool { return s.Name == name })) > 0 {
		return Sound{}, ErrSoundExists
	}

	dir, err := l.guildDir(guildID)
	if err != nil {
		return Sound{}, err
	}
	path := filepath.Join(dir, name+strings.ToLower(filepath.Ext(filename)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Sound{}, fmt.Errorf("failed to write sound %s: %w", name, err)
	}
	return Sound{Name: name, Path: path}, nil
}

// Delete removes the sound named exactly name
func (l *Library) Delete(guildID int64, name string) error {
	sound, err := l.Find(guildID, name)
	if err != nil {
		return err
	}
	if err := os.Remove(sound.Path); err != nil {
		return fmt.Errorf("failed to delete sound %s: %w", name, err)
	}
	return nil
}

func matching(sounds []Sound, keep func(Sound) bool) []Sound {
	var out []Sound
	for _, s := range sounds {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return ErrInvalidSoundName
	}
	return nil
}
