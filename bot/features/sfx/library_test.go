package sfx

import (
	"os"
	"path/filepath"
	"testing"

	"cogbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuild int64 = 42

func newTestLibrary(t *testing.T, files ...string) *Library {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "42")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("audio"), 0o644))
	}
	lib := NewLibrary(root)
	lib.pick = func(int) int { return 0 }
	return lib
}

func TestLibrary_List(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t, "zap.mp3", "Airhorn.wav", "bonk.ogg", "notes.txt")

	names, err := lib.List(testGuild)
	require.NoError(t, err)
	assert.Equal(t, []string{"Airhorn", "bonk", "zap"}, names)

	empty, err := lib.List(7)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLibrary_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    []string
		query    string
		wantName string
		wantErr  error
	}{
		{
			name:     "exact match wins over prefix",
			files:    []string{"horn.mp3", "hornet.mp3"},
			query:    "horn",
			wantName: "horn",
		},
		{
			name:     "prefix match",
			files:    []string{"hornet.mp3", "bonk.mp3"},
			query:    "hor",
			wantName: "hornet",
		},
		{
			name:    "same name with two extensions",
			files:   []string{"horn.mp3", "horn.wav"},
			query:   "horn",
			wantErr: ErrAmbiguousSound,
		},
		{
			name:    "nothing matches",
			files:   []string{"bonk.mp3"},
			query:   "zap",
			wantErr: entities.ErrSoundNotFound,
		},
		{
			name:    "unsupported files are invisible",
			files:   []string{"horn.txt"},
			query:   "horn",
			wantErr: entities.ErrSoundNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lib := newTestLibrary(t, tt.files...)
			sound, err := lib.Resolve(testGuild, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, sound.Name)
			assert.FileExists(t, sound.Path)
		})
	}
}

func TestLibrary_Resolve_PicksAmongPrefixMatches(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t, "horn1.mp3", "horn2.mp3", "horn3.mp3")
	var offered int
	lib.pick = func(n int) int {
		offered = n
		return n - 1
	}

	sound, err := lib.Resolve(testGuild, "horn")
	require.NoError(t, err)
	assert.Equal(t, 3, offered)
	assert.Contains(t, []string{"horn1", "horn2", "horn3"}, sound.Name)
}

func TestLibrary_Add(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t, "bonk.mp3")

	sound, err := lib.Add(testGuild, "zap", "upload.WAV", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "zap.wav", filepath.Base(sound.Path))

	_, err = lib.Add(testGuild, "bonk", "other.ogg", []byte("data"))
	assert.ErrorIs(t, err, ErrSoundExists)

	_, err = lib.Add(testGuild, "doc", "readme.txt", []byte("data"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = lib.Add(testGuild, "../escape", "x.mp3", []byte("data"))
	assert.ErrorIs(t, err, ErrInvalidSoundName)
}

func TestLibrary_Delete(t *testing.T) {
	t.Parallel()

	lib := newTestLibrary(t, "bonk.mp3", "bonkers.mp3")

	require.NoError(t, lib.Delete(testGuild, "bonk"))
	names, err := lib.List(testGuild)
	require.NoError(t, err)
	assert.Equal(t, []string{"bonkers"}, names)

	assert.ErrorIs(t, lib.Delete(testGuild, "bonk"), entities.ErrSoundNotFound)
}
