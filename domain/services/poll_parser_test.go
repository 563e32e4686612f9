package services

import (
	"testing"
	"time"

	"cogbot/domain/entities"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *entities.ParsedPoll
		wantErr error
	}{
		{
			name:  "question and options with default duration",
			input: "Best color? red; blue; green",
			want: &entities.ParsedPoll{
				Question: "Best color?",
				Options:  []string{"red", "blue", "green"},
				Duration: 60 * time.Second,
			},
		},
		{
			name:  "multi-vote flag",
			input: "Multi-Vote Pizza toppings? ham;pineapple",
			want: &entities.ParsedPoll{
				Question:      "Pizza toppings?",
				Options:       []string{"ham", "pineapple"},
				Duration:      60 * time.Second,
				MultipleVotes: true,
			},
		},
		{
			name:  "short time spec",
			input: "Lunch? t=1h30m tacos; burgers",
			want: &entities.ParsedPoll{
				Question: "Lunch?",
				Options:  []string{"tacos", "burgers"},
				Duration: 90 * time.Minute,
			},
		},
		{
			name:  "long time spec with spaces between groups",
			input: "Raid night? time=1d 2hrs 5 mins 10secs friday; saturday",
			want: &entities.ParsedPoll{
				Question: "Raid night?",
				Options:  []string{"friday", "saturday"},
				Duration: 24*time.Hour + 2*time.Hour + 5*time.Minute + 10*time.Second,
			},
		},
		{
			name:  "weeks",
			input: "Season? t=2w yes;no",
			want: &entities.ParsedPoll{
				Question: "Season?",
				Options:  []string{"yes", "no"},
				Duration: 14 * 24 * time.Hour,
			},
		},
		{
			name:  "empty options are dropped",
			input: "Ok? ; a ;; b ;",
			want: &entities.ParsedPoll{
				Question: "Ok?",
				Options:  []string{"a", "b"},
				Duration: 60 * time.Second,
			},
		},
		{
			name:  "multi-vote needs a word boundary",
			input: "multi-voters welcome? yes; no",
			want: &entities.ParsedPoll{
				Question: "multi-voters welcome?",
				Options:  []string{"yes", "no"},
				Duration: 60 * time.Second,
			},
		},
		{
			name:  "multi-vote after the options",
			input: "Pizza toppings? ham; pineapple multi-vote",
			want: &entities.ParsedPoll{
				Question:      "Pizza toppings?",
				Options:       []string{"ham", "pineapple"},
				Duration:      60 * time.Second,
				MultipleVotes: true,
			},
		},
		{
			name:  "time spec after the options",
			input: "Lunch? tacos; burgers t=2h",
			want: &entities.ParsedPoll{
				Question: "Lunch?",
				Options:  []string{"tacos", "burgers"},
				Duration: 2 * time.Hour,
			},
		},
		{
			name:  "time spec between options",
			input: "Lunch? tacos; time=15m; burgers",
			want: &entities.ParsedPoll{
				Question: "Lunch?",
				Options:  []string{"tacos", "burgers"},
				Duration: 15 * time.Minute,
			},
		},
		{
			name:  "last time spec wins",
			input: "Lunch? t=1h tacos; burgers t=5m",
			want: &entities.ParsedPoll{
				Question: "Lunch?",
				Options:  []string{"t=1h tacos", "burgers"},
				Duration: 5 * time.Minute,
			},
		},
		{
			name:  "equals inside a word is not a time spec",
			input: "Format? a=1; bt=2",
			want: &entities.ParsedPoll{
				Question: "Format?",
				Options:  []string{"a=1", "bt=2"},
				Duration: 60 * time.Second,
			},
		},
		{
			name:    "duration overflows",
			input:   "Forever? t=99999999999w yes; no",
			wantErr: ErrPollInvalidDuration,
		},
		{
			name:    "duration groups overflow when summed",
			input:   "Forever? t=15000w 15000w yes; no",
			wantErr: ErrPollInvalidDuration,
		},
		{
			name:    "number too large to parse",
			input:   "Forever? t=99999999999999999999s yes; no",
			wantErr: ErrPollInvalidDuration,
		},
		{
			name:    "no question mark",
			input:   "pick one; a; b",
			wantErr: ErrPollMissingQuestion,
		},
		{
			name:    "one option",
			input:   "Really? yes",
			wantErr: ErrPollTooFewOptions,
		},
		{
			name:    "months are not minutes",
			input:   "When? t=3mo a; b",
			wantErr: ErrPollInvalidDuration,
		},
		{
			name:    "time marker without groups",
			input:   "When? t= a; b",
			wantErr: ErrPollInvalidDuration,
		},
		{
			name:    "too many options",
			input:   "Number? 1;2;3;4;5;6;7;8;9;10;11;12;13;14;15;16;17;18;19;20;21",
			wantErr: ErrPollTooManyOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePoll(tt.input, 60*time.Second)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParsePoll() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPollEmojis(t *testing.T) {
	t.Parallel()

	emojis := PollEmojis(12)
	require.Len(t, emojis, 12)
	assert.Equal(t, "1️⃣", emojis[0])
	assert.Equal(t, "🔟", emojis[9])
	assert.Equal(t, "🇦", emojis[10])
	assert.Equal(t, "🇧", emojis[11])

	assert.Len(t, PollEmojis(entities.MaxPollOptions), entities.MaxPollOptions)
	assert.Empty(t, PollEmojis(0))
}
