package sfx

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cogbot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu           sync.Mutex
	channelID    string
	frames       [][]byte
	disconnected bool
}

func (c *fakeConn) ChannelID() string { return c.channelID }

func (c *fakeConn) Speaking(bool) error { return nil }

func (c *fakeConn) SendOpus(_ context.Context, frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame)
	return nil
}

func (c *fakeConn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
	return nil
}

func (c *fakeConn) isDisconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnected
}

type fakeDialer struct {
	mu    sync.Mutex
	joins []string
	conns []*fakeConn
	fail  bool
}

func (d *fakeDialer) Join(_, channelID string) (VoiceConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return nil, errors.New("voice unavailable")
	}
	d.joins = append(d.joins, channelID)
	c := &fakeConn{channelID: channelID}
	d.conns = append(d.conns, c)
	return c, nil
}

func (d *fakeDialer) snapshot() ([]string, []*fakeConn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.joins...), append([]*fakeConn(nil), d.conns...)
}

type sliceSource struct {
	frames   [][]byte
	closeErr error
}

func (s *sliceSource) ReadFrame() ([]byte, error) {
	if len(s.frames) == 0 {
		return nil, io.EOF
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

func (s *sliceSource) Close() error { return s.closeErr }

type fakeTranscoder struct {
	mu      sync.Mutex
	volumes []int
	gate    chan struct{}
	// source overrides the default two-frame sound
	source func() *sliceSource
}

func (t *fakeTranscoder) Transcode(ctx context.Context, _ string, volume int) (FrameSource, error) {
	if t.gate != nil {
		select {
		case <-t.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	t.mu.Lock()
	t.volumes = append(t.volumes, volume)
	t.mu.Unlock()
	if t.source != nil {
		return t.source(), nil
	}
	return &sliceSource{frames: [][]byte{{1}, {2}}}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestPlayer_PlaysAndPublishes(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	transcoder := &fakeTranscoder{}
	publisher := &recordingPublisher{}
	player := NewPlayer(dialer, transcoder, publisher, 20, time.Minute)
	t.Cleanup(player.Stop)

	temp := filepath.Join(t.TempDir(), "tts.mp3")
	require.NoError(t, os.WriteFile(temp, []byte("x"), 0o644))

	require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Name: "horn", Kind: KindSfx, Path: "horn.mp3", Volume: 75}))
	require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "200", Name: "tts", Kind: KindTTS, Path: temp, Volume: 100, DeleteAfter: true}))

	require.Eventually(t, func() bool {
		_, err := os.Stat(temp)
		return publisher.count() == 2 && os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	joins, conns := dialer.snapshot()
	assert.Equal(t, []string{"100", "200"}, joins, "moves to the second channel")
	require.Len(t, conns, 2)
	assert.Len(t, conns[0].frames, 2)

	publisher.mu.Lock()
	played := publisher.events[0].(events.SoundPlayedEvent)
	publisher.mu.Unlock()
	assert.Equal(t, int64(1), played.GuildID)
	assert.Equal(t, int64(100), played.ChannelID)
	assert.Equal(t, "horn", played.Name)
}

func TestPlayer_QueueFull(t *testing.T) {
	t.Parallel()

	transcoder := &fakeTranscoder{gate: make(chan struct{})}
	player := NewPlayer(&fakeDialer{}, transcoder, nil, 2, time.Minute)
	t.Cleanup(player.Stop)

	// The worker takes the first item and blocks in Transcode
	require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Name: "a"}))
	require.Eventually(t, func() bool {
		player.mu.Lock()
		defer player.mu.Unlock()
		return player.guilds[1].queue.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Name: "b"}))
	require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Name: "c"}))
	assert.ErrorIs(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Name: "d"}), ErrQueueFull)

	// Other guilds have their own queue
	assert.NoError(t, player.Enqueue(Item{GuildID: 2, ChannelID: "300", Name: "e"}))
}

func TestPlayer_IdleDisconnect(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	player := NewPlayer(dialer, &fakeTranscoder{}, nil, 20, 50*time.Millisecond)
	t.Cleanup(player.Stop)

	require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Name: "a"}))

	require.Eventually(t, func() bool {
		_, conns := dialer.snapshot()
		return len(conns) == 1 && conns[0].isDisconnected()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, player.Active())
}

func TestPlayer_StopRejectsNewItems(t *testing.T) {
	t.Parallel()

	player := NewPlayer(&fakeDialer{}, &fakeTranscoder{}, nil, 20, time.Minute)
	player.Stop()

	assert.ErrorIs(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100"}), context.Canceled)
}

func TestPlayer_JoinFailureDropsItem(t *testing.T) {
	t.Parallel()

	publisher := &recordingPublisher{}
	temp := filepath.Join(t.TempDir(), "tts.mp3")
	require.NoError(t, os.WriteFile(temp, []byte("x"), 0o644))

	player := NewPlayer(&fakeDialer{fail: true}, &fakeTranscoder{}, publisher, 20, time.Minute)
	t.Cleanup(player.Stop)

	require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Path: temp, DeleteAfter: true}))

	require.Eventually(t, func() bool {
		_, err := os.Stat(temp)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, publisher.count())
}

func TestPlayer_FailedTranscodeIsNotPlayed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source func() *sliceSource
	}{
		{
			name:   "no frames decoded",
			source: func() *sliceSource { return &sliceSource{} },
		},
		{
			name: "transcoder exits with an error",
			source: func() *sliceSource {
				return &sliceSource{frames: [][]byte{{1}}, closeErr: errors.New("exit status 1")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dialer := &fakeDialer{}
			publisher := &recordingPublisher{}
			player := NewPlayer(dialer, &fakeTranscoder{source: tt.source}, publisher, 20, time.Minute)
			t.Cleanup(player.Stop)

			temp := filepath.Join(t.TempDir(), "broken.mp3")
			require.NoError(t, os.WriteFile(temp, []byte("x"), 0o644))
			require.NoError(t, player.Enqueue(Item{GuildID: 1, ChannelID: "100", Name: "broken", Path: temp, DeleteAfter: true}))

			// The temp file goes once the item is finished with
			require.Eventually(t, func() bool {
				_, err := os.Stat(temp)
				return os.IsNotExist(err)
			}, 2*time.Second, 10*time.Millisecond)
			assert.Zero(t, publisher.count())
		})
	}
}

func TestStream_ClosedAfterEnd(t *testing.T) {
	t.Parallel()

	source := &sliceSource{frames: [][]byte{{1}, {2}}, closeErr: errors.New("exit status 1")}
	player := &Player{ctx: context.Background(), transcoder: transcoderFunc(func() FrameSource { return source })}

	err := player.stream(&fakeConn{channelID: "100"}, Item{})
	assert.EqualError(t, err, "exit status 1")

	source = &sliceSource{}
	assert.ErrorIs(t, player.stream(&fakeConn{channelID: "100"}, Item{}), errNoAudio)
}

type transcoderFunc func() FrameSource

func (f transcoderFunc) Transcode(context.Context, string, int) (FrameSource, error) {
	return f(), nil
}
