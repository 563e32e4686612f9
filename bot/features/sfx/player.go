package sfx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"cogbot/domain/interfaces"
	"cogbot/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var errNoAudio = errors.New("no audio frames decoded")

// VoiceConn is a joined voice channel that accepts Opus packets
type VoiceConn interface {
	ChannelID() string
	Speaking(bool) error
	SendOpus(ctx context.Context, frame []byte) error
	Disconnect() error
}

// VoiceDialer joins or moves to a voice channel
type VoiceDialer interface {
	Join(guildID, channelID string) (VoiceConn, error)
}

// Transcoder turns a sound file into Opus packets at a volume percentage
type Transcoder interface {
	Transcode(ctx context.Context, input string, volume int) (FrameSource, error)
}

// Player runs one worker per guild that plays queued sounds in order
type Player struct {
	dialer      VoiceDialer
	transcoder  Transcoder
	publisher   interfaces.EventPublisher
	queueSize   int
	idleTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	guilds map[int64]*guildPlayer
}

type guildPlayer struct {
	guildID int64
	queue   *Queue
	wake    chan struct{}
}

// NewPlayer creates a player. Workers start lazily on the first Enqueue.
func NewPlayer(dialer VoiceDialer, transcoder Transcoder, publisher interfaces.EventPublisher, queueSize int, idleTimeout time.Duration) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		dialer:      dialer,
		transcoder:  transcoder,
		publisher:   publisher,
		queueSize:   queueSize,
		idleTimeout: idleTimeout,
		ctx:         ctx,
		cancel:      cancel,
		guilds:      make(map[int64]*guildPlayer),
	}
}

// Enqueue queues item for its guild, starting the guild worker if needed
func (p *Player) Enqueue(item Item) error {
	p.mu.Lock()
	if err := p.ctx.Err(); err != nil {
		p.mu.Unlock()
		return err
	}
	gp, ok := p.guilds[item.GuildID]
	if !ok {
		gp = &guildPlayer{
			guildID: item.GuildID,
			queue:   NewQueue(p.queueSize),
			wake:    make(chan struct{}, 1),
		}
		p.guilds[item.GuildID] = gp
		p.wg.Add(1)
		go p.run(gp)
	}
	err := gp.queue.Push(item)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case gp.wake <- struct{}{}:
	default:
	}
	return nil
}

// Stop ends every worker, disconnects from voice and waits for the workers to exit
func (p *Player) Stop() {
	p.mu.Lock()
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()
}

// Active returns the number of guilds with a running worker
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.guilds)
}

func (p *Player) run(gp *guildPlayer) {
	defer p.wg.Done()

	logger := log.WithField("guild_id", gp.guildID)
	logger.Debug("Sound worker started")

	var conn VoiceConn
	defer func() {
		if conn != nil {
			if err := conn.Disconnect(); err != nil {
				logger.WithError(err).Warn("Failed to leave voice channel")
			}
		}
		for _, item := range gp.queue.Drain() {
			item.cleanup()
		}
		logger.Debug("Sound worker stopped")
	}()

	idle := time.NewTimer(p.idleTimeout)
	defer idle.Stop()

	for {
		item, ok := gp.queue.Pop()
		if ok {
			conn = p.play(conn, item)
			idle.Reset(p.idleTimeout)
			continue
		}

		select {
		case <-p.ctx.Done():
			p.retire(gp)
			return
		case <-gp.wake:
		case <-idle.C:
			if p.retire(gp) {
				logger.Info("Leaving voice after idle timeout")
				return
			}
			idle.Reset(p.idleTimeout)
		}
	}
}

// retire removes the worker unless an item arrived in the meantime.
// Enqueue pushes under p.mu so nothing is lost between the check and the delete.
func (p *Player) retire(gp *guildPlayer) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx.Err() == nil && gp.queue.Len() > 0 {
		return false
	}
	delete(p.guilds, gp.guildID)
	return true
}

func (p *Player) play(conn VoiceConn, item Item) VoiceConn {
	defer item.cleanup()

	logger := log.WithFields(log.Fields{
		"guild_id":   item.GuildID,
		"channel_id": item.ChannelID,
		"sound":      item.Name,
		"kind":       item.Kind,
	})

	if conn == nil || conn.ChannelID() != item.ChannelID {
		joined, err := p.dialer.Join(strconv.FormatInt(item.GuildID, 10), item.ChannelID)
		if err != nil {
			logger.WithError(err).Error("Could not join voice channel")
			return conn
		}
		conn = joined
	}

	if err := p.stream(conn, item); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Failed to play sound")
		}
		return conn
	}

	logger.Debug("Sound played")
	if p.publisher != nil {
		if err := p.publisher.Publish(events.SoundPlayedEvent{
			GuildID:   item.GuildID,
			ChannelID: channelIDInt(item.ChannelID),
			Name:      item.Name,
			Kind:      item.Kind,
		}); err != nil {
			logger.WithError(err).Warn("Failed to publish sound played event")
		}
	}
	return conn
}

// stream sends every frame of item. A sound counts as played only when at
// least one frame went out and the source closed cleanly.
func (p *Player) stream(conn VoiceConn, item Item) (err error) {
	src, err := p.transcoder.Transcode(p.ctx, item.Path, item.Volume)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := src.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := conn.Speaking(true); err != nil {
		return fmt.Errorf("failed to set speaking: %w", err)
	}
	defer func() { _ = conn.Speaking(false) }()

	sent := 0
	for {
		frame, err := src.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read audio: %w", err)
		}
		if err := conn.SendOpus(p.ctx, frame); err != nil {
			return err
		}
		sent++
	}
	if sent == 0 {
		return errNoAudio
	}
	return nil
}

func channelIDInt(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}

// DiscordDialer joins voice channels through a discordgo session
type DiscordDialer struct {
	Session *discordgo.Session
}

// Join joins channelID, moving an existing connection in the guild if there is one
func (d DiscordDialer) Join(guildID, channelID string) (VoiceConn, error) {
	vc, err := d.Session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel %s: %w", channelID, err)
	}
	return &discordVoice{vc: vc, channelID: channelID}, nil
}

type discordVoice struct {
	vc        *discordgo.VoiceConnection
	channelID string
}

func (v *discordVoice) ChannelID() string { return v.channelID }

func (v *discordVoice) Speaking(on bool) error { return v.vc.Speaking(on) }

func (v *discordVoice) SendOpus(ctx context.Context, frame []byte) error {
	select {
	case v.vc.OpusSend <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *discordVoice) Disconnect() error { return v.vc.Disconnect() }
