package sfx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FrameSource yields Opus packets until io.EOF. Close reports whether the
// packets were complete.
type FrameSource interface {
	ReadFrame() ([]byte, error)
	Close() error
}

// FFmpeg transcodes sound files to 48kHz stereo Opus
type FFmpeg struct {
	path string
}

// NewFFmpeg uses the ffmpeg binary at path
func NewFFmpeg(path string) *FFmpeg {
	return &FFmpeg{path: path}
}

func ffmpegArgs(input string, volume int) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-map", "0:a",
		"-filter:a", "volume=" + strconv.FormatFloat(float64(volume)/100, 'f', 2, 64),
		"-acodec", "libopus",
		"-ar", "48000",
		"-ac", "2",
		"-b:a", "96k",
		"-vbr", "on",
		"-frame_duration", "20",
		"-f", "opus",
		"pipe:1",
	}
}

// Transcode starts ffmpeg on input and returns its Opus packets
func (f *FFmpeg) Transcode(ctx context.Context, input string, volume int) (FrameSource, error) {
	cmd := exec.CommandContext(ctx, f.path, ffmpegArgs(input, volume)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stdout: %w", err)
	}
	// Wait copies stderr into the buffer, so it is only read after Wait
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return &ffmpegStream{
		OpusReader: NewOpusReader(stdout),
		cmd:        cmd,
		stdout:     stdout,
		stderr:     stderr,
		input:      input,
	}, nil
}

type ffmpegStream struct {
	*OpusReader
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	input  string
	ended  bool
}

func (s *ffmpegStream) ReadFrame() ([]byte, error) {
	frame, err := s.OpusReader.ReadFrame()
	if errors.Is(err, io.EOF) {
		s.ended = true
	}
	return frame, err
}

// Close reaps ffmpeg. A stream read to the end reports a failed exit;
// an abandoned stream is killed and its exit status ignored.
func (s *ffmpegStream) Close() error {
	if !s.ended {
		_ = s.stdout.Close()
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		_ = s.cmd.Wait()
		return nil
	}

	err := s.cmd.Wait()
	output := strings.TrimSpace(s.stderr.String())
	if output != "" {
		log.WithField("input", s.input).Debugf("ffmpeg: %s", output)
	}
	if err == nil {
		return nil
	}
	if output != "" {
		return fmt.Errorf("ffmpeg failed on %s: %w: %s", s.input, err, output)
	}
	return fmt.Errorf("ffmpeg failed on %s: %w", s.input, err)
}
