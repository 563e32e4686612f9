package sfx

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

const (
	oggHeaderSize = 27
	oggMaxSegment = 255
)

var oggCapture = []byte("OggS")

// OpusReader splits an Ogg/Opus stream into raw Opus packets
type OpusReader struct {
	r       *bufio.Reader
	header  [oggHeaderSize]byte
	segs    [oggMaxSegment]byte
	partial bytes.Buffer
	ready   [][]byte
}

// NewOpusReader wraps an Ogg stream such as ffmpeg's `-f opus` output
func NewOpusReader(r io.Reader) *OpusReader {
	return &OpusReader{r: bufio.NewReaderSize(r, 16384)}
}

// ReadFrame returns the next audio packet. OpusHead and OpusTags are skipped.
// It returns io.EOF once the stream ends.
func (o *OpusReader) ReadFrame() ([]byte, error) {
	for len(o.ready) == 0 {
		if err := o.readPage(); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
	frame := o.ready[0]
	o.ready = o.ready[1:]
	return frame, nil
}

func (o *OpusReader) readPage() error {
	// Resync on the capture pattern
	for {
		sig, err := o.r.Peek(len(oggCapture))
		if err != nil {
			return err
		}
		if bytes.Equal(sig, oggCapture) {
			break
		}
		if _, err := o.r.Discard(1); err != nil {
			return err
		}
	}

	if _, err := io.ReadFull(o.r, o.header[:]); err != nil {
		return err
	}
	table := o.segs[:int(o.header[26])]
	if _, err := io.ReadFull(o.r, table); err != nil {
		return err
	}

	for _, size := range table {
		if _, err := io.CopyN(&o.partial, o.r, int64(size)); err != nil {
			return err
		}
		// A lacing value of 255 continues the packet in the next segment
		if size == oggMaxSegment {
			continue
		}
		packet := bytes.Clone(o.partial.Bytes())
		o.partial.Reset()
		if isOpusMetadata(packet) {
			continue
		}
		o.ready = append(o.ready, packet)
	}
	return nil
}

func isOpusMetadata(packet []byte) bool {
	return bytes.HasPrefix(packet, []byte("OpusHead")) || bytes.HasPrefix(packet, []byte("OpusTags"))
}
