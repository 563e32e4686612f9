package sfx

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage builds a page whose segment table laces the given packets
func oggPage(packets ...[]byte) []byte {
	var table, body []byte
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			table = append(table, 255)
			n -= 255
		}
		table = append(table, byte(n))
		body = append(body, p...)
	}

	header := make([]byte, oggHeaderSize)
	copy(header, "OggS")
	header[26] = byte(len(table))

	page := append(header, table...)
	return append(page, body...)
}

func TestOpusReader(t *testing.T) {
	t.Parallel()

	long := bytes.Repeat([]byte{7}, 300)
	var stream bytes.Buffer
	stream.Write(oggPage([]byte("OpusHead-ident")))
	stream.Write(oggPage([]byte("OpusTags-vendor")))
	stream.WriteString("junk")
	stream.Write(oggPage([]byte{1, 2, 3}, []byte{4, 5}))
	stream.Write(oggPage(long))

	r := NewOpusReader(&stream)

	var frames [][]byte
	for {
		frame, err := r.ReadFrame()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		frames = append(frames, frame)
	}

	require.Len(t, frames, 3)
	assert.Equal(t, []byte{1, 2, 3}, frames[0])
	assert.Equal(t, []byte{4, 5}, frames[1])
	assert.Equal(t, long, frames[2])
}

func TestOpusReader_TruncatedStream(t *testing.T) {
	t.Parallel()

	page := oggPage([]byte{1, 2, 3, 4})
	r := NewOpusReader(bytes.NewReader(page[:len(page)-2]))

	_, err := r.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}
