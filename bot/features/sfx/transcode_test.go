package sfx

import (
	"context"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFmpeg_ExitStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		binary  string
		wantErr bool
	}{
		{binary: "true"},
		{binary: "false", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.binary, func(t *testing.T) {
			t.Parallel()

			path, err := exec.LookPath(tt.binary)
			if err != nil {
				t.Skipf("%s not installed", tt.binary)
			}

			src, err := NewFFmpeg(path).Transcode(context.Background(), "horn.mp3", 100)
			require.NoError(t, err)

			_, err = src.ReadFrame()
			require.ErrorIs(t, err, io.EOF)

			if tt.wantErr {
				assert.ErrorContains(t, src.Close(), "exit status 1")
				return
			}
			assert.NoError(t, src.Close())
		})
	}
}
