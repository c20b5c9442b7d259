package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	ioutils "github.com/subdl/subreddit-dl/internal/io"
)

// Merger muxes a video-only stream and its companion audio stream into one
// playable file using an external ffmpeg process.
//
// Platform-hosted videos serve video and audio as separate DASH streams, so
// the downloader fetches both and hands the buffers here. Codecs are copied
// without re-encoding and the subprocess's own logging is suppressed.
//
// If ffmpeg exits non-zero (most often because the clip simply has no audio
// track, so the audio fetch returned an error page instead of a stream) the
// raw video bytes are stored as the final output instead. The item-scoped
// temp files are removed before Merge returns on both paths.
type Merger struct {
	router     *Router
	ffmpegPath string
	tempDir    string
}

// MergerOption customizes a Merger.
type MergerOption func(*Merger)

// WithFFmpegPath overrides the ffmpeg executable path. Tests use this to
// point at a stub.
func WithFFmpegPath(path string) MergerOption {
	return func(m *Merger) { m.ffmpegPath = path }
}

// WithTempDir overrides where the intermediate stream files are written.
func WithTempDir(dir string) MergerOption {
	return func(m *Merger) { m.tempDir = dir }
}

// NewMerger creates a Merger that writes final output through the given
// Router. By default ffmpeg is looked up on PATH and temp files go to the
// system temp directory.
func NewMerger(router *Router, opts ...MergerOption) *Merger {
	m := &Merger{
		router:     router,
		ffmpegPath: "ffmpeg",
		tempDir:    os.TempDir(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge muxes video and audio into the routed destination for name.
//
// The temp file names carry a per-call UUID so concurrent merges for
// different items can never collide.
func (m *Merger) Merge(ctx context.Context, name string, video, audio []byte) error {
	dest, err := m.router.Dest(name)
	if err != nil {
		return err
	}

	tag := uuid.NewString()
	videoTemp := filepath.Join(m.tempDir, fmt.Sprintf("%s_%s_video.mp4", name, tag))
	audioTemp := filepath.Join(m.tempDir, fmt.Sprintf("%s_%s_audio.mp4", name, tag))
	defer os.Remove(videoTemp)
	defer os.Remove(audioTemp)

	if err := ioutils.WriteFile(ctx, videoTemp, video); err != nil {
		return err
	}
	if err := ioutils.WriteFile(ctx, audioTemp, audio); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, m.ffmpegPath,
		"-y",
		"-loglevel", "quiet",
		"-i", videoTemp,
		"-i", audioTemp,
		"-c:v", "copy",
		"-c:a", "copy",
		dest,
	)

	if err := cmd.Run(); err != nil {
		// Video probably has no audio track. Keep the raw stream.
		return ioutils.WriteFile(ctx, dest, video)
	}

	return nil
}
