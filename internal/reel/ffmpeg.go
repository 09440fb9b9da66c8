package reel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"panchangreel/internal/textutil"
)

// DefaultStartupGrace is how long Open watches a fresh ffmpeg process for an
// immediate exit.
const DefaultStartupGrace = 200 * time.Millisecond

// ErrEncoderExited reports an ffmpeg process that quit before accepting any
// frames, usually because of an unknown codec or container option.
var ErrEncoderExited = errors.New("ffmpeg exited during startup")

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	Binary      string
	Codec       string
	PixelFormat string
	Preset      string
	CRF         int
	// StartupGrace overrides DefaultStartupGrace. Negative disables the
	// startup watch.
	StartupGrace time.Duration
}

// Args returns the ffmpeg command line used to encode into path.
func (e FFmpegEncoder) Args(path string, spec FrameSpec) []string {
	output := ffmpeg.KwArgs{
		"c:v":      textutil.Or(e.Codec, "libx264"),
		"pix_fmt":  textutil.Or(e.PixelFormat, "yuv420p"),
		"r":        spec.FPS,
		"movflags": "+faststart",
		"f":        "mp4",
	}
	if e.Preset != "" {
		output["preset"] = e.Preset
	}
	if e.CRF > 0 {
		output["crf"] = e.CRF
	}
	stream := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"r":       spec.FPS,
	}).Output(path, output).OverWriteOutput().GlobalArgs("-hide_banner", "-loglevel", "error")
	return stream.GetArgs()
}

// Open starts ffmpeg writing to a hidden temporary file next to path. The
// file is renamed to path only when Close succeeds. A process that exits
// within the startup grace period is reported as ErrEncoderExited.
func (e FFmpegEncoder) Open(ctx context.Context, path string, spec FrameSpec) (FrameWriter, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame spec %dx%d@%d", spec.Width, spec.Height, spec.FPS)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	tmpPath := filepath.Join(dir, "."+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".partial"+filepath.Ext(path))

	cmd := exec.CommandContext(ctx, textutil.Or(e.Binary, "ffmpeg"), e.Args(tmpPath, spec)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	w := &ffmpegWriter{
		cmd:     cmd,
		stdin:   stdin,
		stderr:  stderr,
		spec:    spec,
		path:    path,
		tmpPath: tmpPath,
		exited:  make(chan struct{}),
	}
	go func() {
		w.waitErr = cmd.Wait()
		close(w.exited)
	}()

	grace := e.StartupGrace
	if grace == 0 {
		grace = DefaultStartupGrace
	}
	if grace > 0 {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-w.exited:
			w.done = true
			_ = os.Remove(tmpPath)
			if w.waitErr != nil {
				return nil, fmt.Errorf("%w: %v: %s", ErrEncoderExited, w.waitErr, lastLine(stderr.String()))
			}
			return nil, fmt.Errorf("%w: %s", ErrEncoderExited, lastLine(stderr.String()))
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	return w, nil
}

type ffmpegWriter struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *bytes.Buffer
	spec    FrameSpec
	path    string
	tmpPath string
	done    bool

	exited  chan struct{}
	waitErr error
}

func (w *ffmpegWriter) WriteFrame(frame *image.RGBA) error {
	if w.done {
		return errors.New("write to closed frame writer")
	}
	b := frame.Bounds()
	if b.Dx() != w.spec.Width || b.Dy() != w.spec.Height {
		return fmt.Errorf("frame is %dx%d, writer expects %dx%d", b.Dx(), b.Dy(), w.spec.Width, w.spec.Height)
	}
	rowBytes := 4 * w.spec.Width
	if frame.Stride == rowBytes && b.Min == (image.Point{}) {
		_, err := w.stdin.Write(frame.Pix[:rowBytes*w.spec.Height])
		return w.pipeError(err)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := frame.PixOffset(b.Min.X, y)
		if _, err := w.stdin.Write(frame.Pix[start : start+rowBytes]); err != nil {
			return w.pipeError(err)
		}
	}
	return nil
}

func (w *ffmpegWriter) pipeError(err error) error {
	if err == nil {
		return nil
	}
	select {
	case <-w.exited:
	case <-time.After(time.Second):
		return fmt.Errorf("write frame: %w", err)
	}
	if msg := strings.TrimSpace(w.stderr.String()); msg != "" {
		return fmt.Errorf("write frame: %w: %s", err, lastLine(msg))
	}
	return fmt.Errorf("write frame: %w", err)
}

func (w *ffmpegWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	closeErr := w.stdin.Close()
	<-w.exited
	if err := w.waitErr; err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("ffmpeg exited: %w: %s", err, lastLine(w.stderr.String()))
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("close ffmpeg stdin: %w", closeErr)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("finalize video: %w", err)
	}
	return nil
}

func (w *ffmpegWriter) Abort() {
	if w.done {
		return
	}
	w.done = true
	_ = w.stdin.Close()
	if w.cmd.Process != nil {
		_ = w.cmd.Process.Kill()
	}
	<-w.exited
	_ = os.Remove(w.tmpPath)
}


func lastLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return text[idx+1:]
	}
	return text
}

func (s FrameSpec) String() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height) + "@" + strconv.Itoa(s.FPS)
}
