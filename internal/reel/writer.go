package reel

import (
	"context"
	"image"
)

// FrameSpec describes the raw frames a writer accepts.
type FrameSpec struct {
	Width  int
	Height int
	FPS    int
}

// FrameWriter receives frames in display order. Close finalizes the output;
// Abort discards anything written so far. Exactly one of them must be called.
type FrameWriter interface {
	WriteFrame(frame *image.RGBA) error
	Close() error
	Abort()
}

// Encoder opens frame writers that produce a video file at path.
type Encoder interface {
	Open(ctx context.Context, path string, spec FrameSpec) (FrameWriter, error)
}
