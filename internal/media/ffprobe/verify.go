package ffprobe

import (
	"encoding/json"
	"fmt"
	"math"
)

// FrameTolerance is how far the measured frame count may drift from the
// expected count before Verify reports it.
const FrameTolerance = 10

// Expectation describes the video a timeline should have produced. Zero
// fields are not checked.
type Expectation struct {
	Frames int
	FPS    int
	Width  int
	Height int
}

// Report holds the measured properties of a video and any mismatches.
type Report struct {
	Path            string
	DurationSeconds float64
	FPS             float64
	Frames          int
	Width           int
	Height          int
	Codec           string
	VideoStreams    int
	SizeBytes       int64
	Problems        []string
	// Probe is the raw ffprobe output, kept for --json consumers.
	Probe json.RawMessage `json:",omitempty"`
}

// OK reports whether no mismatches were found.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Verify compares an inspected video to exp.
func Verify(result Result, exp Expectation) Report {
	report := Report{
		Path:            result.Format.Filename,
		DurationSeconds: result.DurationSeconds(),
		VideoStreams:    result.VideoStreamCount(),
		SizeBytes:       result.SizeBytes(),
	}
	if raw := result.RawJSON(); len(raw) > 0 {
		report.Probe = raw
	}
	stream, ok := result.VideoStream()
	if !ok {
		report.Problems = append(report.Problems, "no video stream")
		return report
	}
	report.FPS = stream.FrameRate()
	report.Frames = stream.FrameCount()
	report.Width = stream.Width
	report.Height = stream.Height
	report.Codec = stream.CodecName

	if report.VideoStreams > 1 {
		report.Problems = append(report.Problems,
			fmt.Sprintf("%d video streams, expected 1", report.VideoStreams))
	}
	if exp.Frames > 0 {
		if diff := report.Frames - exp.Frames; diff >= FrameTolerance || diff <= -FrameTolerance {
			report.Problems = append(report.Problems,
				fmt.Sprintf("frame count %d differs from expected %d", report.Frames, exp.Frames))
		}
	}
	if exp.FPS > 0 && math.Abs(report.FPS-float64(exp.FPS)) > 0.01 {
		report.Problems = append(report.Problems,
			fmt.Sprintf("frame rate %.2f differs from expected %d", report.FPS, exp.FPS))
	}
	if exp.Width > 0 && exp.Height > 0 && (report.Width != exp.Width || report.Height != exp.Height) {
		report.Problems = append(report.Problems,
			fmt.Sprintf("dimensions %dx%d differ from expected %dx%d", report.Width, report.Height, exp.Width, exp.Height))
	}
	return report
}
