package reel

import (
	"image"
	"math"
	"time"
)

// Segment holds one still image on screen for a fixed duration.
type Segment struct {
	Name     string
	Image    *image.RGBA
	Duration time.Duration
}

// Frames returns how many frames the segment occupies at fps.
func (s Segment) Frames(fps int) int {
	return FrameCount(s.Duration, fps)
}

// Timeline is the ordered list of segments that make up a video. Segments
// play back to back with hard cuts.
type Timeline []Segment

// FrameCount converts a duration to a whole number of frames, rounding to
// the nearest frame.
func FrameCount(d time.Duration, fps int) int {
	if d <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * float64(fps)))
}

// TotalFrames sums the frame counts of every segment.
func (t Timeline) TotalFrames(fps int) int {
	total := 0
	for _, seg := range t {
		total += seg.Frames(fps)
	}
	return total
}

// Duration is the playback length implied by the frame count at fps.
func (t Timeline) Duration(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(t.TotalFrames(fps)) * time.Second / time.Duration(fps)
}

// Durations configures how long each part of the standard reel is shown.
type Durations struct {
	Intro time.Duration
	Panel time.Duration
	Outro time.Duration
}

// DefaultDurations returns the standard 3s/10s/10s/3s layout.
func DefaultDurations() Durations {
	return Durations{Intro: 3 * time.Second, Panel: 10 * time.Second, Outro: 3 * time.Second}
}

// BuildTimeline orders the four reel images as intro, first panel, second
// panel, outro.
func BuildTimeline(d Durations, intro, panel1, panel2, outro *image.RGBA) Timeline {
	return Timeline{
		{Name: "intro", Image: intro, Duration: d.Intro},
		{Name: "panel1", Image: panel1, Duration: d.Panel},
		{Name: "panel2", Image: panel2, Duration: d.Panel},
		{Name: "outro", Image: outro, Duration: d.Outro},
	}
}
