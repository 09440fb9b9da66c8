// Package reel turns rendered panels into the final video.
//
// A reel is a Timeline of four still segments: the intro with the date drawn
// on it, the two text panels, and the outro. Composer loads and resizes the
// images, builds the timeline, and streams round(duration*fps) copies of each
// image to a FrameWriter. FFmpegEncoder is the production writer; it feeds raw
// RGBA frames to ffmpeg over stdin and only moves the finished file into
// place once ffmpeg exits cleanly.
//
// PrepareOutput is a separate step so callers decide when existing videos in
// the output directory are cleared.
package reel
