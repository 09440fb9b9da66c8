package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"panchangreel/internal/almanac"
	"panchangreel/internal/config"
	"panchangreel/internal/logging"
	"panchangreel/internal/media/ffprobe"
	"panchangreel/internal/notifications"
	"panchangreel/internal/pipeline"
	"panchangreel/internal/reel"
	"panchangreel/internal/services"
	"panchangreel/internal/testsupport"
)

type stubFetcher struct {
	day   almanac.Day
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, at time.Time) (almanac.Day, error) {
	s.calls++
	if s.err != nil {
		return almanac.Day{}, s.err
	}
	day := s.day
	day.Date = at
	day.DateText = at.Format("02 January 2006")
	return day, nil
}

type countingWriter struct {
	path   string
	frames int
}

func (w *countingWriter) WriteFrame(*image.RGBA) error { w.frames++; return nil }

func (w *countingWriter) Close() error {
	return os.WriteFile(w.path, []byte(fmt.Sprintf("%d frames", w.frames)), 0o644)
}

func (w *countingWriter) Abort() {}

type stubEncoder struct {
	last *countingWriter
}

func (e *stubEncoder) Open(_ context.Context, path string, _ reel.FrameSpec) (reel.FrameWriter, error) {
	e.last = &countingWriter{path: path}
	return e.last, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
	last   notifications.Payload
}

func (n *recordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	n.last = payload
	return nil
}

type memoryStore struct {
	keys []string
}

func (m *memoryStore) Put(_ context.Context, _ string, key string, body io.Reader, _ string) error {
	_, _ = io.Copy(io.Discard, body)
	m.keys = append(m.keys, key)
	return nil
}

func (m *memoryStore) Exists(context.Context, string, string) (bool, error) { return false, nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithSmallFrames(), testsupport.WithAssets())
}

func fakeProbe(frames string) pipeline.ProbeFunc {
	return func(_ context.Context, _ string, path string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{
				CodecType:    "video",
				CodecName:    "h264",
				Width:        108,
				Height:       192,
				NBFrames:     frames,
				AvgFrameRate: "2/1",
			}},
			Format: ffprobe.Format{Filename: path, Duration: "26.0"},
		}, nil
	}
}

func sampleDay() almanac.Day {
	return almanac.Day{
		Sunrise:   "05:46 AM",
		Sunset:    "06:52 PM",
		Tithi:     &almanac.Tithi{Name: "Ekadashi", Paksha: "Shukla Paksha"},
		Nakshatra: &almanac.Nakshatra{Name: "Vishakha", Lord: "Jupiter"},
		Auspicious: []almanac.Muhurat{
			{Name: "Abhijit Muhurat", Periods: []almanac.Period{{Start: "11:52 AM", End: "12:46 PM"}}},
		},
		Inauspicious: []almanac.Muhurat{
			{Name: "Rahu", Periods: []almanac.Period{{Start: "05:12 PM", End: "06:52 PM"}}},
		},
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfg.Publish.Enabled = true
	cfg.Publish.Bucket = "media"
	if err := os.MkdirAll(cfg.Paths.VideoDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(cfg.Paths.VideoDir, "old_reel.mp4")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	fetcher := &stubFetcher{day: sampleDay()}
	encoder := &stubEncoder{}
	notifier := &recordingNotifier{}
	store := &memoryStore{}
	now := time.Date(2025, time.July, 5, 18, 0, 0, 0, time.UTC)
	runner := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithFetcher(fetcher),
		pipeline.WithEncoder(encoder),
		pipeline.WithNotifier(notifier),
		pipeline.WithObjectStore(store),
		pipeline.WithProbe(fakeProbe("52")),
		pipeline.WithClock(func() time.Time { return now }),
	)

	report, err := runner.Generate(context.Background(), pipeline.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if report.CorrelationID == "" {
		t.Fatal("expected correlation id")
	}
	if report.Date.Format(time.DateOnly) != "2025-07-06" {
		t.Fatalf("expected tomorrow's date, got %v", report.Date)
	}
	if fetcher.calls != 1 || report.Fetch == nil {
		t.Fatal("expected almanac to be fetched once")
	}
	if report.Video.Frames != 52 || encoder.last.frames != 52 {
		t.Fatalf("expected 52 frames, got %d/%d", report.Video.Frames, encoder.last.frames)
	}
	if report.Verify == nil || !report.Verify.OK() {
		t.Fatalf("expected clean verification, got %+v", report.Verify)
	}
	if len(report.Removed) != 1 {
		t.Fatalf("expected stale video removed, got %v", report.Removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale video still present")
	}
	for _, p := range report.Render.Paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("panel not written: %v", err)
		}
	}
	if report.Published == nil || len(store.keys) != 3 {
		t.Fatalf("expected 3 uploads, got %v", store.keys)
	}
	if !strings.HasPrefix(store.keys[0], "reels/2025-07-06/") {
		t.Fatalf("unexpected key %s", store.keys[0])
	}
	if report.Fetch.Artifacts.Text == "" {
		t.Fatal("expected reel text artifact")
	}
	if got := notifier.events; len(got) != 2 || got[0] != notifications.EventReelPublished || got[1] != notifications.EventReelCompleted {
		t.Fatalf("unexpected notifications %v", got)
	}
	if len(report.Render.Panel1)+len(report.Render.Panel2) != len(report.Render.Lines) {
		t.Fatal("panels do not cover every line")
	}
}

func visibleEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	return names
}

func TestGenerateIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2025, time.July, 5, 18, 0, 0, 0, time.UTC)
	runner := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithFetcher(&stubFetcher{day: sampleDay()}),
		pipeline.WithEncoder(&stubEncoder{}),
		pipeline.WithNotifier(&recordingNotifier{}),
		pipeline.WithProbe(fakeProbe("52")),
		pipeline.WithClock(func() time.Time { return now }),
	)

	var last pipeline.Report
	for run := 1; run <= 2; run++ {
		report, err := runner.Generate(context.Background(), pipeline.GenerateOptions{})
		if err != nil {
			t.Fatalf("run %d: Generate returned error: %v", run, err)
		}
		last = report
	}
	if len(last.Removed) != 1 || filepath.Base(last.Removed[0]) != config.VideoFileName {
		t.Fatalf("expected second run to replace the first video, removed %v", last.Removed)
	}

	if got := strings.Join(visibleEntries(t, cfg.Paths.VideoDir), ","); got != config.VideoFileName {
		t.Fatalf("expected exactly one video, found %q", got)
	}
	want := []string{config.Panel1FileName, config.Panel2FileName}
	slices.Sort(want)
	if got := visibleEntries(t, cfg.Paths.ImageDir); !slices.Equal(got, want) {
		t.Fatalf("expected only the two panels, found %q", got)
	}
}

func TestGenerateFromLinesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reel.Verify = false
	linesPath := filepath.Join(t.TempDir(), "reel.txt")
	testsupport.WriteLines(t, linesPath, "Sunrise: 05:46 AM", "Sunset: 06:52 PM", "", "Tithi: Ekadashi")
	fetcher := &stubFetcher{}
	runner := pipeline.New(cfg, nil,
		pipeline.WithFetcher(fetcher),
		pipeline.WithEncoder(&stubEncoder{}),
		pipeline.WithNotifier(&recordingNotifier{}),
	)
	report, err := runner.Generate(context.Background(), pipeline.GenerateOptions{LinesPath: linesPath, Date: "2025-12-31"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if fetcher.calls != 0 {
		t.Fatal("lines file must bypass the almanac")
	}
	if report.Verify != nil {
		t.Fatal("verification should be disabled")
	}
	if report.Date.Format(time.DateOnly) != "2025-12-31" {
		t.Fatalf("unexpected date %v", report.Date)
	}
	if got := strings.Join(report.Render.Panel1, "|"); got != "Sunrise: 05:46 AM|Sunset: 06:52 PM|" {
		t.Fatalf("unexpected first panel %q", got)
	}
	if len(report.Render.Panel2) != 1 || report.Render.Panel2[0] != "Tithi: Ekadashi" {
		t.Fatalf("unexpected second panel %q", report.Render.Panel2)
	}
}

func TestGenerateReportsFailure(t *testing.T) {
	cfg := testConfig(t)
	if err := os.Remove(cfg.OutroPath()); err != nil {
		t.Fatal(err)
	}
	notifier := &recordingNotifier{}
	fetcher := &stubFetcher{day: sampleDay()}
	runner := pipeline.New(cfg, nil,
		pipeline.WithFetcher(fetcher),
		pipeline.WithEncoder(&stubEncoder{}),
		pipeline.WithNotifier(notifier),
	)
	_, err := runner.Generate(context.Background(), pipeline.GenerateOptions{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected preflight validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Outro image") {
		t.Fatalf("expected outro in error, got %v", err)
	}
	if fetcher.calls != 0 {
		t.Fatal("fetch must not run after a failed preflight")
	}
	if len(notifier.events) != 1 || notifier.events[0] != notifications.EventError {
		t.Fatalf("expected error notification, got %v", notifier.events)
	}
	if notifier.last["context"] != "preflight" {
		t.Fatalf("expected preflight context, got %v", notifier.last["context"])
	}
}

func TestGenerateRefusesConcurrentRun(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	held := flock.New(cfg.LockPath())
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take lock: %v", err)
	}
	defer held.Unlock()

	runner := pipeline.New(cfg, nil,
		pipeline.WithFetcher(&stubFetcher{day: sampleDay()}),
		pipeline.WithEncoder(&stubEncoder{}),
		pipeline.WithNotifier(&recordingNotifier{}),
	)
	_, err = runner.Generate(context.Background(), pipeline.GenerateOptions{})
	if !errors.Is(err, pipeline.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
}

func TestVerifyReportsMismatch(t *testing.T) {
	cfg := testConfig(t)
	runner := pipeline.New(cfg, nil, pipeline.WithProbe(fakeProbe("30")), pipeline.WithNotifier(&recordingNotifier{}))
	report, err := runner.Verify(context.Background(), "/videos/reel_video.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Fatal("expected frame mismatch")
	}
	if runner.ExpectedFrames() != 52 {
		t.Fatalf("expected 52 frames at 2 fps, got %d", runner.ExpectedFrames())
	}
}

func TestDivideStripsEmoji(t *testing.T) {
	cfg := testConfig(t)
	runner := pipeline.New(cfg, nil, pipeline.WithNotifier(&recordingNotifier{}))
	division := runner.Divide(almanac.Lines(almanac.Day{DateText: "06 July 2025", Sunrise: "05:46 AM", Sunset: "06:52 PM"}))
	if division.Panel1[0] != "06 July 2025" {
		t.Fatalf("expected emoji stripped, got %q", division.Panel1[0])
	}
	if !strings.Contains(division.Lines[0], "06 July 2025") || division.Lines[0] == division.Panel1[0] {
		t.Fatalf("expected raw input kept, got %q", division.Lines[0])
	}
}

func TestDividePartitionsBeforeStripping(t *testing.T) {
	cfg := testConfig(t)
	runner := pipeline.New(cfg, nil, pipeline.WithNotifier(&recordingNotifier{}))
	lines := []string{"Intro", "x", "Note: 🌙", "y"}

	division := runner.Divide(lines)
	if got := strings.Join(division.Panel1, "|"); got != "Intro|x|Note:|y" {
		t.Fatalf("expected one block in panel 1, got %q", got)
	}
	if len(division.Panel2) != 0 {
		t.Fatalf("expected empty panel 2, got %q", division.Panel2)
	}
	if strings.Join(division.Lines, "|") != strings.Join(lines, "|") {
		t.Fatalf("expected input lines kept, got %q", division.Lines)
	}
}
