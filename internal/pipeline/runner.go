package pipeline

import (
	"context"
	"log/slog"
	"time"

	"panchangreel/internal/almanac"
	"panchangreel/internal/config"
	"panchangreel/internal/logging"
	"panchangreel/internal/media/ffprobe"
	"panchangreel/internal/notifications"
	"panchangreel/internal/preflight"
	"panchangreel/internal/publish"
	"panchangreel/internal/reel"
)

// ProbeFunc inspects a written video.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Runner executes the reel stages against one configuration. Collaborators
// that talk to the outside world can be replaced with options.
type Runner struct {
	cfg          *config.Config
	logger       *slog.Logger
	fetcher      almanac.Fetcher
	encoder      reel.Encoder
	notifier     notifications.Service
	store        publish.ObjectStore
	probe        ProbeFunc
	now          func() time.Time
	skipBinaries bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithFetcher replaces the Prokerala client.
func WithFetcher(f almanac.Fetcher) Option {
	return func(r *Runner) { r.fetcher = f }
}

// WithEncoder replaces the ffmpeg encoder. Binary preflight checks are
// skipped because ffmpeg is no longer needed.
func WithEncoder(e reel.Encoder) Option {
	return func(r *Runner) {
		r.encoder = e
		r.skipBinaries = true
	}
}

// WithNotifier replaces the ntfy service.
func WithNotifier(n notifications.Service) Option {
	return func(r *Runner) { r.notifier = n }
}

// WithObjectStore replaces the S3 client used for publishing.
func WithObjectStore(s publish.ObjectStore) Option {
	return func(r *Runner) { r.store = s }
}

// WithProbe replaces ffprobe.Inspect.
func WithProbe(p ProbeFunc) Option {
	return func(r *Runner) { r.probe = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New returns a runner for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		probe:  ffprobe.Inspect,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.encoder == nil {
		r.encoder = reel.FFmpegEncoder{
			Binary:      cfg.Reel.FFmpegBinary,
			Codec:       cfg.Reel.VideoCodec,
			PixelFormat: cfg.Reel.PixelFormat,
			Preset:      cfg.Reel.Preset,
			CRF:         cfg.Reel.CRF,
		}
	}
	if r.notifier == nil {
		r.notifier = notifications.NewService(cfg)
	}
	return r
}

// Config returns the runner's configuration.
func (r *Runner) Config() *config.Config { return r.cfg }

// Preflight runs the readiness checks for a generate run.
func (r *Runner) Preflight(ctx context.Context, needAlmanac bool) []preflight.Result {
	return preflight.RunAll(ctx, r.cfg, preflight.Options{
		RequireAlmanac: needAlmanac && r.fetcher == nil,
		SkipBinaries:   r.skipBinaries,
	})
}

func (r *Runner) location() *time.Location {
	loc, err := time.LoadLocation(r.cfg.Almanac.Timezone)
	if err != nil {
		r.logger.Warn("unknown timezone, using UTC",
			logging.String("timezone", r.cfg.Almanac.Timezone),
			logging.Error(err),
		)
		return time.UTC
	}
	return loc
}

// TargetDate resolves the moment a run is for: the explicit YYYY-MM-DD value
// when given, otherwise today shifted by the configured day offset.
func (r *Runner) TargetDate(value string) (time.Time, error) {
	loc := r.location()
	if value == "" {
		return almanac.TargetTime(r.now(), loc, r.cfg.Almanac.DayOffset), nil
	}
	return almanac.ParseDate(value, r.now(), loc)
}
