package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"panchangreel/internal/artifacts"
	"panchangreel/internal/logging"
	"panchangreel/internal/media/ffprobe"
	"panchangreel/internal/notifications"
	"panchangreel/internal/preflight"
	"panchangreel/internal/publish"
	"panchangreel/internal/reel"
	"panchangreel/internal/services"
)

// ErrBusy is returned when another run holds the output lock.
var ErrBusy = errors.New("another run is in progress")

// GenerateOptions controls a full run.
type GenerateOptions struct {
	// Date is a YYYY-MM-DD override; empty uses the configured day offset.
	Date string
	// LinesPath reads reel text from a file instead of calling the API.
	LinesPath  string
	SkipVerify bool
}

// Report summarizes a finished run.
type Report struct {
	CorrelationID string
	Date          time.Time
	Fetch         *FetchResult
	Render        RenderResult
	Video         reel.Result
	Removed       []string
	// Pruned lists run files removed by log and artifact retention.
	Pruned        []string
	Verify        *ffprobe.Report
	Published     *publish.Result
	Elapsed       time.Duration
}

// Generate runs every stage in order: preflight, text acquisition, panel
// rendering, composition, verification and publishing. Only one run may
// write to the output directories at a time.
func (r *Runner) Generate(ctx context.Context, opts GenerateOptions) (report Report, err error) {
	start := r.now()
	report.CorrelationID = uuid.NewString()
	ctx = services.WithRequestID(ctx, report.CorrelationID)

	date, err := r.TargetDate(opts.Date)
	if err != nil {
		return report, services.Wrap(services.ErrValidation, "generate", "parse date", opts.Date, err)
	}
	report.Date = date
	ctx = services.WithReelDate(ctx, date.Format(time.DateOnly))
	logger := logging.WithContext(ctx, r.logger)

	stage := "prepare"
	defer func() {
		if err != nil {
			r.reportFailure(ctx, stage, err)
		}
	}()

	if err := r.cfg.EnsureDirectories(); err != nil {
		return report, services.Wrap(services.ErrConfiguration, "generate", "create directories", "", err)
	}
	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return report, services.Wrap(services.ErrConfiguration, "generate", "acquire lock", r.cfg.LockPath(), err)
	}
	if !locked {
		return report, services.Wrap(services.ErrValidation, "generate", "acquire lock", r.cfg.LockPath(), ErrBusy)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release lock", logging.Error(unlockErr))
		}
	}()

	stage = "preflight"
	if failed := preflight.Failures(r.Preflight(ctx, opts.LinesPath == "")); len(failed) > 0 {
		return report, services.Wrap(services.ErrValidation, "preflight", "check", preflight.Summary(failed), nil)
	}

	logger.Info("reel run started",
		logging.Event("run_start"),
		logging.String("source", sourceLabel(opts)),
	)

	stage = "fetch"
	lines, err := r.acquireLines(ctx, opts, date, &report)
	if err != nil {
		return report, err
	}

	stage = "render"
	report.Render, err = r.Render(ctx, lines)
	if err != nil {
		return report, err
	}

	stage = "compose"
	report.Video, report.Removed, err = r.Compose(ctx, ComposeInput{
		Date:   date,
		Panel1: report.Render.Images[0],
		Panel2: report.Render.Images[1],
	})
	if err != nil {
		return report, err
	}

	if r.cfg.Reel.Verify && !opts.SkipVerify {
		verify, verr := r.Verify(ctx, report.Video.OutputPath)
		if verr != nil {
			logging.WarnWithContext(logger, "video verification skipped", "verify_failed",
				logging.Error(verr),
				logging.String(logging.FieldImpact, "video written but not checked"),
			)
		} else {
			report.Verify = &verify
			if !verify.OK() {
				r.notify(ctx, notifications.EventVerifyWarning, notifications.Payload{
					"date":     date.Format(time.DateOnly),
					"problems": strings.Join(verify.Problems, "; "),
				})
			}
		}
	}

	stage = "publish"
	report.Published, err = r.Publish(ctx, date)
	if err != nil {
		return report, err
	}
	if report.Published != nil {
		r.notify(ctx, notifications.EventReelPublished, notifications.Payload{
			"date":     date.Format(time.DateOnly),
			"location": report.Published.Location,
		})
	}

	report.Elapsed = r.now().Sub(start)
	logger.Info("reel run completed",
		logging.Event("run_complete"),
		logging.String("output", report.Video.OutputPath),
		logging.Int("frames", report.Video.Frames),
		logging.Duration("elapsed", report.Elapsed),
	)
	r.notify(ctx, notifications.EventReelCompleted, notifications.Payload{
		"date":     date.Format("02 January 2006"),
		"frames":   report.Video.Frames,
		"duration": report.Video.Duration.String(),
		"path":     report.Video.OutputPath,
	})

	report.Pruned = logging.PruneRunFiles(r.logger, r.now(), r.cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: r.cfg.Paths.LogDir, Prefix: logging.LogFilePrefix, KeepNewest: 1},
		logging.RetentionTarget{Dir: r.cfg.Paths.DataDir, Prefix: artifacts.ContentPrefix},
		logging.RetentionTarget{Dir: r.cfg.Paths.DataDir, Prefix: artifacts.TextPrefix, KeepNewest: 1},
	)
	return report, nil
}

func (r *Runner) acquireLines(ctx context.Context, opts GenerateOptions, date time.Time, report *Report) ([]string, error) {
	if opts.LinesPath != "" {
		lines, err := artifacts.ReadLines(opts.LinesPath)
		if err != nil {
			return nil, services.Wrap(services.ErrNotFound, "generate", "read lines", opts.LinesPath, err)
		}
		return lines, nil
	}
	fetched, err := r.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}
	report.Fetch = &fetched
	return fetched.Lines, nil
}

func (r *Runner) reportFailure(ctx context.Context, stage string, err error) {
	logging.ErrorWithContext(logging.WithContext(ctx, r.logger), "reel run failed", "run_failed",
		logging.String(logging.FieldStage, stage),
		logging.Error(err),
		logging.Int("exit_code", services.ExitCode(err)),
	)
	r.notify(ctx, notifications.EventError, notifications.Payload{
		"context": stage,
		"error":   err,
	})
}

func (r *Runner) notify(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if err := r.notifier.Publish(ctx, event, payload); err != nil {
		logging.WithContext(ctx, r.logger).Warn("notification failed",
			logging.String("event", string(event)),
			logging.Error(err),
		)
	}
}

func sourceLabel(opts GenerateOptions) string {
	if opts.LinesPath != "" {
		return fmt.Sprintf("file %s", opts.LinesPath)
	}
	return "almanac api"
}
