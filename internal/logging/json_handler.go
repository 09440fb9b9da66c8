package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"panchangreel/internal/services"
)

// newJSONHandler emits one object per line for log shippers. Timestamps use
// loc with an explicit offset, durations become fractional seconds under a
// "_s" key, reel dates drop their time of day, and errors expand into a group
// carrying the failure kind and the exit code the CLI would report.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool, loc *time.Location) slog.Handler {
	loc = zoneOrLocal(loc)
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch attr.Key {
				case slog.TimeKey:
					attr.Key = "ts"
					if attr.Value.Kind() == slog.KindTime {
						attr.Value = slog.StringValue(attr.Value.Time().In(loc).Format(time.RFC3339))
					}
					return attr
				case slog.LevelKey:
					attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
					return attr
				case slog.MessageKey:
					return attr
				case slog.SourceKey:
					if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
						attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
					}
					return attr
				}
			}
			return reelJSONAttr(attr)
		},
	}
	return slog.NewJSONHandler(w, &opts)
}

func reelJSONAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindDuration:
		d := attr.Value.Duration().Round(time.Millisecond)
		return slog.Float64(attr.Key+"_s", d.Seconds())
	case slog.KindTime:
		if ts := attr.Value.Time(); isCalendarDate(ts) {
			return slog.String(attr.Key, ts.Format(reelDateLayout))
		}
	case slog.KindAny:
		if err, ok := attr.Value.Any().(error); ok {
			fields := []slog.Attr{slog.String("message", err.Error())}
			if kind := services.Kind(err); kind != "" {
				fields = append(fields,
					slog.String("kind", kind),
					slog.Int("exit_code", services.ExitCode(err)),
				)
			}
			return slog.Attr{Key: attr.Key, Value: slog.GroupValue(fields...)}
		}
	}
	return attr
}
