package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"panchangreel/internal/config"
	"panchangreel/internal/logging"
	"panchangreel/internal/services"
)

func TestNewFromConfigWritesDailyLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("reel started")

	content, err := os.ReadFile(logging.CurrentLogPath(cfg.Paths.LogDir, time.Now()))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "reel started") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "compose").Info("message without caller", logging.Int("frames", 780))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if strings.Contains(text, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", text)
	}
	if !strings.Contains(text, "[compose]") {
		t.Fatalf("expected component label, got %q", text)
	}
	if !strings.Contains(text, "    - Frames: 780") {
		t.Fatalf("expected indented field, got %q", text)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}, ErrorOutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["msg"] != "json message" || entry["level"] != "info" || entry["k"] != "v" {
		t.Fatalf("unexpected json entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestJSONLoggerReelValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	ist := time.FixedZone("IST", 5*3600+1800)
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}, Location: ist})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	failure := services.Wrap(services.ErrWriterOpen, "compose", "open writer", "", errors.New("exit status 1"))
	logger.Error("reel failed",
		logging.Date("date", time.Date(2025, time.July, 6, 18, 30, 0, 0, time.UTC)),
		logging.Duration("elapsed", 1500*time.Millisecond),
		logging.Lines("panel2_text", []string{"Tithi: Ekadashi"}),
		logging.Error(failure),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if ts, _ := entry["ts"].(string); !strings.HasSuffix(ts, "+05:30") {
		t.Fatalf("expected timestamp in the reel zone, got %v", entry["ts"])
	}
	if entry["date"] != "2025-07-06" {
		t.Fatalf("expected calendar date, got %v", entry["date"])
	}
	if entry["elapsed_s"] != 1.5 {
		t.Fatalf("expected elapsed seconds, got %v", entry)
	}
	if lines, _ := entry["panel2_text"].([]any); len(lines) != 1 || lines[0] != "Tithi: Ekadashi" {
		t.Fatalf("expected panel text array, got %v", entry["panel2_text"])
	}
	errField, ok := entry["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error group, got %v", entry["error"])
	}
	if errField["kind"] != "video writer error" || errField["exit_code"] != float64(4) {
		t.Fatalf("unexpected error group %v", errField)
	}
	if msg, _ := errField["message"].(string); !strings.Contains(msg, "exit status 1") {
		t.Fatalf("expected wrapped message, got %v", errField["message"])
	}
}

func TestConsoleLoggerFormatsReelValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}, Location: time.UTC})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("panels rendered",
		logging.Date("date", time.Date(2025, time.July, 6, 9, 0, 0, 0, time.UTC)),
		logging.Lines("panel2_text", []string{"Tithi: Ekadashi", "   Shukla Paksha"}),
		logging.Duration("elapsed", 1234567*time.Microsecond),
		logging.Bool("shadow", true),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, fragment := range []string{
		"    - Date: 2025-07-06\n",
		`    - Panel2 text: "Tithi: Ekadashi" / "   Shukla Paksha"`,
		"    - Elapsed: 1.235s",
		"    - Shadow: yes",
	} {
		if !strings.Contains(string(content), fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithReelDate(ctx, "2025-07-06")
	ctx = services.WithStage(ctx, "compose")
	ctx = services.WithRequestID(ctx, "req-xyz")

	fields := logging.ContextFields(ctx)
	want := map[string]string{
		logging.FieldReelDate:      "2025-07-06",
		logging.FieldStage:         "compose",
		logging.FieldCorrelationID: "req-xyz",
	}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %v", len(want), fields)
	}
	for _, f := range fields {
		if want[f.Key] != f.Value.String() {
			t.Fatalf("field %s = %q, want %q", f.Key, f.Value.String(), want[f.Key])
		}
	}

	var buf bytes.Buffer
	logging.WithContext(ctx, slog.New(slog.NewTextHandler(&buf, nil))).Info("contextual log")
	if !strings.Contains(buf.String(), "correlation_id=req-xyz") {
		t.Fatalf("expected correlation id on logger, got %q", buf.String())
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logging.WarnWithContext(logger, "video verification skipped", "verify_skipped")
	out := buf.String()
	for _, fragment := range []string{"event_type=verify_skipped", "error_hint=", "impact="} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
}

func TestPruneRunFilesUsesNameDates(t *testing.T) {
	logDir := t.TempDir()
	dataDir := t.TempDir()
	files := map[string]string{
		"oldLog":     filepath.Join(logDir, "panchangreel-20200101.log"),
		"newLog":     filepath.Join(logDir, "panchangreel-20990101.log"),
		"undated":    filepath.Join(logDir, "panchangreel-latest.log"),
		"oldText":    filepath.Join(dataDir, "reel_text_20200101_060000.txt"),
		"newestText": filepath.Join(dataDir, "reel_text_20200102_060000.txt"),
		"other":      filepath.Join(dataDir, "notes_20200101.txt"),
	}
	for _, path := range files {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	old := time.Now().AddDate(0, 0, -40)
	if err := os.Chtimes(files["undated"], old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed := logging.PruneRunFiles(logging.NewNop(), time.Now(), 30,
		logging.RetentionTarget{Dir: logDir, Prefix: "panchangreel-"},
		logging.RetentionTarget{Dir: dataDir, Prefix: "reel_text_", KeepNewest: 1},
	)
	if len(removed) != 3 {
		t.Fatalf("expected 3 files pruned, got %v", removed)
	}
	for _, key := range []string{"oldLog", "undated", "oldText"} {
		if _, err := os.Stat(files[key]); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, stat err=%v", key, err)
		}
	}
	for _, key := range []string{"newLog", "newestText", "other"} {
		if _, err := os.Stat(files[key]); err != nil {
			t.Fatalf("expected %s kept: %v", key, err)
		}
	}

	if got := logging.PruneRunFiles(logging.NewNop(), time.Now(), 0, logging.RetentionTarget{Dir: logDir, Prefix: "panchangreel-"}); got != nil {
		t.Fatalf("expected retention 0 to disable pruning, got %v", got)
	}
}

func TestConsoleHeaderCarriesReelDate(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithStage(services.WithReelDate(context.Background(), "2025-07-06"), "render")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline")).Info("panels rendered")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "INFO [pipeline] render 2025-07-06 – panels rendered") {
		t.Fatalf("unexpected header %q", text)
	}
	if strings.Contains(text, "Reel date:") {
		t.Fatalf("expected reel date only in the header, got %q", text)
	}
}
