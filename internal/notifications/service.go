package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"panchangreel/internal/config"
)

const userAgent = "panchangreel/0.1.0"

// Event names a notification the pipeline can raise.
type Event string

const (
	EventReelCompleted Event = "reel_completed"
	EventReelPublished Event = "reel_published"
	EventVerifyWarning Event = "verify_warning"
	EventError         Event = "error"
	EventTest          Event = "test"
)

// Payload carries the values an event message is built from.
type Payload map[string]any

// Service publishes pipeline events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		completed: cfg.Notifications.Completed,
		errors:    cfg.Notifications.Errors,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	completed bool
	errors    bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled(event) {
		return nil
	}
	msg, ok := buildMessage(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventReelCompleted, EventReelPublished:
		return n.completed
	case EventError, EventVerifyWarning:
		return n.errors
	default:
		return true
	}
}

func buildMessage(event Event, payload Payload) (message, bool) {
	switch event {
	case EventReelCompleted:
		body := fmt.Sprintf("🎬 Reel ready for %s", payload.text("date", "unknown date"))
		if frames := payload.text("frames", ""); frames != "" {
			body += fmt.Sprintf(" (%s frames, %s)", frames, payload.text("duration", "?"))
		}
		if path := payload.text("path", ""); path != "" {
			body += "\nFile: " + path
		}
		return message{
			title: "Panchang Reel - Ready",
			body:  body,
			tags:  []string{"panchangreel", "reel", "completed"},
		}, true
	case EventReelPublished:
		return message{
			title: "Panchang Reel - Published",
			body:  fmt.Sprintf("☁️ Uploaded %s to %s", payload.text("date", "reel"), payload.text("location", "storage")),
			tags:  []string{"panchangreel", "publish"},
		}, true
	case EventVerifyWarning:
		return message{
			title: "Panchang Reel - Check Video",
			body:  fmt.Sprintf("⚠️ %s: %s", payload.text("date", "reel"), payload.text("problems", "verification failed")),
			tags:  []string{"panchangreel", "verify", "warning"},
		}, true
	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if stage := payload.text("context", ""); stage != "" {
			builder.WriteString(" with ")
			builder.WriteString(stage)
		}
		builder.WriteString(": ")
		builder.WriteString(payload.text("error", "unknown"))
		return message{
			title:    "Panchang Reel - Error",
			body:     builder.String(),
			tags:     []string{"panchangreel", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Panchang Reel - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"panchangreel", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) text(key, fallback string) string {
	value, ok := p[key]
	if !ok || value == nil {
		return fallback
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
