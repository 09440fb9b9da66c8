// Package notifications delivers pipeline events to ntfy.
//
// NewService reads the topic from config.toml and degrades to a no-op when
// none is set. Completion and error events can be muted independently through
// the notifications section, so a daily cron job can report only failures.
package notifications
