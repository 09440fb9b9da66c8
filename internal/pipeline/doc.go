// Package pipeline runs the daily reel end to end.
//
// Runner exposes each stage on its own (Fetch, Render, Compose, Verify,
// Publish) for the CLI subcommands, and Generate chains them behind a file
// lock so a cron job and a manual run cannot write the same outputs at once.
// Every run gets a correlation id that is stamped on its log lines and
// failures are pushed to the notifier before being returned.
package pipeline
