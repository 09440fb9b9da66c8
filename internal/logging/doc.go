// Package logging assembles structured slog loggers and formatting helpers used
// across panchangreel.
//
// Console output puts the component, stage and reel date in each header line
// and lists the remaining fields below it. JSON output is meant for log
// shippers: timestamps carry the reel timezone offset, durations are seconds
// and errors expand into their failure kind and exit code. Context helpers
// tag lines with the reel date, stage and correlation ID, and PruneRunFiles
// applies the retention policy to daily logs and almanac artifacts.
package logging
