// Package artifacts keeps a record of each run in the data directory: the
// fetched almanac as JSON and the exact reel text that was rendered. Text
// files double as input for re-rendering a reel without calling the API.
package artifacts
