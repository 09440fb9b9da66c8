// Package publish uploads finished reels to S3 or an S3-compatible store.
//
// Objects are keyed as <prefix>/<YYYY-MM-DD>/<file name>, so republishing a
// date replaces that day's objects and nothing else.
package publish
