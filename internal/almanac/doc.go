// Package almanac fetches the daily panchang from the Prokerala astrology API
// and formats it into reel text.
//
// Client obtains a bearer token with the OAuth2 client credentials grant and
// calls the panchang, auspicious-period and inauspicious-period endpoints for
// one moment. HTTP 429, 402 and 401 responses map to ErrRateLimited,
// ErrQuotaExceeded and ErrUnauthorized. Lines turns the resulting Day into
// the line list the partitioner splits across the two panels.
package almanac
