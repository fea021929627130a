// Package worldbank fetches macro-fiscal indicators from the World
// Bank and IMF open data APIs, with rate limiting, retries, and a
// local CSV cache.
package worldbank
