// Package upstream checks GitHub for the latest released versions of
// esm-tools components.
//
// The package implements:
//   - A GitHub API client for release and tag lookups
//   - An HTTP client with exponential-backoff retries
//   - A TTL-based on-disk cache for version query results
//   - An HTML fallback parser for unauthenticated, rate-limited use
//   - Per-tool overrides via an optional TOML file
//
// Local state is kept in ~/.config/esm_versions/upstream/ for caching.
// Overrides are read from ~/.config/esm_versions/upstream.toml.
//
// Usage:
//
//	checker, err := upstream.NewChecker()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results := checker.CheckAll(report, false)
package upstream
