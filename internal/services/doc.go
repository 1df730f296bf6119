// Package services defines the Service interface for the remote BookMind API
// and its HTTP+JSON implementation.
//
// The API owns all durable product state (users, ratings, recommendations, the
// follow graph); the client only ever observes it through these operations. The
// [Service] interface mirrors the API's logical contract so that controllers and
// the TUI can be exercised against a test double, while [BookMindService] does
// the actual transport: bearer-token auth after login, request rate limiting via
// golang.org/x/time, and mapping of transport failures onto the shared error
// taxonomy.
package services
