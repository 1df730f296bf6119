// package tasks implements long-running library operations.
//
// The core abstraction is LibraryEngine, which snapshots a user's reading data
// (profile, ratings, reading list, recommendations) from the API and exports it
// to disk. Operations emit progress updates via channels for non-blocking
// status reporting to the CLI layer.
package tasks
