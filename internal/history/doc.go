// Package history persists a record of every recording session in SQLite.
//
// The recorder itself never touches the store; the CLI opens it, records a
// session when recording starts, and completes the row once the encode worker
// has finished and any audio remux has run. Rows capture resolution, codec,
// frame counts, the terminal status (completed, partial, failed) and the
// error message, so operators can see which sessions produced shorter than
// expected output.
package history
