// Package session houses concrete implementations of core.HistoryStore. The
// interface itself lives in core so request assembly never depends on a
// concrete storage backend.
package session
