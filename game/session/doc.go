// Package session provides session management for the tile merge game.
//
// The session package implements:
//   - Thread-safe in-memory session storage
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session owns its own game engine, started on creation, plus metadata
// like creation time and last access time.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters drawn from crypto/rand; a colliding ID
// is redrawn. Lookups are case-insensitive.
//
// Sessions live only as long as the process. Nothing is written to disk.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
