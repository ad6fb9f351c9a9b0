// Package library persists the content library retitle audits: media
// attachments, the content records that may contain them, and category
// memberships.
//
// The Store wraps a SQLite database with an embedded schema and a version
// guard. Attachment reads and writes are deliberately narrow: title updates
// always re-assert the slug that was read so a repair can never move a
// record's public address, and alt-text updates touch nothing else.
//
// Content search exists for parent discovery only: newest-first substring
// search over post/page bodies in visible or pending statuses, returning at
// most one hit.
package library
