// Package parentfind discovers the content record that contains an orphaned
// attachment.
//
// Discovery is an ordered two-step fallback over one search primitive: first
// the embed token carrying the attachment id (authoritative), then the
// attachment's filename base (suggestive, the same filename can appear
// elsewhere). The first non-empty result wins; no result is a normal outcome,
// not an error.
package parentfind
