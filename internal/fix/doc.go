// Package fix decides, per attachment, whether the title and alt text need
// replacing and applies the decisions.
//
// The engine is a strictly sequential per-record reducer: it pages candidate
// ids from the library, filters by date and MIME type, resolves replacement
// values by precedence (mapping override, then parent-derived title, then
// humanized filename, then the configured fallback), and either logs the
// decisions (dry run) or persists them. Dry run and execute compute identical
// decisions; only persistence differs.
//
// Counter contract: in dry-run mode the summary counts would-be updates; in
// execute mode an update is counted only after the store confirms the write.
// A rejected write is logged and the run continues with the next record.
package fix
