// Command retitle audits a content library's media attachments and repairs
// low-quality titles and alt text.
//
// The fix subcommand is a dry run by default; pass --execute to persist its
// decisions. audit prints a read-only report, import seeds the library
// database from a JSON dump, and config manages the TOML configuration file.
package main
