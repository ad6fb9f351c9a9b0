// Package logging constructs the application's slog logger.
//
// Two output formats are supported: a compact console format
// (timestamp level message key=value ...) and line-delimited JSON. Output
// goes to stdout and, when a log directory is configured, to a log file as
// well.
package logging
