// Package titlecheck classifies attachment text as placeholder-like or
// acceptable, and derives human-readable titles from filenames. Pure
// functions, no I/O.
package titlecheck
