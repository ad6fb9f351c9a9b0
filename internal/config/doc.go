// Package config loads, validates, and normalizes the retitle configuration
// file.
//
// Configuration lives in a TOML file (default ~/.config/retitle/config.toml,
// with ./retitle.toml as a project-local fallback). Missing files are not an
// error; defaults apply. Paths are expanded and made absolute during
// normalization so the rest of the program never handles "~" or relative
// segments.
package config
