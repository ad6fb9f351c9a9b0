package fix

// Summary accumulates run counters. It is owned by a single engine
// invocation and returned, not shared, at completion.
type Summary struct {
	// Scanned counts every candidate id pulled, including records that were
	// filtered out, missing, or skipped.
	Scanned int
	// UpdatedTitles counts title repairs (confirmed in execute mode,
	// would-be in dry run).
	UpdatedTitles int
	// UpdatedAlts counts alt-text repairs under the same contract.
	UpdatedAlts int
	// SkippedNoParent counts weird-titled orphans no parent could be found
	// for; such records receive no writes at all in the run.
	SkippedNoParent int
	// SkippedOK counts records whose title needed no repair.
	SkippedOK int
}
