package main

import "time"

// Defaults for CLI commands.
const (
	// MinReconcileInterval bounds "reconcile --every" from below.
	MinReconcileInterval = time.Second
	// CheckDebounce delays "check --watch" reruns after the last file event.
	CheckDebounce = 500 * time.Millisecond
	// DateFormat is used when printing timestamps.
	DateFormat = "2006-01-02 15:04:05"
)
