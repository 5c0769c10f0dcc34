package dto

import "time"

// ScanReport summarizes one scan operation.
type ScanReport struct {
	Processed int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}
