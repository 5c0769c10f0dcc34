package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScanStatus string

const (
	ScanRunning  ScanStatus = "running"
	ScanFinished ScanStatus = "finished"
	ScanFailed   ScanStatus = "failed"
)

// ScanRun records one pass over a directory.
type ScanRun struct {
	ID        uuid.UUID  `json:"id"`
	Directory string     `json:"directory"`
	Status    ScanStatus `json:"status"`

	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
