package response

// ScanResult is the JSON body for a completed scan. ElapsedTime is in
// seconds; the scan page's script formats it to two decimals.
type ScanResult struct {
	Success        bool    `json:"success"`
	ProcessedCount int     `json:"processed_count"`
	SkippedCount   int     `json:"skipped_count"`
	FailedCount    int     `json:"failed_count"`
	ElapsedTime    float64 `json:"elapsed_time"`
}

type Error struct {
	Error string `json:"error"`
}
