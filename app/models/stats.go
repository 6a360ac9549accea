package models

// DailyStats holds the number of attempts on a single day
type DailyStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CompressionTotals aggregates all recorded attempts
type CompressionTotals struct {
	Attempts   int64 `json:"attempts"`
	Successes  int64 `json:"successes"`
	BytesSaved int64 `json:"bytes_saved"`
}
