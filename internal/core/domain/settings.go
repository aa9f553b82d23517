package domain

import "time"

// ClientSettings configures the backend connection and UI timing.
type ClientSettings struct {
	BackendURL        string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	RequestBurst      int
	UploadResetDelay  time.Duration
	PreviewCacheTTL   time.Duration
	PreviewCacheSize  int
	Profile           string
}

// DefaultClientSettings returns settings with sensible defaults.
// Preview URLs expire after five minutes, so cached entries live for four.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		BackendURL:        "http://localhost:8000",
		RequestTimeout:    30 * time.Second,
		RequestsPerSecond: 10,
		RequestBurst:      5,
		UploadResetDelay:  DefaultUploadResetDelay,
		PreviewCacheTTL:   4 * time.Minute,
		PreviewCacheSize:  128,
		Profile:           DefaultProfile,
	}
}
