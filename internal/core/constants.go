package core

import "time"

// Selection and polling defaults, matching the original extension behavior.
const (
	// DefaultMaxTabs bounds how many unread bookmarks one action click opens.
	DefaultMaxTabs = 10
	// DefaultPollInterval is the cadence of the background sync check.
	DefaultPollInterval = 5 * time.Minute
)

// Link-check defaults for the doctor workflow
const (
	DefaultDoctorConcurrency = 4
	DefaultDoctorTimeout     = 15 * time.Second
	// MaxPageSample bounds how much of a page body is read for title extraction.
	MaxPageSample = 512 * 1024
)

// HTTP client configuration
const (
	UserAgent = "Mozilla/5.0 (compatible; pinwatch/1.0)"
)
