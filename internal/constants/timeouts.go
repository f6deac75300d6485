// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// HTTP client timeout for upstream API calls
	UpstreamTimeout = 10 * time.Second

	// Timeout for the image proxy pass-through fetch
	ImageProxyTimeout = 15 * time.Second

	// Cache TTL tiers selected by the temporal policy
	NearTermTTL = 1 * time.Hour
	FutureTTL   = 7 * 24 * time.Hour
)
