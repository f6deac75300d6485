// Package constants defines application-wide constants and default values.
package constants

const (
	// Application metadata
	AppName        = "goanimefr"
	AppVersion     = "1.0.0"
	AppDescription = "Seasonal anime catalog with streaming availability from Jikan and AniList"

	// Default configuration values
	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	// Upstream endpoints
	JikanBaseURL  = "https://api.jikan.moe/v4"
	AniListAPIURL = "https://graphql.anilist.co"

	// Cache settings
	DefaultCacheSize = 5000

	// Streaming enrichment batching
	DefaultBatchSize    = 8
	DefaultBatchDelayMs = 300

	// Retry settings for rate-limited upstream calls
	DefaultMaxRetries       = 3
	DefaultRetryBaseDelayMs = 1000

	// Rate limiting (requests per second, burst capacity)
	JikanRateLimit   = 3
	JikanRateBurst   = 3
	AniListRateLimit = 2
	AniListRateBurst = 5

	// Streaming link language filter; empty disables the filter
	DefaultLanguage = "fr"
)

// ImageProxyHosts lists upstream image hosts the proxy is allowed to fetch.
var ImageProxyHosts = []string{
	"cdn.myanimelist.net",
	"img1.ak.crunchyroll.com",
	"s4.anilist.co",
}
