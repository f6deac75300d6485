package constants

// StreamingProviders maps the allowed streaming providers to the AniList
// external-link types accepted for each. A link counts only when its site
// name contains the provider name (case-insensitive) and its type is listed
// here.
var StreamingProviders = map[string][]string{
	"Crunchyroll": {"STREAMING", "WATCH"},
	"Netflix":     {"STREAMING"},
	"ADN":         {"STREAMING"},
	"Wakanim":     {"STREAMING"},
	"Disney Plus": {"STREAMING"},
	"Prime Video": {"STREAMING"},
	"Hidive":      {"STREAMING"},
}
