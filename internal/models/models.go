// Package models defines the data structures exchanged with the Jikan and
// AniList APIs and the records served to clients.
package models

// SeasonResponse is the Jikan seasonal listing envelope.
type SeasonResponse struct {
	Data       []Anime    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination is the cursor returned alongside every listing page.
type Pagination struct {
	LastVisiblePage int             `json:"last_visible_page"`
	HasNextPage     bool            `json:"has_next_page"`
	CurrentPage     int             `json:"current_page"`
	Items           PaginationItems `json:"items"`
}

type PaginationItems struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// Anime is one title record as returned by Jikan. Records are immutable once
// fetched; enrichment copies the record and fills Streaming.
type Anime struct {
	MalID        int             `json:"mal_id"`
	URL          string          `json:"url"`
	Title        string          `json:"title"`
	TitleEnglish string          `json:"title_english,omitempty"`
	Type         string          `json:"type"`
	Episodes     int             `json:"episodes,omitempty"`
	Status       string          `json:"status"`
	Synopsis     string          `json:"synopsis"`
	Season       string          `json:"season,omitempty"`
	Year         int             `json:"year,omitempty"`
	Aired        Aired           `json:"aired"`
	Broadcast    Broadcast       `json:"broadcast"`
	Images       Images          `json:"images"`
	Trailer      Trailer         `json:"trailer"`
	Studios      []Studio        `json:"studios"`
	Streaming    []StreamingLink `json:"streaming,omitempty"`
}

// Status values used by Jikan.
const (
	StatusAiring      = "Currently Airing"
	StatusFinished    = "Finished Airing"
	StatusNotYetAired = "Not yet aired"
)

// Aired carries the nullable broadcast window plus its structured breakdown.
type Aired struct {
	From *string   `json:"from"`
	To   *string   `json:"to"`
	Prop AiredProp `json:"prop"`
}

type AiredProp struct {
	From DateParts `json:"from"`
	To   DateParts `json:"to"`
}

// DateParts is Jikan's structured date; zero fields mean unknown. Upstream
// uses month=1, day=1 as a placeholder for "date not announced".
type DateParts struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// IsPlaceholder reports whether the date is the upstream Jan-1 placeholder.
func (d DateParts) IsPlaceholder() bool {
	return d.Month == 1 && d.Day == 1
}

type Broadcast struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
}

type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

type ImageSet struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

type Trailer struct {
	YoutubeID string `json:"youtube_id"`
	URL       string `json:"url"`
	EmbedURL  string `json:"embed_url"`
}

type Studio struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// APIError is the Jikan error envelope returned on 4xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StreamingLink is one streaming availability entry attached to a title.
type StreamingLink struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Language string `json:"language"`
}

// StreamingResult is the per-title output of the reconciliation engine.
// Streaming is empty, never nil, when no provider matched.
type StreamingResult struct {
	Episodes  int             `json:"episodes,omitempty"`
	Streaming []StreamingLink `json:"streaming"`
}
