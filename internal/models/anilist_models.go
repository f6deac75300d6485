package models

// GraphQLRequest is the request body sent to the AniList API.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// AniListResponse is the GraphQL envelope returned by AniList.
type AniListResponse struct {
	Data   *AniListData   `json:"data"`
	Errors []AniListError `json:"errors,omitempty"`
}

type AniListData struct {
	Media *AniListMedia `json:"Media"`
}

type AniListError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// AniListMedia is the best-guess title record returned for a search query.
type AniListMedia struct {
	ID                int                `json:"id"`
	Episodes          int                `json:"episodes"`
	Title             AniListTitle       `json:"title"`
	Synonyms          []string           `json:"synonyms"`
	ExternalLinks     []ExternalLink     `json:"externalLinks"`
	StreamingEpisodes []StreamingEpisode `json:"streamingEpisodes"`
}

type AniListTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// ExternalLink is an AniList external site reference; Type distinguishes
// streaming links from info pages and social links.
type ExternalLink struct {
	Site     string `json:"site"`
	URL      string `json:"url"`
	Language string `json:"language"`
	Type     string `json:"type"`
}

// StreamingEpisode is one per-episode streaming entry on AniList.
type StreamingEpisode struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Site  string `json:"site"`
}
