// Package pagination implements the client-facing accumulation state
// machine: it loads listing pages on demand, filters them to relevant TV
// titles, enriches them with streaming availability and exposes a
// monotonic, deduplicated list.
package pagination

import (
	"sync"
	"time"

	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/internal/season"
	"github.com/amaumene/goanimefr/internal/services"
	"github.com/amaumene/goanimefr/pkg/logger"
)

// Paginator accumulates deduplicated title records across load-more calls.
// A generation counter guards against superseded loads: changing the
// season/year selection invalidates every in-flight response.
type Paginator struct {
	mu       sync.Mutex
	source   services.SeasonSource
	enricher services.Enricher
	logger   logger.Logger

	season     season.Season
	year       int
	list       []models.Anime
	seen       map[int]struct{}
	cursor     models.Pagination
	loading    bool
	generation uint64
}

// New creates a Paginator. enricher may be nil to skip streaming enrichment.
func New(source services.SeasonSource, enricher services.Enricher, log logger.Logger) *Paginator {
	return &Paginator{
		source:   source,
		enricher: enricher,
		logger:   log,
		seen:     make(map[int]struct{}),
	}
}

// LoadFirstPage resets the accumulated state and loads page 1 for the new
// selection. On failure the list is cleared and the error returned.
func (p *Paginator) LoadFirstPage(s season.Season, year int) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.season = s
	p.year = year
	p.loading = true
	p.mu.Unlock()

	resp, err := p.source.GetSeason(s, year, 1)

	var records []models.Anime
	if err == nil {
		records = p.enrich(filterRelevant(resp.Data, s, year), s, year)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		// selection changed while the fetch was in flight
		p.logger.Debugf("[Paginator] discarding stale page 1 for %s %d", s, year)
		return nil
	}
	p.loading = false

	if err != nil {
		p.list = nil
		p.seen = make(map[int]struct{})
		p.cursor = models.Pagination{}
		return err
	}

	p.seen = make(map[int]struct{})
	p.list = nil
	p.appendDeduped(records)
	p.setCursor(resp.Pagination)

	return nil
}

// LoadMore fetches the next page and appends its records. It is a no-op
// while a load is in flight or when no further pages exist. On failure the
// accumulated list is preserved.
func (p *Paginator) LoadMore() error {
	p.mu.Lock()
	if p.loading || !p.cursor.HasNextPage {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	gen := p.generation
	s, year := p.season, p.year
	page := p.cursor.CurrentPage + 1
	p.mu.Unlock()

	resp, err := p.source.GetSeason(s, year, page)

	var records []models.Anime
	if err == nil {
		records = p.enrich(filterRelevant(resp.Data, s, year), s, year)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debugf("[Paginator] discarding stale page %d for %s %d", page, s, year)
		return nil
	}
	p.loading = false

	if err != nil {
		return err
	}

	p.appendDeduped(records)
	p.setCursor(resp.Pagination)

	return nil
}

// appendDeduped appends records whose identity has not been seen. Records
// without an identity are dropped. Callers hold the mutex.
func (p *Paginator) appendDeduped(records []models.Anime) {
	for _, a := range records {
		if a.MalID == 0 {
			continue
		}
		if _, dup := p.seen[a.MalID]; dup {
			continue
		}
		p.seen[a.MalID] = struct{}{}
		p.list = append(p.list, a)
	}
}

// setCursor stores the upstream cursor, enforcing that has_next_page is
// false once the last visible page is reached. Callers hold the mutex.
func (p *Paginator) setCursor(cursor models.Pagination) {
	if cursor.CurrentPage >= cursor.LastVisiblePage {
		cursor.HasNextPage = false
	}
	p.cursor = cursor
}

// enrich attaches streaming availability to each record, producing new
// records rather than mutating upstream data.
func (p *Paginator) enrich(records []models.Anime, s season.Season, year int) []models.Anime {
	if p.enricher == nil || len(records) == 0 {
		return records
	}

	titles := make([]string, len(records))
	for i, a := range records {
		titles[i] = a.Title
	}

	resolved := p.enricher.EnrichTitles(titles, s, year)

	out := make([]models.Anime, len(records))
	for i, a := range records {
		if res, ok := resolved[a.Title]; ok {
			if res.Episodes > 0 {
				a.Episodes = res.Episodes
			}
			a.Streaming = res.Streaming
		}
		out[i] = a
	}
	return out
}

// List returns a copy of the accumulated records.
func (p *Paginator) List() []models.Anime {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Anime, len(p.list))
	copy(out, p.list)
	return out
}

// Cursor returns the current pagination cursor.
func (p *Paginator) Cursor() models.Pagination {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// HasNextPage reports whether further pages exist.
func (p *Paginator) HasNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor.HasNextPage
}

// Loading reports whether a load is in flight.
func (p *Paginator) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Selection returns the season and year currently loaded.
func (p *Paginator) Selection() (season.Season, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.season, p.year
}

// filterRelevant keeps TV titles relevant to the requested season. The
// upcoming pseudo-season has no target season/year, so only the type filter
// applies.
func filterRelevant(data []models.Anime, s season.Season, year int) []models.Anime {
	out := make([]models.Anime, 0, len(data))
	for _, a := range data {
		if a.Type != "TV" {
			continue
		}
		if s != season.Upcoming && !relevant(a, s, year) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// relevant implements the season-relevance rules: an explicit season+year
// match, or for not-yet-aired titles a structured aired-from date mapping
// to the requested season, or for airing titles without explicit season
// data the same mapping. The upstream Jan-1 placeholder date never counts.
func relevant(a models.Anime, s season.Season, year int) bool {
	if a.Season != "" && a.Year != 0 {
		if a.Season == string(s) && a.Year == year {
			return true
		}
	}

	from := a.Aired.Prop.From
	if from.Month == 0 || from.Year == 0 || from.IsPlaceholder() {
		return false
	}
	matches := from.Year == year && season.FromMonth(time.Month(from.Month)) == s

	switch a.Status {
	case models.StatusNotYetAired:
		return matches
	case models.StatusAiring:
		return a.Season == "" && matches
	}

	return false
}
