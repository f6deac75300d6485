package services

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/amaumene/goanimefr/internal/cache"
	"github.com/amaumene/goanimefr/internal/constants"
	"github.com/amaumene/goanimefr/internal/database"
	"github.com/amaumene/goanimefr/internal/models"
	"github.com/amaumene/goanimefr/internal/season"
	"github.com/amaumene/goanimefr/pkg/logger"
)

var (
	parenthetical  = regexp.MustCompile(`\([^)]*\)`)
	seasonSuffix   = regexp.MustCompile(`(?i)Season \d+`)
	partSuffix     = regexp.MustCompile(`(?i)Part \d+`)
	subtitleSuffix = regexp.MustCompile(`:.*$`)
	nonAlnum       = regexp.MustCompile(`[^a-z0-9]`)
)

// CleanTitle strips parenthetical annotations, "Season N"/"Part N" suffixes
// and any trailing colon-delimited subtitle before searching.
func CleanTitle(title string) string {
	cleaned := parenthetical.ReplaceAllString(title, "")
	cleaned = seasonSuffix.ReplaceAllString(cleaned, "")
	cleaned = partSuffix.ReplaceAllString(cleaned, "")
	cleaned = subtitleSuffix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// Normalize lowercases a title and strips everything but a-z and 0-9, so
// comparisons ignore case and punctuation.
func Normalize(title string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(title), "")
}

// Matches verifies that the media candidate really is the requested title:
// the normalized original must equal the English title, the romaji title or
// one of the synonyms, be a substring of the romaji title, or contain the
// English title. Guards against the search engine returning an unrelated
// show. The two substring rules trade precision for recall on short titles.
func Matches(original string, media *models.AniListMedia) bool {
	orig := Normalize(original)
	if orig == "" {
		return false
	}

	eng := Normalize(media.Title.English)
	rom := Normalize(media.Title.Romaji)

	if eng != "" && orig == eng {
		return true
	}
	if rom != "" && orig == rom {
		return true
	}
	for _, syn := range media.Synonyms {
		if Normalize(syn) == orig {
			return true
		}
	}
	if rom != "" && strings.Contains(rom, orig) {
		return true
	}
	if eng != "" && strings.Contains(orig, eng) {
		return true
	}

	return false
}

// Reconciler matches seasonal titles against AniList and attaches streaming
// availability. Per-title results are cached in memory and in bbolt with a
// TTL chosen by the temporal policy.
type Reconciler struct {
	anilist    *AniList
	cache      *cache.LRUCache
	db         database.Database
	logger     logger.Logger
	batchSize  int
	batchDelay time.Duration
	language   string
	sleep      func(time.Duration)
	now        func() time.Time
}

// NewReconciler creates a Reconciler. language filters streaming links to
// the given locale; empty keeps every language.
func NewReconciler(anilist *AniList, c *cache.LRUCache, db database.Database, log logger.Logger, batchSize int, batchDelay time.Duration, language string) *Reconciler {
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchSize
	}
	return &Reconciler{
		anilist:    anilist,
		cache:      c,
		db:         db,
		logger:     log,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		language:   language,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// SetSleep replaces the inter-batch delay function, for tests.
func (r *Reconciler) SetSleep(sleep func(time.Duration)) {
	r.sleep = sleep
}

// SetClock replaces the time source used by the TTL policy, for tests.
func (r *Reconciler) SetClock(now func() time.Time) {
	r.now = now
}

// EnrichTitles resolves streaming availability for every title. Lookups
// inside a batch run in parallel; batches run sequentially with the
// inter-batch delay in between to stay under upstream rate limits. A failed
// title degrades to an empty streaming list and never aborts the batch.
func (r *Reconciler) EnrichTitles(titles []string, s season.Season, year int) map[string]models.StreamingResult {
	results := make(map[string]models.StreamingResult, len(titles))
	var mu sync.Mutex

	ttl := season.TTLFor(s, year, r.now())

	for start := 0; start < len(titles); start += r.batchSize {
		end := start + r.batchSize
		if end > len(titles) {
			end = len(titles)
		}
		batch := titles[start:end]

		p := pool.New().WithMaxGoroutines(len(batch))
		for _, title := range batch {
			title := title
			p.Go(func() {
				res := r.enrichOne(title, ttl)
				mu.Lock()
				results[title] = res
				mu.Unlock()
			})
		}
		p.Wait()

		if end < len(titles) {
			r.sleep(r.batchDelay)
		}
	}

	return results
}

func (r *Reconciler) enrichOne(title string, ttl time.Duration) models.StreamingResult {
	empty := models.StreamingResult{Streaming: []models.StreamingLink{}}

	key := "streaming:" + title
	if v, found := r.cache.Get(key); found {
		return v.(models.StreamingResult)
	}

	if r.db != nil {
		if rec, err := r.db.GetStreaming(title); err == nil && rec != nil {
			res := models.StreamingResult{Episodes: rec.Episodes, Streaming: rec.Streaming}
			if res.Streaming == nil {
				res.Streaming = []models.StreamingLink{}
			}
			r.cache.SetWithTTL(key, res, ttl)
			return res
		}
	}

	media, err := r.anilist.Search(CleanTitle(title))
	if err != nil {
		// transient failure: degrade without caching so a later pass can retry
		r.logger.Warnf("[Reconciler] lookup failed for %q: %v", title, err)
		return empty
	}
	if media == nil || !Matches(title, media) {
		// expected data-quality miss, remembered like any other result
		r.logger.Debugf("[Reconciler] no match for %q", title)
		r.store(title, empty, ttl)
		return empty
	}

	res := models.StreamingResult{
		Episodes:  media.Episodes,
		Streaming: r.filterLinks(media),
	}
	r.store(title, res, ttl)

	return res
}

func (r *Reconciler) store(title string, res models.StreamingResult, ttl time.Duration) {
	r.cache.SetWithTTL("streaming:"+title, res, ttl)

	if r.db != nil {
		rec := &database.StreamingRecord{
			Title:     title,
			Episodes:  res.Episodes,
			Streaming: res.Streaming,
			TTL:       ttl,
			CachedAt:  r.now(),
		}
		if err := r.db.StoreStreaming(rec); err != nil {
			r.logger.Errorf("[Reconciler] failed to persist result for %q: %v", title, err)
		}
	}
}

// filterLinks keeps external links from allow-listed providers with an
// accepted link type, then folds in streaming episodes whose provider is
// not already represented.
func (r *Reconciler) filterLinks(media *models.AniListMedia) []models.StreamingLink {
	links := make([]models.StreamingLink, 0, len(media.ExternalLinks))

	for _, link := range media.ExternalLinks {
		types, ok := providerTypes(link.Site)
		if !ok || !containsType(types, link.Type) {
			continue
		}
		if !r.languageOK(link.Language) {
			continue
		}

		lang := link.Language
		if lang == "" {
			lang = "global"
		}
		links = append(links, models.StreamingLink{Name: link.Site, URL: link.URL, Language: lang})
	}

	for _, ep := range media.StreamingEpisodes {
		if _, ok := providerTypes(ep.Site); !ok {
			continue
		}
		if hasProvider(links, ep.Site) {
			continue
		}
		links = append(links, models.StreamingLink{Name: ep.Site, URL: ep.URL, Language: "global"})
	}

	return links
}

// providerTypes finds the allow-list entry whose name the site contains and
// returns its accepted link types.
func providerTypes(site string) ([]string, bool) {
	lowered := strings.ToLower(site)
	for name, types := range constants.StreamingProviders {
		if strings.Contains(lowered, strings.ToLower(name)) {
			return types, true
		}
	}
	return nil, false
}

func containsType(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func hasProvider(links []models.StreamingLink, site string) bool {
	for _, link := range links {
		if strings.EqualFold(link.Name, site) {
			return true
		}
	}
	return false
}

// languageOK applies the locale filter; links without a language are
// globally applicable.
func (r *Reconciler) languageOK(lang string) bool {
	if r.language == "" || lang == "" {
		return true
	}
	return strings.EqualFold(lang, r.language)
}
