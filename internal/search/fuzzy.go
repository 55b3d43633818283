package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/spatail/vbdplayer/internal/config"
	"github.com/spatail/vbdplayer/pkg/types"
)

type Engine struct {
	fuzzy bool
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{fuzzy: cfg.Search.Fuzzy}
}

type scoredItem struct {
	item  types.MediaItem
	score float64
}

// Filter returns the items whose display name matches query, best matches
// first. Items with equal scores keep their original order. An empty query
// returns every item. With fuzzy matching off only substrings match.
func (e *Engine) Filter(items []types.MediaItem, query string) []types.MediaItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]types.MediaItem(nil), items...)
	}

	queryLower := strings.ToLower(query)
	var scored []scoredItem

	for _, item := range items {
		name := strings.ToLower(item.DisplayName)
		score := 0.0

		if strings.Contains(name, queryLower) {
			score += 10.0
			if strings.HasPrefix(name, queryLower) {
				score += 2.0
			}
		}

		if e.fuzzy {
			if fuzzy.MatchFold(query, item.DisplayName) {
				score += 3.0
			}

			distance := fuzzy.LevenshteinDistance(queryLower, name)
			if distance <= len(queryLower)/2 {
				score += float64(len(queryLower) - distance)
			}
		}

		if score > 0 {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	result := make([]types.MediaItem, 0, len(scored))
	for _, s := range scored {
		result = append(result, s.item)
	}
	return result
}
