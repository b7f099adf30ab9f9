package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterControllers narrows the current rows to titles that fuzzy-match query,
// closest match first. An empty query returns controllers unchanged.
func FilterControllers(controllers []*CellController, query string) []*CellController {
	query = strings.TrimSpace(query)
	if query == "" {
		return controllers
	}

	titles := make([]string, len(controllers))
	for i, c := range controllers {
		titles[i] = c.Model.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	filtered := make([]*CellController, 0, len(ranks))
	for _, r := range ranks {
		filtered = append(filtered, controllers[r.OriginalIndex])
	}
	return filtered
}
