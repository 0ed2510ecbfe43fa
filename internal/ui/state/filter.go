package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/kafka2i/internal/menu"
)

// SetFilter narrows the pane to entries matching query and highlights the
// closest one. Clearing the filter highlights the entry that was highlighted
// when filtering began, if a refresh has not removed it meanwhile.
func (l *Level) SetFilter(query string) {
	was := strings.TrimSpace(l.Filter)
	now := strings.TrimSpace(query)
	if was == "" && now != "" {
		l.restoreID = l.CurrentID()
	}
	l.Filter = query
	l.applyFilter()
	switch {
	case now != "":
		l.Cursor = BestMatchIndex(l.Items, now)
		l.ViewportOffset = 0
	case was != "":
		if idx := l.IndexOf(l.restoreID); idx >= 0 {
			l.Cursor = idx
		}
		l.restoreID = ""
	}
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = -1
		l.ViewportOffset = 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), len(l.Items)-1)
	if l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// FilterItems keeps the entries whose label or ID contains the query's
// characters in order, ignoring case and diacritics. List order is kept.
func FilterItems(items []menu.Item, query string) []menu.Item {
	q := strings.TrimSpace(query)
	if q == "" {
		return cloneItems(items)
	}
	out := make([]menu.Item, 0, len(items))
	for _, item := range items {
		if matchScore(item, q) >= 0 {
			out = append(out, item)
		}
	}
	return out
}

// BestMatchIndex returns the index of the entry that answers query best:
// an exact label or ID, then a label prefix, then the smallest fuzzy
// distance. Ties go to the earlier entry; no match at all yields 0.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	q := strings.TrimSpace(query)
	best, bestScore := 0, -1
	for i, item := range items {
		score := matchScore(item, q)
		if score >= 0 && (bestScore < 0 || score < bestScore) {
			best, bestScore = i, score
		}
	}
	return best
}

// matchScore is 0 for an exact match, 1 for a label prefix, 2 plus the
// fuzzy distance otherwise, and -1 when item does not match.
func matchScore(item menu.Item, q string) int {
	if q == "" {
		return 0
	}
	switch {
	case strings.EqualFold(item.Label, q), strings.EqualFold(item.ID, q):
		return 0
	case strings.HasPrefix(strings.ToLower(item.Label), strings.ToLower(q)):
		return 1
	}
	if d := fuzzy.RankMatchNormalizedFold(q, item.Label); d >= 0 {
		return 2 + d
	}
	if d := fuzzy.RankMatchNormalizedFold(q, item.ID); d >= 0 {
		return 2 + d
	}
	return -1
}
