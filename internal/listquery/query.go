// Package listquery filters, searches, sorts and groups instrument lists.
package listquery

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

// RecentLimit is how many instruments the recent filter keeps.
const RecentLimit = 10

type Query struct {
	RecentOnly    bool
	FavoritesOnly bool
	Search        string
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeSearch trims, lowercases and collapses whitespace runs.
func NormalizeSearch(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Apply runs the filters in order (recent, favorites, search) and sorts the
// result. The input slice is copied and never modified.
func Apply(instruments []domain.Instrument, q Query) []domain.Instrument {
	result := make([]domain.Instrument, len(instruments))
	copy(result, instruments)

	if q.RecentOnly {
		result = recent(result, RecentLimit)
	}

	if q.FavoritesOnly {
		result = filter(result, func(i domain.Instrument) bool { return i.IsFavorite })
	}

	if query := NormalizeSearch(q.Search); query != "" {
		tokens := strings.Split(query, " ")
		result = filter(result, func(i domain.Instrument) bool {
			haystack := searchHaystack(i)
			for _, token := range tokens {
				if !strings.Contains(haystack, token) {
					return false
				}
			}
			return true
		})
	}

	Sort(result)
	return result
}

func recent(instruments []domain.Instrument, limit int) []domain.Instrument {
	out := filter(instruments, func(i domain.Instrument) bool { return i.LastModified != nil })
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].LastModified.After(*out[b].LastModified)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func filter(instruments []domain.Instrument, keep func(domain.Instrument) bool) []domain.Instrument {
	out := make([]domain.Instrument, 0, len(instruments))
	for _, i := range instruments {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

func searchHaystack(i domain.Instrument) string {
	return strings.ToLower(strings.Join([]string{
		i.SubgroupOrUnderlying(),
		i.UnderlyingName,
		i.Direction.DisplayName(),
		i.ISIN,
		i.ListTitle(),
	}, " "))
}

// Less orders by asset class label, subgroup label, direction label and
// finally list title.
func Less(a, b domain.Instrument) bool {
	if l, r := a.AssetClass.DisplayName(), b.AssetClass.DisplayName(); l != r {
		return l < r
	}
	if l, r := strings.ToLower(a.Subgroup.DisplayName()), strings.ToLower(b.Subgroup.DisplayName()); l != r {
		return l < r
	}
	if l, r := a.Direction.DisplayName(), b.Direction.DisplayName(); l != r {
		return l < r
	}
	return strings.ToLower(a.ListTitle()) < strings.ToLower(b.ListTitle())
}

// Sort sorts instruments in place with Less.
func Sort(instruments []domain.Instrument) {
	sort.SliceStable(instruments, func(a, b int) bool {
		return Less(instruments[a], instruments[b])
	})
}

// MostRecent returns the instrument modified last.
func MostRecent(instruments []domain.Instrument) (domain.Instrument, bool) {
	var (
		best  domain.Instrument
		found bool
	)
	for _, i := range instruments {
		if i.LastModified == nil {
			continue
		}
		if !found || i.LastModified.After(*best.LastModified) {
			best = i
			found = true
		}
	}
	return best, found
}
