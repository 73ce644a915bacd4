package listquery

import (
	"sort"
	"strings"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

type AssetClassGroup struct {
	AssetClass domain.AssetClass `json:"assetClass"`
	Label      string            `json:"label"`
	Subgroups  []SubgroupGroup   `json:"subgroups"`
}

// SubgroupGroup collects the instruments of one underlying, split by direction.
// Instruments without a direction land in Other.
type SubgroupGroup struct {
	Name  string              `json:"name"`
	Long  []domain.Instrument `json:"long"`
	Short []domain.Instrument `json:"short"`
	Other []domain.Instrument `json:"other,omitempty"`
}

// Group arranges an already sorted list into asset class, underlying and
// direction buckets. Order inside the buckets is preserved.
func Group(sorted []domain.Instrument) []AssetClassGroup {
	var groups []AssetClassGroup
	classIndex := make(map[domain.AssetClass]int)

	for _, inst := range sorted {
		ci, ok := classIndex[inst.AssetClass]
		if !ok {
			ci = len(groups)
			classIndex[inst.AssetClass] = ci
			groups = append(groups, AssetClassGroup{
				AssetClass: inst.AssetClass,
				Label:      inst.AssetClass.DisplayName(),
			})
		}
		g := &groups[ci]

		name := inst.SubgroupOrUnderlying()
		si := -1
		for idx := range g.Subgroups {
			if strings.EqualFold(g.Subgroups[idx].Name, name) {
				si = idx
				break
			}
		}
		if si < 0 {
			g.Subgroups = append(g.Subgroups, SubgroupGroup{Name: name})
			si = len(g.Subgroups) - 1
		}

		switch inst.Direction {
		case domain.DirectionLong:
			g.Subgroups[si].Long = append(g.Subgroups[si].Long, inst)
		case domain.DirectionShort:
			g.Subgroups[si].Short = append(g.Subgroups[si].Short, inst)
		default:
			g.Subgroups[si].Other = append(g.Subgroups[si].Other, inst)
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Label < groups[b].Label
	})
	for i := range groups {
		subs := groups[i].Subgroups
		sort.SliceStable(subs, func(a, b int) bool {
			return strings.ToLower(subs[a].Name) < strings.ToLower(subs[b].Name)
		})
	}
	return groups
}
