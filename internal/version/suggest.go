package version

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns up to limit published versions close to target, best first.
// Matching is done on the major.minor prefix so a missing patch release points
// at its siblings.
func Suggest(target string, available []string, limit int) []string {
	v, err := Parse(target)
	if err != nil || limit <= 0 {
		return nil
	}

	prefix := fmt.Sprintf("%d.%d.", v.Major, v.Minor)

	ranks := fuzzy.RankFind(prefix, available)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		a, errA := Parse(ranks[i].Target)
		b, errB := Parse(ranks[j].Target)
		if errA != nil || errB != nil {
			return ranks[i].Target > ranks[j].Target
		}
		return b.Less(a)
	})

	out := make([]string, 0, limit)
	for _, r := range ranks {
		if r.Target == target {
			continue
		}
		out = append(out, r.Target)
		if len(out) == limit {
			break
		}
	}
	return out
}
