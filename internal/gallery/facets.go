package gallery

import (
	"sort"

	"github.com/starford/logoteca/internal/catalog"
	"github.com/starford/logoteca/internal/index"
	"github.com/starford/logoteca/internal/query"
)

// facetsFromSnapshot mirrors index.DB.Facets without SQL.
func facetsFromSnapshot(snap *catalog.Snapshot) *index.Facets {
	colors := map[string]int{}
	types := map[string]int{}
	decades := map[int]int{}
	f := &index.Facets{Total: snap.Len(), Malformed: snap.Malformed}
	for _, l := range snap.Logos {
		if l.IsFallback() {
			continue
		}
		colors[l.Color]++
		types[l.Type]++
		decades[query.DecadeStart(l.Year)]++
	}
	f.Colors = sortedBuckets(colors)
	f.Types = sortedBuckets(types)
	f.Decades = make([]index.DecadeBucket, 0, len(decades))
	for d, n := range decades {
		f.Decades = append(f.Decades, index.DecadeBucket{Decade: d, Count: n})
	}
	sort.Slice(f.Decades, func(i, j int) bool { return f.Decades[i].Decade < f.Decades[j].Decade })
	return f
}

func sortedBuckets(m map[string]int) []index.Bucket {
	out := make([]index.Bucket, 0, len(m))
	for v, n := range m {
		out = append(out, index.Bucket{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
