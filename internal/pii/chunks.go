package pii

import (
	"iter"
	"slices"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// ByChunk groups consecutive entities that share a chunk id. Each group is
// sorted by position. Entities for the same chunk separated by another
// chunk produce separate groups.
func ByChunk(entities iter.Seq[*domain.PiiEntity]) iter.Seq[[]*domain.PiiEntity] {
	return func(yield func([]*domain.PiiEntity) bool) {
		var group []*domain.PiiEntity
		flush := func() bool {
			if len(group) == 0 {
				return true
			}
			slices.SortStableFunc(group, func(a, b *domain.PiiEntity) int {
				return a.Pos - b.Pos
			})
			out := group
			group = nil
			return yield(out)
		}

		for e := range entities {
			if len(group) > 0 && group[0].ChunkID != e.ChunkID {
				if !flush() {
					return
				}
			}
			group = append(group, e)
		}
		flush()
	}
}
