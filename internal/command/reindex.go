package command

import (
	"sort"

	"github.com/silexa/boardcore/internal/board"
)

// reindexPins renumbers every pin's Index to a dense 1..N run per
// pin_type, in stable order of (original index, pin id) —
// spec.md §4.3's ordering rule for concurrent edits touching the same
// owner.
func reindexPins(pins map[string]board.Pin) {
	byType := map[board.PinType][]string{}
	for id, p := range pins {
		byType[p.PinType] = append(byType[p.PinType], id)
	}
	for pt, ids := range byType {
		sort.SliceStable(ids, func(i, j int) bool {
			pi, pj := pins[ids[i]], pins[ids[j]]
			if pi.Index != pj.Index {
				return pi.Index < pj.Index
			}
			return ids[i] < ids[j]
		})
		for i, id := range ids {
			p := pins[id]
			p.Index = i + 1
			pins[id] = p
		}
		_ = pt
	}
}
