// Package intern builds the two sorted, deduplicated string tables that the
// binary writer emits: the keys table (every Hash key in the document) and
// the values table (every String leaf). Both are the product of a single
// walk of the tree, so they are a pure function of the input: rewriting a
// decoded document yields identical tables, independent of traversal order.
package intern

import (
	"sort"
	"sync"

	"github.com/scigolib/byml/internal/core"
)

// fanoutThreshold is the child count above which a container's children are
// walked concurrently. Below it, goroutine setup would cost more than the
// walk itself.
const fanoutThreshold = 64

// stringSet is a concurrency-safe string set used to accumulate interned
// strings across goroutines walking sibling subtrees. The operation is
// commutative (set union), so fan-out across siblings is safe; only the
// final sort imposes an order.
type stringSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) add(v string) {
	s.mu.Lock()
	s.seen[v] = struct{}{}
	s.mu.Unlock()
}

func (s *stringSet) sorted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.seen))
	for v := range s.seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// CollectKeys walks doc and returns every Hash key, sorted and deduplicated.
func CollectKeys(doc *core.Node) *core.StringTable {
	set := newStringSet()
	walkKeys(doc, set, true)
	return &core.StringTable{Strings: set.sorted()}
}

// CollectValues walks doc and returns every String leaf, sorted and
// deduplicated.
func CollectValues(doc *core.Node) *core.StringTable {
	set := newStringSet()
	walkValues(doc, set, true)
	return &core.StringTable{Strings: set.sorted()}
}

func walkKeys(n *core.Node, set *stringSet, top bool) {
	switch n.Type() {
	case core.TypeHash:
		keys, vals, _ := n.Pairs()
		for _, k := range keys {
			set.add(k)
		}
		fanout(len(vals), top, func(i int) { walkKeys(vals[i], set, false) })
	case core.TypeArray:
		arr, _ := n.AsArray()
		fanout(len(arr), top, func(i int) { walkKeys(arr[i], set, false) })
	}
}

func walkValues(n *core.Node, set *stringSet, top bool) {
	switch n.Type() {
	case core.TypeString:
		s, _ := n.AsString()
		set.add(s)
	case core.TypeHash:
		_, vals, _ := n.Pairs()
		fanout(len(vals), top, func(i int) { walkValues(vals[i], set, false) })
	case core.TypeArray:
		arr, _ := n.AsArray()
		fanout(len(arr), top, func(i int) { walkValues(arr[i], set, false) })
	}
}

// fanout runs f(0..n) either sequentially or across goroutines, depending on
// n and on whether the caller is already inside a fanned-out goroutine (we
// only fan out one level at a time to bound goroutine counts on deep,
// narrow trees).
func fanout(n int, top bool, f func(i int)) {
	if !top || n < fanoutThreshold {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			f(i)
		}(i)
	}
	wg.Wait()
}
