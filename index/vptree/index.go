package vptree

import (
	"bytes"
	"container/heap"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"
	"github.com/viant/wordvec/embedding"
)

// Index is a VP-tree over unit-normalized vectors.
type Index struct {
	names []string
	raw   [][]float32
	units []search.Float32s
	dim   int
	root  *node
}

type node struct {
	idx   int
	thr   float32
	left  *node // distance to vantage point <= thr
	right *node
}

// Build loads the table and constructs the tree. Zero-magnitude vectors are
// kept for serialization but never indexed.
func (i *Index) Build(t *embedding.Table) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("vptree: %w", err)
	}
	i.names = t.Names()
	i.raw = make([][]float32, len(i.names))
	i.units = make([]search.Float32s, len(i.names))
	i.dim = t.Dims()
	idxs := make([]int, 0, len(i.names))
	for j, name := range i.names {
		vec, _ := t.Get(name)
		i.raw[j] = vec
		if unit := normalize(vec); unit != nil {
			i.units[j] = unit
			idxs = append(idxs, j)
		}
	}
	i.root = i.build(idxs)
	return nil
}

func (i *Index) build(idxs []int) *node {
	if len(idxs) == 0 {
		return nil
	}
	// last element as vantage point keeps builds deterministic
	vp := idxs[len(idxs)-1]
	rest := idxs[:len(idxs)-1]
	n := &node{idx: vp}
	if len(rest) == 0 {
		return n
	}
	dists := make(map[int]float32, len(rest))
	for _, j := range rest {
		dists[j] = i.distance(i.units[vp], j)
	}
	sorted := append([]int(nil), rest...)
	sort.SliceStable(sorted, func(a, b int) bool { return dists[sorted[a]] < dists[sorted[b]] })
	mid := len(sorted) / 2
	n.thr = dists[sorted[mid]]
	n.left = i.build(sorted[:mid+1])
	n.right = i.build(sorted[mid+1:])
	return n
}

func (i *Index) distance(q search.Float32s, j int) float32 {
	return q.EuclideanDistance(i.units[j])
}

// Query returns up to k names ordered by decreasing cosine similarity.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || i.root == nil {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("vptree: query dim %d != index dim %d", len(query), i.dim)
	}
	q := normalize(query)
	if q == nil {
		return nil, nil, nil
	}
	if k <= 0 || k > len(i.names) {
		k = len(i.names)
	}
	h := &candidates{}
	tau := float32(math.MaxFloat32)
	var visit func(n *node)
	visit = func(n *node) {
		if n == nil {
			return
		}
		d := i.distance(q, n.idx)
		if h.Len() < k {
			heap.Push(h, candidate{idx: n.idx, dist: d})
		} else if d < (*h)[0].dist {
			heap.Pop(h)
			heap.Push(h, candidate{idx: n.idx, dist: d})
		}
		if h.Len() == k {
			tau = (*h)[0].dist
		}
		if d <= n.thr {
			if d-tau <= n.thr {
				visit(n.left)
			}
			if d+tau >= n.thr {
				visit(n.right)
			}
			return
		}
		if d+tau >= n.thr {
			visit(n.right)
		}
		if d-tau <= n.thr {
			visit(n.left)
		}
	}
	visit(i.root)

	out := make([]candidate, h.Len())
	for n := len(out) - 1; n >= 0; n-- {
		out[n] = heap.Pop(h).(candidate)
	}
	names := make([]string, len(out))
	scores := make([]float64, len(out))
	for n, c := range out {
		names[n] = i.names[c.idx]
		// |a-b|^2 = 2 - 2cos for unit vectors
		scores[n] = 1 - float64(c.dist)*float64(c.dist)/2
	}
	return names, scores, nil
}

// Table rebuilds an embedding table from the indexed entries.
func (i *Index) Table() *embedding.Table {
	t := embedding.NewTable()
	for j, name := range i.names {
		t.Set(name, i.raw[j])
	}
	return t
}

// MarshalBinary writes the indexed entries in word2vec layout; the tree is
// rebuilt on load.
func (i *Index) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := embedding.Encode(&buf, i.Table()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes word2vec bytes and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	t, err := embedding.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return i.Build(t)
}

func normalize(vec []float32) search.Float32s {
	m := search.Float32s(vec).Magnitude()
	if m == 0 || math.IsNaN(float64(m)) || math.IsInf(float64(m), 0) {
		return nil
	}
	unit := make(search.Float32s, len(vec))
	for j, v := range vec {
		unit[j] = v / m
	}
	return unit
}

type candidate struct {
	idx  int
	dist float32
}

// candidates is a max-heap on distance.
type candidates []candidate

func (h candidates) Len() int            { return len(h) }
func (h candidates) Less(a, b int) bool  { return h[a].dist > h[b].dist }
func (h candidates) Swap(a, b int)       { h[a], h[b] = h[b], h[a] }
func (h *candidates) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidates) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
