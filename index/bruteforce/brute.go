package bruteforce

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"
	"github.com/viant/wordvec/embedding"
)

// Index scans every vector per query.
type Index struct {
	names []string
	vecs  [][]float32
	mags  []float32
	dim   int
}

// Build loads the table and precomputes magnitudes.
func (i *Index) Build(t *embedding.Table) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("bruteforce: %w", err)
	}
	i.names = t.Names()
	i.vecs = make([][]float32, len(i.names))
	i.mags = make([]float32, len(i.names))
	i.dim = t.Dims()
	for j, name := range i.names {
		vec, _ := t.Get(name)
		i.vecs[j] = vec
		i.mags[j] = search.Float32s(vec).Magnitude()
	}
	return nil
}

// Query returns top-k by cosine similarity. Zero-magnitude vectors never
// match.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	qv := search.Float32s(query)
	qm := qv.Magnitude()
	if qm == 0 {
		return nil, nil, nil
	}
	type scored struct {
		idx   int
		score float64
	}
	scoreds := make([]scored, 0, len(i.vecs))
	for j := range i.vecs {
		if i.mags[j] == 0 {
			continue
		}
		s := 1 - float64(qv.CosineDistanceWithMagnitude(i.vecs[j], qm, i.mags[j]))
		if math.IsNaN(s) {
			continue
		}
		scoreds = append(scoreds, scored{idx: j, score: s})
	}
	sort.SliceStable(scoreds, func(a, b int) bool { return scoreds[a].score > scoreds[b].score })
	if k <= 0 || k > len(scoreds) {
		k = len(scoreds)
	}
	outNames := make([]string, k)
	outScores := make([]float64, k)
	for n := 0; n < k; n++ {
		outNames[n] = i.names[scoreds[n].idx]
		outScores[n] = scoreds[n].score
	}
	return outNames, outScores, nil
}

// Table rebuilds an embedding table from the indexed entries.
func (i *Index) Table() *embedding.Table {
	t := embedding.NewTable()
	for j, name := range i.names {
		t.Set(name, i.vecs[j])
	}
	return t
}

// MarshalBinary writes the indexed entries in word2vec layout.
func (i *Index) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := embedding.Encode(&buf, i.Table()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes word2vec bytes and rebuilds the index.
func (i *Index) UnmarshalBinary(data []byte) error {
	t, err := embedding.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return i.Build(t)
}
