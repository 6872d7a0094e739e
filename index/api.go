package index

import (
	"fmt"

	"github.com/viant/wordvec/embedding"
	"github.com/viant/wordvec/index/bruteforce"
	"github.com/viant/wordvec/index/vptree"
)

// Index is a cosine kNN index over the tokens of an embedding table.
type Index interface {
	// Build loads every entry of t. The table must pass Validate.
	Build(t *embedding.Table) error

	// Query returns up to k names ordered by decreasing cosine similarity to
	// query, with their scores. k <= 0 returns every indexed name.
	Query(query []float32, k int) (names []string, scores []float64, err error)

	// MarshalBinary serializes the indexed table in word2vec layout.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary rebuilds the index from MarshalBinary output.
	UnmarshalBinary(data []byte) error
}

// Kinds accepted by New.
const (
	KindAuto   = "auto"
	KindBrute  = "brute"
	KindVPTree = "vptree"
)

// autoVPTreeMinSize is the table size from which "auto" picks the tree.
const autoVPTreeMinSize = 4000

// Match is a single neighbour.
type Match struct {
	Name  string
	Score float64
}

// New returns an unbuilt index of the given kind. For KindAuto the choice
// depends on size, the number of entries that will be indexed.
func New(kind string, size int) (Index, error) {
	switch kind {
	case KindBrute:
		return &bruteforce.Index{}, nil
	case KindVPTree:
		return &vptree.Index{}, nil
	case KindAuto, "":
		if size >= autoVPTreeMinSize {
			return &vptree.Index{}, nil
		}
		return &bruteforce.Index{}, nil
	default:
		return nil, fmt.Errorf("index: unknown kind %q", kind)
	}
}

// Search runs ix.Query and pairs names with scores.
func Search(ix Index, query []float32, k int) ([]Match, error) {
	names, scores, err := ix.Query(query, k)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(names))
	for i := range names {
		out[i] = Match{Name: names[i], Score: scores[i]}
	}
	return out, nil
}

// Neighbors returns the k tokens of t closest to name, excluding name itself.
// ix must have been built from t.
func Neighbors(ix Index, t *embedding.Table, name string, k int) ([]Match, error) {
	query, ok := t.Get(name)
	if !ok {
		return nil, fmt.Errorf("index: token %q not found", name)
	}
	limit := k
	if k > 0 {
		limit = k + 1
	}
	matches, err := Search(ix, query, limit)
	if err != nil {
		return nil, err
	}
	out := matches[:0]
	for _, m := range matches {
		if m.Name == name {
			continue
		}
		out = append(out, m)
	}
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}
