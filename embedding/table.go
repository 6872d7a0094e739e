package embedding

import "fmt"

// Table maps token names to vectors and remembers insertion order so that an
// encoded table is reproducible. It is not safe for concurrent mutation.
type Table struct {
	names   []string
	vectors map[string][]float32
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{vectors: make(map[string][]float32)}
}

func newTableWithCapacity(n int) *Table {
	return &Table{
		names:   make([]string, 0, n),
		vectors: make(map[string][]float32, n),
	}
}

// Set stores vec under name. Overwriting an existing name keeps the name's
// original position. Vector lengths are checked by Validate and Encode, not
// here.
func (t *Table) Set(name string, vec []float32) {
	if t.vectors == nil {
		t.vectors = make(map[string][]float32)
	}
	if _, ok := t.vectors[name]; !ok {
		t.names = append(t.names, name)
	}
	t.vectors[name] = vec
}

// Get returns the vector stored under name.
func (t *Table) Get(name string) ([]float32, bool) {
	if t == nil {
		return nil, false
	}
	vec, ok := t.vectors[name]
	return vec, ok
}

// Has reports whether name is present.
func (t *Table) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Len returns the number of distinct names.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Dims returns the length of the first vector, or 0 for an empty table.
func (t *Table) Dims() int {
	if t.Len() == 0 {
		return 0
	}
	return len(t.vectors[t.names[0]])
}

// Names returns a copy of the names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (t *Table) Range(fn func(name string, vec []float32) bool) {
	if t == nil {
		return
	}
	for _, name := range t.names {
		if !fn(name, t.vectors[name]) {
			return
		}
	}
}

// Header returns the header an encoder would write for t.
func (t *Table) Header() Header {
	return Header{Size: t.Len(), Dims: t.Dims()}
}

// Validate checks that every vector has the same length as the first one.
func (t *Table) Validate() error {
	dims := t.Dims()
	for i, name := range t.Names() {
		if n := len(t.vectors[name]); n != dims {
			return &FormatError{
				Offset: int64(i),
				Step:   StepEncode,
				Err:    fmt.Errorf("vector %q has %d dims, want %d", name, n, dims),
			}
		}
	}
	return nil
}
