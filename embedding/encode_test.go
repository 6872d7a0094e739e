package embedding

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewTable()))
	assert.Equal(t, "0 0\n", buf.String())

	table, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestEncode_Layout(t *testing.T) {
	table := NewTable()
	table.Set("hello", []float32{1.5, -2.5})
	table.Set("world", []float32{0, 3})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, table))

	want := file("2 2\n", record("hello", '\n', 1.5, -2.5), record("world", '\n', 0, 3))
	assert.Equal(t, want, buf.Bytes())
}

func TestEncode_InconsistentDims(t *testing.T) {
	table := NewTable()
	table.Set("a", []float32{1, 2})
	table.Set("b", []float32{1})

	var buf bytes.Buffer
	fe := requireFormatError(t, Encode(&buf, table), StepEncode)
	assert.Equal(t, int64(1), fe.Offset)
	assert.Zero(t, buf.Len(), "nothing should be written for an invalid table")
}

func TestEncode_NameWithSpace(t *testing.T) {
	table := NewTable()
	table.Set("new york", []float32{1})

	var buf bytes.Buffer
	requireFormatError(t, Encode(&buf, table), StepEncode)
	assert.Zero(t, buf.Len())
}

func TestEncode_NameWithEdgeWhitespace(t *testing.T) {
	var testCases = []struct {
		description string
		name        string
	}{
		{description: "trailing tab", name: "a\t"},
		{description: "leading newline", name: "\nb"},
		{description: "trailing carriage return", name: "c\r"},
		{description: "leading form feed", name: "\fd"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			table := NewTable()
			table.Set("ok", []float32{0})
			table.Set(tc.name, []float32{1})

			var buf bytes.Buffer
			fe := requireFormatError(t, Encode(&buf, table), StepEncode)
			assert.Equal(t, int64(1), fe.Offset)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestEncode_InnerWhitespaceRoundTrips(t *testing.T) {
	table := NewTable()
	table.Set("a\tb", []float32{1})
	table.Set("c\nd", []float32{2})
	table.Set("e\u00a0", []float32{3})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, table))
	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Names(), got.Names())
}

func TestRoundTrip_Pairs(t *testing.T) {
	table := NewTable()
	table.Set("</s>", []float32{0.001, -0.002, 0.003})
	table.Set("the", []float32{float32(math.Inf(1)), float32(math.Inf(-1)), -0})
	table.Set("of", []float32{math.MaxFloat32, math.SmallestNonzeroFloat32, 1e-20})
	table.Set("日本", []float32{1, 2, 3})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, table))
	decoded, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, table.Names(), decoded.Names())
	table.Range(func(name string, vec []float32) bool {
		got, ok := decoded.Get(name)
		require.True(t, ok, name)
		for i := range vec {
			assert.Equal(t, math.Float32bits(vec[i]), math.Float32bits(got[i]), "%s[%d]", name, i)
		}
		return true
	})
}

func TestRoundTrip_ByteIdentity(t *testing.T) {
	src := file("3 2\n",
		record("king", '\n', 0.25, -1),
		record("queen", '\n', 0.5, 2),
		record("x", '\n', float32(math.NaN()), 1e9),
	)

	table, err := Decode(bytes.NewReader(src))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, Encode(&out, table))
	assert.Equal(t, src, out.Bytes())
}

func TestRoundTrip_DuplicatesCollapse(t *testing.T) {
	src := file("3 1\n", record("a", '\n', 1), record("b", '\n', 2), record("a", '\n', 3))

	table, err := Decode(bytes.NewReader(src))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, Encode(&out, table))
	assert.Equal(t, file("2 1\n", record("a", '\n', 3), record("b", '\n', 2)), out.Bytes())
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return 0, bytes.ErrTooLarge }

func TestEncode_WriteError(t *testing.T) {
	table := NewTable()
	table.Set("a", []float32{1})
	err := Encode(shortWriter{}, table)
	require.Error(t, err)
	assert.ErrorIs(t, err, bytes.ErrTooLarge)
}
