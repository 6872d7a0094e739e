package embedding

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record builds one binary record with the given terminator byte.
func record(name string, term byte, vec ...float32) []byte {
	var b bytes.Buffer
	b.WriteString(name)
	b.WriteByte(' ')
	b.Write(EncodeVector(vec))
	b.WriteByte(term)
	return b.Bytes()
}

func file(header string, records ...[]byte) []byte {
	out := []byte(header)
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

func requireFormatError(t *testing.T, err error, step string) *FormatError {
	t.Helper()
	require.Error(t, err)
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "want *FormatError, got %T: %v", err, err)
	assert.Equal(t, step, fe.Step)
	return fe
}

func TestDecode_MultiByteName(t *testing.T) {
	data := file("1 2\n", record("hello", '\n', 1.5, -2.5))

	table, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	vec, ok := table.Get("hello")
	require.True(t, ok)
	assert.Equal(t, []float32{1.5, -2.5}, vec)
	assert.Equal(t, 2, table.Dims())
}

func TestDecode_DuplicateLastWins(t *testing.T) {
	data := file("2 1\n", record("a", '\n', 1.0), record("a", '\n', 2.0))

	table, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	vec, _ := table.Get("a")
	assert.Equal(t, []float32{2.0}, vec)
}

func TestDecode_DuplicateKeepsFirstPosition(t *testing.T) {
	data := file("3 1\n", record("a", '\n', 1), record("b", '\n', 2), record("a", '\n', 3))

	table, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Names())
	vec, _ := table.Get("a")
	assert.Equal(t, []float32{3}, vec)
}

func TestDecode_StrictNamesRejectsDuplicate(t *testing.T) {
	data := file("2 1\n", record("a", '\n', 1.0), record("a", '\n', 2.0))

	table, err := Decode(bytes.NewReader(data), WithStrictNames())
	assert.Nil(t, table)
	fe := requireFormatError(t, err, StepDuplicate)
	assert.Equal(t, int64(len("2 1\n")+len(record("a", '\n', 1.0))), fe.Offset)
}

func TestDecode_TruncatedVector(t *testing.T) {
	data := append([]byte("1 4\nword "), make([]byte, 10)...)

	table, err := Decode(bytes.NewReader(data))
	assert.Nil(t, table)
	fe := requireFormatError(t, err, StepVector)
	assert.Equal(t, int64(len("1 4\nword ")), fe.Offset)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestDecode_TruncatedName(t *testing.T) {
	data := file("2 1\n", record("a", '\n', 1.0), []byte("noSpace"))

	_, err := Decode(bytes.NewReader(data))
	fe := requireFormatError(t, err, StepName)
	assert.Equal(t, int64(len("2 1\n")+len(record("a", '\n', 1.0))), fe.Offset)
}

func TestDecode_MissingTerminator(t *testing.T) {
	data := record("a", '\n', 1.0)
	data = append([]byte("1 1\n"), data[:len(data)-1]...)

	_, err := Decode(bytes.NewReader(data))
	requireFormatError(t, err, StepTerminator)
}

func TestDecode_AnyTerminatorByte(t *testing.T) {
	data := file("2 1\n", record("a", 'X', 1.0), record("b", 0, 2.0))

	table, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Names())
}

func TestDecode_IgnoresTrailingBytes(t *testing.T) {
	data := file("1 1\n", record("a", '\n', 1.0), []byte("garbage without a space"))

	table, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestDecode_ZeroDims(t *testing.T) {
	data := file("2 0\n", record("a", '\n'), record("b", '\n'))

	table, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 0, table.Dims())
}

func TestDecode_Header(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
		want    Header
	}{
		{name: "plain", input: "0 0\n", want: Header{}},
		{name: "extra whitespace", input: "  0\t\t3  \n", want: Header{Dims: 3}},
		{name: "extra tokens", input: "0 5 junk\n", want: Header{Dims: 5}},
		{name: "no newline at eof", input: "0 7", want: Header{Dims: 7}},
		{name: "empty", input: "", wantErr: true},
		{name: "single token", input: "3\n", wantErr: true},
		{name: "not a number", input: "x 3\n", wantErr: true},
		{name: "negative dims", input: "1 -3\n", wantErr: true},
		{name: "float size", input: "1.5 3\n", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := Decode(strings.NewReader(tc.input))
			if tc.wantErr {
				assert.Nil(t, table)
				requireFormatError(t, err, StepHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, table.Len())
		})
	}
}

func TestReadHeader(t *testing.T) {
	h, err := ReadHeader(bufioReader("71291 200\nrest"))
	require.NoError(t, err)
	assert.Equal(t, Header{Size: 71291, Dims: 200}, h)
	assert.Equal(t, "71291 200", h.String())
}

func TestDecode_DimsLimit(t *testing.T) {
	_, err := Decode(strings.NewReader("1 99999999999\n"))
	requireFormatError(t, err, StepHeader)
}

func TestDecode_LargeDimsHeaderDoesNotPreallocate(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		step        string
	}{
		{description: "no records", input: "0 16777216\n"},
		{description: "missing name", input: "1 16777216\n", step: StepName},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			table, err := Decode(strings.NewReader(tc.input))
			runtime.ReadMemStats(&after)

			if tc.step == "" {
				require.NoError(t, err)
				assert.Equal(t, 0, table.Len())
			} else {
				requireFormatError(t, err, tc.step)
			}
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
		})
	}
}

func TestDecode_LoggerReceivesDebugRecords(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	src := file("3 2\n", record("a", '\n', 1, 2), record("b", '\n', 3, 4), record("a", '\n', 5, 6))

	_, err := Decode(bytes.NewReader(src), WithLogger(logger))
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, `"msg":"decoding embedding table"`)
	assert.Contains(t, out, `"size":3`)
	assert.Contains(t, out, `"dims":2`)
	assert.Contains(t, out, `"msg":"decoded embedding table"`)
	assert.Contains(t, out, `"records":3`)
	assert.Contains(t, out, `"names":2`)
}

func TestDecode_NilLoggerKeepsDiscard(t *testing.T) {
	table, err := Decode(strings.NewReader("0 0\n"), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestDecode_ReadErrorIsNotFormatError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(strings.NewReader("1 1\n"), failingReader{err: boom})

	_, err := Decode(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	var fe *FormatError
	assert.False(t, errors.As(err, &fe))
}
