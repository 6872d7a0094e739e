package embedding

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const (
	// nameDelim ends the name field of a record.
	nameDelim = ' '

	asciiSpace = " \t\n\v\f\r"

	// maxDims guards allocation against corrupt headers.
	maxDims = 1 << 24

	// maxPrealloc caps how many entries are reserved up front from the
	// declared size.
	maxPrealloc = 1 << 16
)

type decodeOptions struct {
	strictNames bool
	logger      *slog.Logger
}

// Option customizes Decode.
type Option func(*decodeOptions)

// WithStrictNames makes a repeated name a FormatError instead of replacing
// the earlier vector.
func WithStrictNames() Option {
	return func(o *decodeOptions) { o.strictNames = true }
}

// WithLogger sets the logger used for debug output while decoding.
func WithLogger(logger *slog.Logger) Option {
	return func(o *decodeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newDecodeOptions(opts []Option) *decodeOptions {
	o := &decodeOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Decode reads a table from r. Exactly the records declared in the header are
// read; anything after them is left unread. On error no table is returned.
func Decode(r io.Reader, opts ...Option) (*Table, error) {
	o := newDecodeOptions(opts)
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	header, consumed, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if header.Dims > maxDims {
		return nil, formatErrorf(StepHeader, 0, "dims %d exceeds limit %d", header.Dims, maxDims)
	}
	o.logger.Debug("decoding embedding table", "size", header.Size, "dims", header.Dims)

	d := &decoder{
		r:      br,
		offset: int64(consumed),
		dims:   header.Dims,
	}
	table := newTableWithCapacity(min(header.Size, maxPrealloc))
	for i := 0; i < header.Size; i++ {
		start := d.offset
		name, vec, err := d.record()
		if err != nil {
			return nil, err
		}
		if o.strictNames && table.Has(name) {
			return nil, formatErrorf(StepDuplicate, start, "name %q repeated (record %d)", name, i)
		}
		table.Set(name, vec)
	}
	o.logger.Debug("decoded embedding table", "records", header.Size, "names", table.Len())
	return table, nil
}

type decoder struct {
	r      *bufio.Reader
	offset int64
	dims   int
	// buf is allocated once the first name has been read, so a header alone
	// never costs dims*4 bytes.
	buf []byte
}

// record reads one "<name> <floats><terminator>" unit.
func (d *decoder) record() (string, []float32, error) {
	start := d.offset
	span, err := d.r.ReadBytes(nameDelim)
	d.offset += int64(len(span))
	if err != nil {
		return "", nil, d.fail(StepName, start, err, "no space after %d name bytes", len(span))
	}
	name := string(bytes.Trim(span, asciiSpace))

	if d.buf == nil {
		d.buf = make([]byte, d.dims*floatSize)
	}
	start = d.offset
	n, err := io.ReadFull(d.r, d.buf)
	d.offset += int64(n)
	if err != nil {
		return "", nil, d.fail(StepVector, start, err, "read %d of %d vector bytes for %q", n, len(d.buf), name)
	}
	vec := make([]float32, d.dims)
	readVector(vec, d.buf)

	if _, err := d.r.ReadByte(); err != nil {
		return "", nil, d.fail(StepTerminator, d.offset, err, "missing record terminator after %q", name)
	}
	d.offset++
	return name, vec, nil
}

// fail converts a short read into a FormatError; other read errors are
// returned wrapped.
func (d *decoder) fail(step string, offset int64, err error, format string, args ...interface{}) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &FormatError{Offset: offset, Step: step, Err: fmt.Errorf(format+": %w", append(args, io.ErrUnexpectedEOF)...)}
	}
	return fmt.Errorf("embedding: reading %s at offset %d: %w", step, offset, err)
}
