package embedding

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// checkEncodable reports the first reason t could not be written and read
// back unchanged: inconsistent vector lengths, a space inside a name, or
// ASCII whitespace at either end of a name (Decode trims it).
func checkEncodable(t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for i, name := range t.Names() {
		if strings.IndexByte(name, nameDelim) >= 0 {
			return formatErrorf(StepEncode, int64(i), "name %q contains a space", name)
		}
		if strings.Trim(name, asciiSpace) != name {
			return formatErrorf(StepEncode, int64(i), "name %q has leading or trailing whitespace", name)
		}
	}
	return nil
}

// Encode writes t to w in the layout Decode reads: the header line, then one
// record per entry in insertion order, each terminated by '\n'. The table is
// checked before the first byte is written, and a table that would not decode
// back to the same pairs is rejected with a FormatError.
func Encode(w io.Writer, t *Table) error {
	if err := checkEncodable(t); err != nil {
		return err
	}

	header := t.Header()
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header.String() + "\n"); err != nil {
		return fmt.Errorf("embedding: writing header: %w", err)
	}
	buf := make([]byte, header.Dims*floatSize)
	var err error
	t.Range(func(name string, vec []float32) bool {
		putVector(buf, vec)
		if _, err = bw.WriteString(name); err != nil {
			return false
		}
		if err = bw.WriteByte(nameDelim); err != nil {
			return false
		}
		if _, err = bw.Write(buf); err != nil {
			return false
		}
		err = bw.WriteByte('\n')
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("embedding: writing records: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("embedding: flushing: %w", err)
	}
	return nil
}
