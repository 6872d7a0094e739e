package embedding

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the first line of a table file. Size bounds the decode loop only;
// a decoded table is shorter than Size when names repeat.
type Header struct {
	Size int
	Dims int
}

func (h Header) String() string {
	return strconv.Itoa(h.Size) + " " + strconv.Itoa(h.Dims)
}

// ReadHeader reads and parses the header line. A final line without a
// newline is accepted; tokens after the first two are ignored.
func ReadHeader(r *bufio.Reader) (Header, error) {
	h, _, err := readHeader(r)
	return h, err
}

// readHeader also returns the number of bytes consumed.
func readHeader(r *bufio.Reader) (Header, int, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Header{}, 0, fmt.Errorf("embedding: reading header: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Header{}, 0, formatErrorf(StepHeader, 0, "want \"<size> <dims>\", got %q", strings.TrimRight(line, "\n"))
	}
	size, err := parseCount(fields[0])
	if err != nil {
		return Header{}, 0, &FormatError{Step: StepHeader, Err: fmt.Errorf("size: %w", err)}
	}
	dims, err := parseCount(fields[1])
	if err != nil {
		return Header{}, 0, &FormatError{Step: StepHeader, Err: fmt.Errorf("dims: %w", err)}
	}
	return Header{Size: size, Dims: dims}, len(line), nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
