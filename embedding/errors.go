package embedding

import "fmt"

// Steps reported by FormatError.
const (
	StepHeader     = "header"
	StepName       = "name"
	StepVector     = "vector"
	StepTerminator = "terminator"
	StepDuplicate  = "duplicate"
	StepEncode     = "encode"
)

// FormatError reports input that does not follow the word2vec binary layout,
// or a table that cannot be written in it. Offset is the byte position in the
// stream where the failing step started; for encode failures it is the index
// of the offending entry.
type FormatError struct {
	Offset int64
	Step   string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("embedding: %s at offset %d: %v", e.Step, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErrorf(step string, offset int64, format string, args ...interface{}) *FormatError {
	return &FormatError{Offset: offset, Step: step, Err: fmt.Errorf(format, args...)}
}
