package embedding

import (
	"fmt"

	"github.com/spf13/afero"
)

// DecodeFile opens path on fs and decodes it. The file is closed before
// returning.
func DecodeFile(fs afero.Fs, path string, opts ...Option) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("embedding: opening %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f, opts...)
}

// EncodeFile creates (or truncates) path on fs and writes t to it. A table
// Encode would reject leaves path untouched. The file is closed on every path
// and a failed close is reported when the write itself succeeded.
func EncodeFile(fs afero.Fs, path string, t *Table) (err error) {
	if err := checkEncodable(t); err != nil {
		return err
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("embedding: creating %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("embedding: closing %q: %w", path, cerr)
		}
	}()
	return Encode(f, t)
}
