package embedding

import (
	"encoding/binary"
	"fmt"
	"math"
)

// floatSize is the on-disk width of a single vector component.
const floatSize = 4

// EncodeVector encodes vec as a little-endian sequence of IEEE 754 float32
// values without a length prefix; the length is derived from the blob size on
// decode. A nil or empty vector yields a nil blob.
func EncodeVector(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*floatSize)
	putVector(b, vec)
	return b
}

// DecodeVector decodes a blob produced by EncodeVector.
func DecodeVector(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%floatSize != 0 {
		return nil, fmt.Errorf("embedding: invalid vector blob length %d (not multiple of %d)", len(b), floatSize)
	}
	vec := make([]float32, len(b)/floatSize)
	readVector(vec, b)
	return vec, nil
}

func putVector(dst []byte, vec []float32) {
	for i, v := range vec {
		binary.LittleEndian.PutUint32(dst[i*floatSize:], math.Float32bits(v))
	}
}

func readVector(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*floatSize:]))
	}
}
