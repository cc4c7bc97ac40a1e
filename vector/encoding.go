package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeEmbedding encodes a slice of float32 values into a BLOB suitable for
// storage in SQLite: a little-endian sequence of IEEE 754 float32 values with
// no length prefix. A nil or empty slice encodes to a nil BLOB.
func EncodeEmbedding(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	b := make([]byte, 0, len(vec)*4)
	for _, v := range vec {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b, nil
}

// DecodeEmbedding decodes a BLOB produced by EncodeEmbedding. The dimension is
// derived from the BLOB size.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector: invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// EmbeddingDim reports the dimension of an encoded embedding BLOB without
// decoding it.
func EmbeddingDim(b []byte) (int, error) {
	if len(b)%4 != 0 {
		return 0, fmt.Errorf("vector: invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	return len(b) / 4, nil
}
