package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"
)

// Metric selects the distance measure used to score candidates.
type Metric int

const (
	// Cosine scores by cosine similarity (higher is closer).
	Cosine Metric = iota
	// Euclidean scores by negated L2 distance so that higher still means
	// closer and results merge uniformly with cosine-scored indexes.
	Euclidean
)

// Index is an exact kNN index that scores every stored vector against the
// query. The zero value is a cosine index; use New to pick a metric.
type Index struct {
	metric Metric
	ids    []string
	vecs   [][]float32
	dim    int
	mags   []float32
}

// New creates an empty brute-force index with the given metric.
func New(metric Metric) *Index {
	return &Index{metric: metric}
}

// Build loads ids and vectors and precomputes magnitudes for cosine scoring.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.vecs, i.mags, i.dim = nil, nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	mags := make([]float32, len(vectors))
	for j := range vectors {
		mags[j] = search.Float32s(vectors[j]).Magnitude()
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	i.mags = mags
	return nil
}

// Query returns up to k ids ordered by decreasing score. Ties keep insertion
// order.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}

	type scored struct {
		idx   int
		score float64
	}
	q := search.Float32s(query)
	qm := q.Magnitude()
	if i.metric == Cosine && qm == 0 {
		return nil, nil, nil
	}
	scoreds := make([]scored, 0, len(i.vecs))
	for j := range i.vecs {
		var s float64
		switch i.metric {
		case Euclidean:
			s = -float64(q.EuclideanDistance(i.vecs[j]))
		default:
			if i.mags[j] == 0 {
				continue
			}
			s = 1 - float64(q.CosineDistanceWithMagnitudesNeon(i.vecs[j], qm, i.mags[j]))
		}
		if math.IsNaN(s) {
			continue
		}
		scoreds = append(scoreds, scored{idx: j, score: s})
	}
	sort.SliceStable(scoreds, func(a, b int) bool { return scoreds[a].score > scoreds[b].score })
	if k <= 0 || k > len(scoreds) {
		k = len(scoreds)
	}
	outIDs := make([]string, k)
	outScores := make([]float64, k)
	for n := 0; n < k; n++ {
		outIDs[n] = i.ids[scoreds[n].idx]
		outScores[n] = scoreds[n].score
	}
	return outIDs, outScores, nil
}

// MarshalBinary serializes the stored vectors using Marshal. The metric is a
// construction-time setting and is not persisted.
func (i *Index) MarshalBinary() ([]byte, error) {
	return Marshal(i.ids, i.vecs)
}

// UnmarshalBinary restores the index from bytes produced by MarshalBinary.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := Unmarshal(data)
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}

// Marshal encodes parallel id/vector slices as: dim(uint32), n(uint32), then
// for each item idLen(uint32), id bytes, vec(float32[dim]). All values are
// little-endian. The format is shared with the vptree index.
func Marshal(ids []string, vecs [][]float32) ([]byte, error) {
	if len(ids) != len(vecs) {
		return nil, fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), len(vecs))
	}
	if len(ids) == 0 {
		buf := make([]byte, 8)
		return buf, nil
	}
	dim := len(vecs[0])
	size := 8
	for idx, id := range ids {
		if len(vecs[idx]) != dim {
			return nil, fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(vecs[idx]), dim)
		}
		size += 4 + len(id) + 4*dim
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(ids)))
	for idx, id := range ids {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		for _, v := range vecs[idx] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out, nil
}

// Unmarshal decodes data produced by Marshal back into parallel id/vector
// slices.
func Unmarshal(data []byte) ([]string, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		return v
	}
	dim := int(getU32())
	n := int(getU32())
	if n == 0 {
		return nil, nil, nil
	}
	ids := make([]string, n)
	vecs := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return nil, nil, errors.New("bruteforce: truncated")
		}
		idlen := int(getU32())
		if off+idlen > len(data) {
			return nil, nil, errors.New("bruteforce: truncated id")
		}
		ids[idx] = string(data[off : off+idlen])
		off += idlen
		if off+4*dim > len(data) {
			return nil, nil, errors.New("bruteforce: truncated vec")
		}
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs[idx] = vec
	}
	return ids, vecs, nil
}
