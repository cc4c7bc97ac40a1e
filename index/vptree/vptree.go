package vptree

import (
	"errors"
	"math"
	"sort"

	"github.com/viant/vec/search"

	"github.com/movievec/movievec/index/bruteforce"
)

// Index answers cosine kNN queries through a vantage-point tree. Internally it
// measures angular distance (the arc between vectors), which is a proper
// metric, so subtrees can be pruned via the triangle inequality; reported
// scores are plain cosine similarities, so results rank identically to the
// brute-force scan. Serialization uses the brute-force wire format, so
// persisted data can be reloaded into either implementation.
type Index struct {
	ids  []string
	vecs [][]float32
	mags []float32
	dim  int
	root *node
}

type node struct {
	idx   int // position in ids/vecs
	thr   float64
	left  *node
	right *node
}

// Build constructs the tree and caches vector magnitudes.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.New("vptree: ids and vectors length mismatch")
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	if len(vectors) == 0 {
		i.dim, i.mags, i.root = 0, nil, nil
		return nil
	}
	i.dim = len(vectors[0])
	i.mags = make([]float32, len(vectors))
	for j := range vectors {
		if len(vectors[j]) != i.dim {
			return errors.New("vptree: inconsistent dims")
		}
		i.mags[j] = search.Float32s(vectors[j]).Magnitude()
	}
	idxs := make([]int, len(vectors))
	for k := range idxs {
		idxs[k] = k
	}
	i.root = i.build(idxs)
	return nil
}

// build picks the last element as the vantage point and splits the rest at
// the median distance.
func (i *Index) build(idxs []int) *node {
	if len(idxs) == 0 {
		return nil
	}
	vp := idxs[len(idxs)-1]
	rest := idxs[:len(idxs)-1]
	if len(rest) == 0 {
		return &node{idx: vp}
	}
	dists := make([]float64, len(rest))
	for k, j := range rest {
		dists[k] = i.distance(vp, j)
	}
	order := make([]int, len(rest))
	for k := range order {
		order[k] = k
	}
	sort.Slice(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })
	mid := len(dists) / 2
	thr := dists[order[mid]]
	inner := make([]int, 0, mid+1)
	outer := make([]int, 0, len(rest)-(mid+1))
	for rank, k := range order {
		if rank <= mid {
			inner = append(inner, rest[k])
		} else {
			outer = append(outer, rest[k])
		}
	}
	return &node{
		idx:   vp,
		thr:   thr,
		left:  i.build(inner),
		right: i.build(outer),
	}
}

// angular converts a cosine distance (1 - cos) into the angle between the
// vectors, clamping against float rounding outside [-1, 1].
func angular(cosDist float64) float64 {
	cos := 1 - cosDist
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// distance returns the angular distance between two stored vectors. Vectors
// with zero magnitude are treated as orthogonal to everything.
func (i *Index) distance(a, b int) float64 {
	if i.mags[a] == 0 || i.mags[b] == 0 {
		return math.Pi / 2
	}
	return angular(float64(search.Float32s(i.vecs[a]).CosineDistanceWithMagnitudesNeon(i.vecs[b], i.mags[a], i.mags[b])))
}

// Query returns up to k ids ordered by decreasing cosine similarity.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, errors.New("vptree: query dim mismatch")
	}
	q := search.Float32s(query)
	qm := q.Magnitude()
	if qm == 0 {
		return nil, nil, nil
	}
	if k <= 0 {
		k = len(i.vecs)
	}

	type cand struct {
		idx  int
		dist float64
	}
	best := make([]cand, 0, k)
	bound := math.Inf(1)

	worst := func() int {
		w := 0
		for t := 1; t < len(best); t++ {
			if best[t].dist > best[w].dist {
				w = t
			}
		}
		return w
	}

	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		var d float64
		skip := i.mags[n.idx] == 0
		if skip {
			d = math.Pi / 2
		} else {
			d = angular(float64(q.CosineDistanceWithMagnitudesNeon(i.vecs[n.idx], qm, i.mags[n.idx])))
		}
		if !skip && !math.IsNaN(d) {
			switch {
			case len(best) < k:
				best = append(best, cand{idx: n.idx, dist: d})
				if len(best) == k {
					bound = best[worst()].dist
				}
			case d < bound:
				best[worst()] = cand{idx: n.idx, dist: d}
				bound = best[worst()].dist
			}
		}
		// Triangle-inequality pruning around the vantage threshold; visit the
		// nearer side first so the bound tightens early.
		if d < n.thr {
			if d-bound <= n.thr {
				walk(n.left)
			}
			if d+bound >= n.thr {
				walk(n.right)
			}
		} else {
			if d+bound >= n.thr {
				walk(n.right)
			}
			if d-bound <= n.thr {
				walk(n.left)
			}
		}
	}
	walk(i.root)

	sort.SliceStable(best, func(a, b int) bool { return best[a].dist < best[b].dist })
	ids := make([]string, len(best))
	scores := make([]float64, len(best))
	for n := range best {
		ids[n] = i.ids[best[n].idx]
		scores[n] = math.Cos(best[n].dist)
	}
	return ids, scores, nil
}

// MarshalBinary serializes the stored vectors using the brute-force format.
func (i *Index) MarshalBinary() ([]byte, error) {
	return bruteforce.Marshal(i.ids, i.vecs)
}

// UnmarshalBinary restores the vectors and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := bruteforce.Unmarshal(data)
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}
