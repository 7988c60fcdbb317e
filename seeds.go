package meanshift

import (
	"encoding/binary"
	"fmt"
	"math"
)

// GetBinSeeds discretizes data onto a grid of cell size binSize and returns
// one seed per cell holding at least minBinFreq points.
//
// A point's cell is found by dividing each coordinate by binSize and
// truncating toward zero, and the seed is that integer vector scaled back by
// binSize: the cell corner nearest the origin, not the centroid of its
// members. Seeds are returned in the order their cells first appear in data.
// An empty (non-nil) slice means no cell survived.
func GetBinSeeds(data [][]float64, binSize float64, minBinFreq int) ([][]float64, error) {
	if !(binSize > 0) || math.IsInf(binSize, 0) {
		return nil, fmt.Errorf("meanshift: bin size must be a positive finite number, got %g", binSize)
	}
	dims, err := checkShape(data)
	if err != nil {
		return nil, err
	}

	type bin struct {
		key   []float64
		count int
	}
	bins := make(map[string]*bin)
	var order []*bin

	keyBuf := make([]byte, 8*dims)
	for _, row := range data {
		key := binKey(row, binSize)
		for d, k := range key {
			binary.LittleEndian.PutUint64(keyBuf[8*d:], math.Float64bits(k))
		}
		b, ok := bins[string(keyBuf)]
		if !ok {
			b = &bin{key: key}
			bins[string(keyBuf)] = b
			order = append(order, b)
		}
		b.count++
	}

	seeds := make([][]float64, 0, len(order))
	for _, b := range order {
		if b.count < minBinFreq {
			continue
		}
		seed := make([]float64, dims)
		for d, k := range b.key {
			seed[d] = k * binSize
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

// binKey returns trunc(x / binSize) per coordinate, with -0 folded into 0 so
// both sides of the origin share one key.
func binKey(x []float64, binSize float64) []float64 {
	key := make([]float64, len(x))
	for d, v := range x {
		k := math.Trunc(v / binSize)
		if k == 0 {
			k = 0
		}
		key[d] = k
	}
	return key
}

// uniqueRows returns the distinct rows of data in first-occurrence order.
func uniqueRows(data [][]float64) [][]float64 {
	seen := make(map[string]struct{}, len(data))
	out := make([][]float64, 0, len(data))
	var buf []byte
	for _, row := range data {
		buf = buf[:0]
		for _, v := range row {
			if v == 0 {
				v = 0
			}
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		if _, ok := seen[string(buf)]; ok {
			continue
		}
		seen[string(buf)] = struct{}{}
		out = append(out, row)
	}
	return out
}
