package benchmarks

import (
	"sync/atomic"

	"histobench"
)

type CASHistogram struct{ bins []atomic.Int64 }

func NewCASHistogram(bins int) *CASHistogram {
	if bins < 1 {
		bins = 1
	}
	return &CASHistogram{bins: make([]atomic.Int64, bins)}
}

func (h *CASHistogram) Fill(batch []float64, _ int) {
	for _, s := range batch {
		idx := histobench.BinIndex(s, len(h.bins))
		for {
			old := h.bins[idx].Load()
			if h.bins[idx].CompareAndSwap(old, old+1) {
				break
			}
		}
	}
}

func (h *CASHistogram) Merge() {}

func (h *CASHistogram) Counts() []int64 {
	out := make([]int64, len(h.bins))
	for i := range h.bins {
		out[i] = h.bins[i].Load()
	}
	return out
}

func (h *CASHistogram) Total() int64 {
	var sum int64
	for i := range h.bins {
		sum += h.bins[i].Load()
	}
	return sum
}
