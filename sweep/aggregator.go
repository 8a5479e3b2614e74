package sweep

import (
	"math"
	"sync/atomic"
	"unsafe"
)

var (
	_ Aggregator = (*SumAggregator)(nil)
	_ Aggregator = (*MaxAggregator)(nil)
)

// SumAggregator accumulates the sum of the aggregated values. It is
// mutex-free; concurrent updates are resolved with CAS loops.
type SumAggregator struct {
	sum float64
}

func (a *SumAggregator) Get() float64 {
	return loadFloat64(&a.sum)
}

func (a *SumAggregator) Set(v float64) {
	for {
		old := loadFloat64(&a.sum)
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&a.sum)),
			math.Float64bits(old),
			math.Float64bits(v),
		) {
			return
		}
	}
}

func (a *SumAggregator) Aggregate(v float64) {
	for {
		old := loadFloat64(&a.sum)
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&a.sum)),
			math.Float64bits(old),
			math.Float64bits(old+v),
		) {
			return
		}
	}
}

// MaxAggregator tracks the maximum of the aggregated values.
type MaxAggregator struct {
	max float64
}

func (a *MaxAggregator) Get() float64 {
	return loadFloat64(&a.max)
}

func (a *MaxAggregator) Set(v float64) {
	for {
		old := loadFloat64(&a.max)
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&a.max)),
			math.Float64bits(old),
			math.Float64bits(v),
		) {
			return
		}
	}
}

func (a *MaxAggregator) Aggregate(v float64) {
	for {
		old := loadFloat64(&a.max)
		if v <= old {
			return
		}
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&a.max)),
			math.Float64bits(old),
			math.Float64bits(v),
		) {
			return
		}
	}
}

// atomic load for float64; casts the float64 to uint64 and loads that.
func loadFloat64(fp *float64) float64 {
	return math.Float64frombits(
		atomic.LoadUint64((*uint64)(unsafe.Pointer(fp))),
	)
}
