// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazysorted

import (
	"cmp"
	"fmt"
	"math/rand"

	"github.com/btcsuite/lazysorted/internal/treap"
)

const (
	// sortThresh is the region size below which quickselect stops
	// partitioning and finishes the region with insertion sort.  quickSort
	// switches to insertion sort at or below it.
	sortThresh = 16

	// contigThresh is the largest absolute slice step for which a slice
	// is treated as contiguous and satisfied by a single range sort
	// instead of one point sort per stride.
	contigThresh = 8
)

// LessFunc reports whether a orders strictly before b.  It may fail, in
// which case the failure aborts the operation that invoked it and is
// returned to the caller.
type LessFunc[T any] func(a, b T) (bool, error)

// EqualFunc reports whether a and b are equal.  It may fail, in which case
// the failure aborts the operation that invoked it and is returned to the
// caller.
type EqualFunc[T any] func(a, b T) (bool, error)

// LazySorted is a sequence container that behaves as if its elements were
// sorted but performs only the sorting work necessary to answer the queries
// actually made.  See the package documentation for an overview of how work
// is amortized across queries.
//
// A LazySorted instance takes exclusive ownership of the element slice
// passed at construction and rearranges it in place.  It is not safe for
// concurrent use.
type LazySorted[T any] struct {
	xs   []T
	piv  *treap.Tree
	less LessFunc[T]
	eq   EqualFunc[T]
	rng  *rand.Rand
}

// New returns a sequence over xs using the provided comparison predicates.
// The slice is owned by the returned instance for its lifetime; callers that
// need the original order must pass a copy.
func New[T any](xs []T, less LessFunc[T], eq EqualFunc[T]) *LazySorted[T] {
	return NewWithSeed(xs, less, eq, rand.Int63())
}

// NewWithSeed is like New but seeds the per-instance pseudo-random source
// used for pivot selection and treap priorities, making the sequence of
// partitions deterministic.  This is primarily useful in tests.
func NewWithSeed[T any](xs []T, less LessFunc[T], eq EqualFunc[T], seed int64) *LazySorted[T] {
	rng := rand.New(rand.NewSource(seed))
	ls := &LazySorted[T]{
		xs:   xs,
		piv:  treap.New(rng),
		less: less,
		eq:   eq,
		rng:  rng,
	}

	// The sentinels bound every traversal and are never removed.
	ls.piv.Insert(-1, treap.Unsorted, nil)
	ls.piv.Insert(len(xs), treap.Unsorted, nil)
	return ls
}

// NewOrdered returns a sequence over xs for any ordered element type, using
// the natural ordering of the type.
func NewOrdered[T cmp.Ordered](xs []T) *LazySorted[T] {
	less := func(a, b T) (bool, error) { return a < b, nil }
	eq := func(a, b T) (bool, error) { return a == b, nil }
	return New(xs, less, eq)
}

// Len returns the number of elements in the sequence.
func (ls *LazySorted[T]) Len() int {
	return len(ls.xs)
}

// Get returns the element at position k in sorted order.  Negative indices
// count from the end of the sequence.
func (ls *LazySorted[T]) Get(k int) (T, error) {
	var zero T

	n := len(ls.xs)
	if k < 0 {
		k += n
	}
	if k < 0 || k >= n {
		return zero, fmt.Errorf("%w: index %d, length %d",
			ErrIndexOutOfRange, k, n)
	}

	if err := ls.sortPoint(k); err != nil {
		return zero, err
	}
	return ls.xs[k], nil
}

// Slice returns the elements selected by the given start, stop, and step
// with Python slice semantics: negative bounds count from the end, bounds
// are clamped to the sequence, and a negative step walks backwards.  The
// step must not be zero.
//
// Steps no larger than a small threshold are satisfied by sorting the
// spanned range once; larger steps sort each selected point individually.
func (ls *LazySorted[T]) Slice(start, stop, step int) ([]T, error) {
	if step == 0 {
		return nil, ErrZeroStep
	}

	start, stop, count := adjustSliceIndices(start, stop, step, len(ls.xs))
	if count <= 0 {
		return []T{}, nil
	}

	result := make([]T, 0, count)
	if -contigThresh <= step && step <= contigThresh {
		left, right := start, stop
		if stop < start {
			left, right = stop, start
		}
		if step < 0 {
			left++
			right++
		}

		log.Tracef("slice [%d:%d:%d] sorting contiguous range [%d, %d)",
			start, stop, step, left, right)
		if err := ls.sortRange(left, right); err != nil {
			return nil, err
		}

		for k, j := start, 0; j < count; k, j = k+step, j+1 {
			result = append(result, ls.xs[k])
		}
		return result, nil
	}

	log.Tracef("slice [%d:%d:%d] sorting %d strided points", start, stop,
		step, count)
	for k, j := start, 0; j < count; k, j = k+step, j+1 {
		if err := ls.sortPoint(k); err != nil {
			return nil, err
		}
		result = append(result, ls.xs[k])
	}
	return result, nil
}

// adjustSliceIndices normalizes Python-style slice bounds against a sequence
// of length n and returns the adjusted start and stop along with the number
// of elements the slice selects.
func adjustSliceIndices(start, stop, step, n int) (int, int, int) {
	if start < 0 {
		start += n
		if start < 0 {
			if step < 0 {
				start = -1
			} else {
				start = 0
			}
		}
	} else if start >= n {
		if step < 0 {
			start = n - 1
		} else {
			start = n
		}
	}

	if stop < 0 {
		stop += n
		if stop < 0 {
			if step < 0 {
				stop = -1
			} else {
				stop = 0
			}
		}
	} else if stop >= n {
		if step < 0 {
			stop = n - 1
		} else {
			stop = n
		}
	}

	var count int
	if step > 0 {
		if start < stop {
			count = (stop-start-1)/step + 1
		}
	} else {
		if stop < start {
			count = (start-stop-1)/(-step) + 1
		}
	}
	return start, stop, count
}

// Between returns the elements currently occupying positions [left, right)
// in an undefined order.  Both bounds are clamped to the sequence and
// negative bounds count from the end.  Only the boundary positions are
// sorted into place, so this is useful for cheaply discarding outliers from
// both tails of a data set.
func (ls *LazySorted[T]) Between(left, right int) ([]T, error) {
	n := len(ls.xs)
	if left < 0 {
		left += n
		if left < 0 {
			left = 0
		}
	} else if left > n {
		left = n
	}
	if right < 0 {
		right += n
		if right < 0 {
			right = 0
		}
	} else if right > n {
		right = n
	}

	if left >= right {
		return []T{}, nil
	}

	if left != 0 {
		if err := ls.sortPoint(left); err != nil {
			return nil, err
		}
	}
	if right != n {
		if err := ls.sortPoint(right); err != nil {
			return nil, err
		}
	}

	result := make([]T, right-left)
	copy(result, ls.xs[left:right])
	return result, nil
}

// IndexOf returns the smallest sorted-order index of an element equal to x.
// It returns ErrNotFound when no such element exists.
func (ls *LazySorted[T]) IndexOf(x T) (int, error) {
	k, found, err := ls.findItem(x)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNotFound
	}
	return k, nil
}

// Contains reports whether the sequence contains an element equal to x.
func (ls *LazySorted[T]) Contains(x T) (bool, error) {
	_, found, err := ls.findItem(x)
	return found, err
}

// CountOf returns the number of elements equal to x.  A missing element is
// reported as a count of zero rather than an error.
func (ls *LazySorted[T]) CountOf(x T) (int, error) {
	k, found, err := ls.findItem(x)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}

	// Equal elements can only occupy the regions between k and the first
	// pivot whose element is no longer equal to x, since every pivot is a
	// true order statistic.  Expand right through the pivots and then
	// count equals in the covered span.
	left, right := ls.piv.Bound(k)
	if right == nil {
		right = left.Succ()
	}

	n := len(ls.xs)
	for right.Idx < n {
		equal, err := ls.eq(x, ls.xs[right.Idx])
		if err != nil {
			return 0, err
		}
		if !equal {
			break
		}
		right = right.Succ()
	}

	count := 1
	for i := k + 1; i < right.Idx; i++ {
		equal, err := ls.eq(x, ls.xs[i])
		if err != nil {
			return 0, err
		}
		if equal {
			count++
		}
	}
	return count, nil
}

// PivotInfo describes a single pivot for diagnostics.
type PivotInfo struct {
	Index int
	Flags string
}

// Pivots returns the pivots currently tracked by the engine in index order,
// sentinels included.  It is intended for diagnostics and tests.
func (ls *LazySorted[T]) Pivots() []PivotInfo {
	infos := make([]PivotInfo, 0, ls.piv.Len())
	ls.piv.ForEach(func(node *treap.Node) bool {
		infos = append(infos, PivotInfo{
			Index: node.Idx,
			Flags: node.Flags.String(),
		})
		return true
	})
	return infos
}
