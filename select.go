// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazysorted

import (
	"github.com/btcsuite/lazysorted/internal/treap"
)

// uniqPivots collapses pivots whose elements are equal in value.  When the
// element at left equals the element at middle, middle inherits left's flags
// and left is removed; symmetrically for right.  The sentinel sides are
// skipped since sentinels carry no element.
//
// A collapsed side means every element between the two equal pivots equals
// them as well, since the pivots are order statistics bounding the span.
// The returned booleans report which sides collapsed so callers can drop
// their references to the removed nodes.
func (ls *LazySorted[T]) uniqPivots(left, middle, right *treap.Node) (bool, bool, error) {
	var leftGone, rightGone bool

	if left.Idx >= 0 {
		equal, err := ls.eq(ls.xs[left.Idx], ls.xs[middle.Idx])
		if err != nil {
			return false, false, err
		}
		if equal {
			middle.Flags = left.Flags
			ls.piv.Delete(left)
			leftGone = true
		}
	}

	if right.Idx < len(ls.xs) {
		equal, err := ls.eq(ls.xs[middle.Idx], ls.xs[right.Idx])
		if err != nil {
			return leftGone, false, err
		}
		if equal {
			middle.Flags = right.Flags
			ls.piv.Delete(right)
			rightGone = true
		}
	}

	return leftGone, rightGone, nil
}

// sortPoint rearranges the sequence just enough that the element at position
// k is the k-th order statistic, that is the element that would occupy
// position k if the sequence were fully sorted.
func (ls *LazySorted[T]) sortPoint(k int) error {
	left, right := ls.piv.Bound(k)

	// Nothing to do when k is itself a pivot or falls in a region that is
	// already sorted.  Bound never returns k in right, but right may be
	// nil when left.Idx == k, so check left first.
	if left.Idx == k || right.Flags&treap.SortedRight != 0 {
		return nil
	}

	// Quickselect bounded by the enclosing pivots.  Each partition step
	// records its pivot in the tree so the work is never repeated.
	for left.Idx+1+sortThresh <= right.Idx {
		pivIdx, err := ls.partition(left.Idx+1, right.Idx)
		if err != nil {
			return err
		}

		middle := ls.piv.InsertBetween(pivIdx, treap.Unsorted, left, right)
		leftGone, rightGone, err := ls.uniqPivots(left, middle, right)
		if err != nil {
			return err
		}

		switch {
		case pivIdx == k:
			return nil
		case pivIdx < k:
			if rightGone {
				// Everything in (pivIdx, k] equals the pivot
				// element, so position k already holds its
				// order statistic.
				return nil
			}
			left = middle
		default:
			if leftGone {
				// Mirror of the case above: everything in
				// [k, pivIdx) equals the pivot element.
				return nil
			}
			right = middle
		}
	}

	if err := ls.insertionSort(left.Idx+1, right.Idx); err != nil {
		return err
	}
	left.Flags |= treap.SortedLeft
	right.Flags |= treap.SortedRight
	ls.piv.Depivot(left, right)

	return nil
}

// sortRange rearranges the sequence so that positions [start, stop) are in
// sorted order.  The endpoints are point-sorted first, which bounds the
// target range by pivots; the regions between those pivots are then sorted
// one by one, skipping any that are already sorted, and pivots made
// redundant by the merged sorted regions are removed.
func (ls *LazySorted[T]) sortRange(start, stop int) error {
	if err := ls.sortPoint(start); err != nil {
		return err
	}
	if err := ls.sortPoint(stop); err != nil {
		return err
	}

	current, next := ls.piv.Bound(start)
	if current.Idx == start {
		next = current.Succ()
	}

	for current.Idx < stop {
		if current.Flags&treap.SortedLeft == 0 {
			// The entire region is being sorted, so there is no
			// point tracking pivots inside it.
			log.Tracef("sortRange: quicksorting region (%d, %d)",
				current.Idx, next.Idx)
			if err := ls.quickSort(current.Idx+1, next.Idx); err != nil {
				return err
			}
			current.Flags |= treap.SortedLeft
			next.Flags |= treap.SortedRight
		}

		if current.Flags&treap.SortedRight != 0 {
			ls.piv.Delete(current)
		}

		current = next
		next = current.Succ()
	}

	if current.Flags&treap.SortedLeft != 0 {
		ls.piv.Delete(current)
	}

	return nil
}

// findItem locates the smallest sorted-order index holding an element equal
// to item.  It reports the index, whether the item was found at all, and any
// comparator failure, as three distinct results.  The located element is
// moved into its final sorted position as a side effect, but duplicates of
// it are not necessarily gathered next to it.
func (ls *LazySorted[T]) findItem(item T) (int, bool, error) {
	n := len(ls.xs)

	left, right, err := ls.piv.BoundItem(n, func(i int) (bool, error) {
		return ls.less(ls.xs[i], item)
	})
	if err != nil {
		return 0, false, err
	}

	if left.Flags&treap.SortedLeft == 0 {
		// Quickselect toward the item value: each partition picks the
		// side that can still contain an element equal to item.
		for left.Idx+1+sortThresh <= right.Idx {
			pivIdx, perr := ls.partition(left.Idx+1, right.Idx)
			if perr != nil {
				return 0, false, perr
			}

			isLess, lerr := ls.less(ls.xs[pivIdx], item)
			if lerr != nil {
				return 0, false, lerr
			}

			middle := ls.piv.InsertBetween(pivIdx, treap.Unsorted,
				left, right)

			// A collapse can only happen on the side being
			// replaced here: the surviving bounds always order
			// strictly around the item, while a collapsed pair
			// shares one element value.
			if _, _, uerr := ls.uniqPivots(left, middle, right); uerr != nil {
				return 0, false, uerr
			}

			if isLess {
				left = middle
			} else {
				right = middle
			}
		}

		if serr := ls.insertionSort(left.Idx+1, right.Idx); serr != nil {
			return 0, false, serr
		}
		left.Flags |= treap.SortedLeft
		right.Flags |= treap.SortedRight
		ls.piv.Depivot(left, right)
	}

	// The bounded region is now sorted.  Everything left of it orders
	// strictly before item, so the first equal element, if any, is the
	// first match in the region.  The right pivot itself can hold an
	// equal element, so include it in the scan unless it is the sentinel.
	scanEnd := right.Idx
	if right.Idx != n {
		scanEnd = right.Idx + 1
	}
	for k := left.Idx + 1; k < scanEnd; k++ {
		equal, eerr := ls.eq(item, ls.xs[k])
		if eerr != nil {
			return 0, false, eerr
		}
		if equal {
			return k, true, nil
		}
	}
	return 0, false, nil
}
