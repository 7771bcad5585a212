// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package treap

import (
	"fmt"
)

// Flags describe what is known about the regions flanking a pivot.  A region
// is the run of array positions strictly between two consecutive pivots.
type Flags uint8

const (
	// Unsorted means nothing is known about the flanking regions.
	Unsorted Flags = 0

	// SortedRight means the region to the left of the pivot, up to the
	// previous pivot, is in sorted order.
	SortedRight Flags = 1 << 0

	// SortedLeft means the region to the right of the pivot, up to the
	// next pivot, is in sorted order.
	SortedLeft Flags = 1 << 1

	// SortedBoth means both flanking regions are in sorted order.  A
	// non-sentinel pivot in this state carries no information and is
	// removed by Depivot.
	SortedBoth = SortedRight | SortedLeft
)

// String returns the flags as a human-readable name.
func (f Flags) String() string {
	switch f {
	case Unsorted:
		return "UNSORTED"
	case SortedRight:
		return "SORTED_RIGHT"
	case SortedLeft:
		return "SORTED_LEFT"
	case SortedBoth:
		return "SORTED_BOTH"
	}
	return fmt.Sprintf("Flags(%d)", uint8(f))
}

// Node represents a pivot in the tree.  The element at array position Idx is
// known to be in its final sorted position.  The two sentinel nodes carry the
// out-of-range indices -1 and n so that every traversal is bounded without
// nil checks.
//
// The parent pointer is a back-reference for O(1) upward navigation only.
// Children are owned by their parent.
type Node struct {
	Idx      int
	Flags    Flags
	priority int
	parent   *Node
	left     *Node
	right    *Node
}

// Succ returns the in-order successor of the node, or nil when the node is
// the rightmost pivot in the tree.
func (n *Node) Succ() *Node {
	curr := n
	if curr.right != nil {
		curr = curr.right
		for curr.left != nil {
			curr = curr.left
		}
		return curr
	}

	for curr.parent != nil && curr.parent.Idx < curr.Idx {
		curr = curr.parent
	}
	return curr.parent
}
