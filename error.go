// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazysorted

import (
	"errors"
)

var (
	// ErrIndexOutOfRange is returned when a caller-supplied index falls
	// outside the valid range for the sequence.  It is rejected before
	// any partial sorting takes place.
	ErrIndexOutOfRange = errors.New("sequence index out of range")

	// ErrNotFound is returned by IndexOf when the requested element is
	// not present in the sequence.
	ErrNotFound = errors.New("element is not in the sequence")

	// ErrZeroStep is returned when a slice is requested with a step of
	// zero.
	ErrZeroStep = errors.New("slice step cannot be zero")
)
