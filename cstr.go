// Package cstr implements zero-terminated narrow strings stored in
// unmanaged memory.
//
// Bytes of such strings are allocated from explicit Allocator and are not
// tracked by Go garbage collector, so they can be passed to foreign code
// as plain pointers. Two handle types exist:
//
//   - *String owns its buffer and must be closed exactly once.
//   - View borrows a buffer and never releases it.
//
// Both can be compared with each other, with foreign *byte pointers and with
// Go strings without copying.
package cstr

import (
	"github.com/go-faster/errors"
)

// Null is a view that references no buffer.
//
// Null has zero length, is equal only to itself and sorts after any
// non-null value.
var Null View

// ErrClosed is returned on second String.Close.
var ErrClosed = errors.New("string already closed")

// ErrNoTerminator means that byte slice has no zero byte.
var ErrNoTerminator = errors.New("no zero terminator")
