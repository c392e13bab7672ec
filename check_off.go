//go:build !cstrcheck

package cstr

// checked enables bounds checks of View.At.
const checked = false
