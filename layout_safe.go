//go:build nounsafe

package cstr

// borrowText returns copy of s.
func borrowText(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return []byte(s)
}
