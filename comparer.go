package cstr

// Hasher is equality and hash capability of K for keyed containers.
type Hasher[K any] interface {
	Equal(a, b K) bool
	Hash(k K) uint64
}

// Comparer implements Hasher and ordering for View.
type Comparer struct{}

// EqualityComparer is the default Comparer.
var EqualityComparer Comparer

var _ Hasher[View] = Comparer{}

// Equal reports whether a and b have same content, see View.Equal.
func (Comparer) Equal(a, b View) bool { return a.Equal(b) }

// Hash returns hash of v, 0 for Null.
func (Comparer) Hash(v View) uint64 {
	if v.IsNull() {
		return 0
	}
	return v.Hash()
}

// Compare is View.Compare, suitable for slices.SortFunc.
func (Comparer) Compare(a, b View) int { return a.Compare(b) }
