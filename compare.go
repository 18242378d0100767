package bimap

// Comparer is implemented by types that know how to order themselves.
// Compare returns a negative number when the receiver sorts before
// other, zero when they are equivalent and a positive number otherwise.
type Comparer[T any] interface {
	Compare(other T) int
}

// ByMethod orders values using their Compare method.
func ByMethod[T Comparer[T]](a, b T) int {
	return a.Compare(b)
}

// FromLess turns a strict weak ordering into a comparison function.
func FromLess[T any](less func(a, b T) bool) func(a, b T) int {
	return func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	}
}

// Reverse inverts a comparison function.
func Reverse[T any](cmp func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		return cmp(b, a)
	}
}
