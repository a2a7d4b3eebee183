package utils

func ReversedSlice[T any](s []T) []T {
	reversed := make([]T, len(s))
	copy(reversed, s)

	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}

	return reversed
}

func MapSlice[T any, U any](s []T, mapper func(e T) U) []U {
	result := make([]U, len(s))

	for i, e := range s {
		result[i] = mapper(e)
	}

	return result
}

// RepeatSlice returns a slice made of count copies of s.
func RepeatSlice[T any](s []T, count int) []T {
	result := make([]T, 0, len(s)*count)
	for i := 0; i < count; i++ {
		result = append(result, s...)
	}
	return result
}

// ReplaceInSlice returns a copy of s where the n elements starting at first are replaced by elems,
// first and n are clamped to the bounds of s.
func ReplaceInSlice[T any](s []T, first, n int, elems []T) []T {
	first = Clamp(first, 0, len(s))
	n = Clamp(n, 0, len(s)-first)

	result := make([]T, 0, len(s)-n+len(elems))
	result = append(result, s[:first]...)
	result = append(result, elems...)
	result = append(result, s[first+n:]...)
	return result
}
