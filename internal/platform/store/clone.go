package store

// Ptr copies the value behind p so the row and the caller never share it.
func Ptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Slice copies s, keeping nil as nil.
func Slice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
