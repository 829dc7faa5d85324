package domain

// Result is a tagged Success(value) | Failure. The failure reason is intentionally
// not carried: callers only branch on the tag.
type Result[T any] struct {
	value T
	ok    bool
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure returns the failed variant.
func Failure[T any]() Result[T] {
	return Result[T]{}
}

// ResultOf maps a (value, error) pair into a Result.
func ResultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T]()
	}
	return Success(v)
}

func (r Result[T]) IsSuccess() bool { return r.ok }
func (r Result[T]) IsFailure() bool { return !r.ok }

// Get returns the value and whether the result is a success.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.ok
}

// OrElse returns the value on success and def otherwise.
func (r Result[T]) OrElse(def T) T {
	if !r.ok {
		return def
	}
	return r.value
}

func (r Result[T]) String() string {
	if r.ok {
		return "Success"
	}
	return "Failure"
}
