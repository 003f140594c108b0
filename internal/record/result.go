package record

// Result is the outcome of a read: either Success carrying a value or Error
// carrying a cause. The zero value is a Success of the zero T.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Error wraps err. A nil err is replaced with ErrInvalidState so the result
// still reads as a failure.
func Error[T any](err error) Result[T] {
	if err == nil {
		err = ErrInvalidState
	}
	return Result[T]{err: err}
}

// IsSuccess reports which variant r holds.
func (r Result[T]) IsSuccess() bool { return r.err == nil }

// Value is the success value, or the zero T for an Error.
func (r Result[T]) Value() T { return r.value }

// Err is the failure cause, or nil for a Success.
func (r Result[T]) Err() error { return r.err }

// Unwrap converts r to the usual (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Match calls exactly one of the handlers.
func (r Result[T]) Match(onSuccess func(T), onError func(error)) {
	if r.err != nil {
		onError(r.err)
		return
	}
	onSuccess(r.value)
}
