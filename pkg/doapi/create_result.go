package doapi

// CreateResult is the outcome of a resource-creation operation. Exactly one
// of two variants is populated: Created, meaning the server newly allocated
// the resource, or ConflictedWith, meaning an identically-named resource
// already existed and was returned instead of erroring.
//
// The zero value is not meaningful; use Created or ConflictedWith.
type CreateResult[T any] struct {
	resource   *T
	conflicted bool
}

// Created wraps a resource the server newly allocated.
func Created[T any](resource *T) *CreateResult[T] {
	return &CreateResult[T]{resource: resource}
}

// ConflictedWith wraps the pre-existing resource found after a naming
// conflict. The resource is always real; callers that cannot locate the
// conflicting resource must return a PendingDeletionError instead.
func ConflictedWith[T any](existing *T) *CreateResult[T] {
	return &CreateResult[T]{resource: existing, conflicted: true}
}

// Resource returns the created or pre-existing resource.
func (r *CreateResult[T]) Resource() *T {
	return r.resource
}

// Conflicted reports whether the resource already existed.
func (r *CreateResult[T]) Conflicted() bool {
	return r.conflicted
}
