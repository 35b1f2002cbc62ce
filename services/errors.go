package services

// ValidationError reports malformed input, rejected before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Resource string // e.g. "receiver", "listing"
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// AuthorizationError reports an operation the caller is not permitted to
// perform on an existing record.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}
