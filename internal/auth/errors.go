package auth

// ValidationError reports malformed user input caught before any remote
// call. All violations are collected; callers surface only the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return msgInvalidData
	}
	return e.Violations[0]
}

// RemoteError wraps a failure from the auth backend with its localized
// user-facing message.
type RemoteError struct {
	Message string
	Raw     error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Raw }

// SignOutError reports a failed sign-out against the backend.
type SignOutError struct {
	Raw error
}

func (e *SignOutError) Error() string { return msgSignOutFailed }

func (e *SignOutError) Unwrap() error { return e.Raw }
