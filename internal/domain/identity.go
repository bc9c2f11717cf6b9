package domain

// Identity is the authenticated caller as produced by token verification.
type Identity struct {
	SubjectID string
	IsAdmin   bool
}
