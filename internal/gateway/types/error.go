package types

import (
	"errors"
	"fmt"
)

var (
	// Validation errors (HTTP 400, no upstream call attempted)
	ErrMissingQuery  = errors.New("missing required parameter: q")
	ErrMissingURL    = errors.New("missing required parameter: url")
	ErrMissingRepo   = errors.New("missing required parameter: repo")
	ErrBadRepoFormat = errors.New("repo must be formatted owner/name")

	// Upstream response errors
	ErrNotJSON        = errors.New("upstream returned a non-JSON body")
	ErrCommitsNotList = errors.New("commits response is not a list")
)

// Upstream targets
const (
	TargetSearch = "search"
	TargetPage   = "page"
	TargetGitHub = "github"
)

// UpstreamError wraps a failure from an outbound call
type UpstreamError struct {
	Target  string
	Code    string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Target, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Target, e.Code, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err maps to a 400 reply
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingQuery) ||
		errors.Is(err, ErrMissingURL) ||
		errors.Is(err, ErrMissingRepo) ||
		errors.Is(err, ErrBadRepoFormat)
}
