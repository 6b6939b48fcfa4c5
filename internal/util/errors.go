package util

import "errors"

var (
	ErrTopicRequired   = errors.New("topic required")
	ErrAPIKeyMissing   = errors.New("GEMINI_API_KEY is not set")
	ErrContactRequired = errors.New("contact required")
	ErrInvalidCode     = errors.New("invalid code")
)
