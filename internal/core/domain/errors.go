package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResumeNotFound       = errors.New("resume not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrEmptyExtraction      = errors.New("empty extraction")
	ErrProviderUnconfigured = errors.New("provider unconfigured")
	ErrProviderHTTP         = errors.New("provider http error")
	ErrProviderParse        = errors.New("provider parse error")
	ErrAllProvidersFailed   = errors.New("all providers failed")
	ErrSerialization        = errors.New("value is not serializable")
	ErrTemporary            = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
