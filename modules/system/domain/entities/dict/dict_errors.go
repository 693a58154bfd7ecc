package dict

import "github.com/go-faster/errors"

var (
	ErrNotFound      = errors.New("dict not found")
	ErrValueNotFound = errors.New("dict value not found")
)
