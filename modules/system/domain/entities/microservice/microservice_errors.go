package microservice

import "github.com/go-faster/errors"

var ErrNotFound = errors.New("micro service not found")
