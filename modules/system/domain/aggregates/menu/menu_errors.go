package menu

import "github.com/go-faster/errors"

var ErrNotFound = errors.New("menu not found")
