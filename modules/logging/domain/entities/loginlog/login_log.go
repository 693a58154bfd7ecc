package loginlog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrInvalid = errors.New("login log payload is required")

type LoginLog struct {
	ID          int64
	TicketID    string
	Account     string
	LoginType   string
	LoginState  string
	LoginResult string
	IP          string
	Location    string
	Browser     string
	OS          string
	Device      string
	CreatedAt   time.Time
	LoginAt     time.Time
}

type FindParams struct {
	Account    string
	IP         string
	LoginState string
	LoginFrom  *time.Time
	LoginTo    *time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*LoginLog, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, log *LoginLog) error
}

// AttemptedEvent is published by whoever authenticates a user, once per attempt.
type AttemptedEvent struct {
	Result LoginLog
}
