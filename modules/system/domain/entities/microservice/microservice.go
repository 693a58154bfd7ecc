package microservice

import (
	"context"
	"time"

	"github.com/laurel-hq/laurel/pkg/enums"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

var Statuses = enums.NewCatalog(
	enums.Option[Status]{Value: StatusOpen, Label: "Open"},
	enums.Option[Status]{Value: StatusClosed, Label: "Closed"},
)

// Service is a front-end micro application mounted into the shell of an app.
type Service struct {
	ID           int64
	AppID        string
	ServiceID    string
	ServiceName  string
	ServiceEntry string
	MountPoint   string
	RoutePattern string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type FindParams struct {
	ServiceName string
	Status      string
	Limit       int
	Offset      int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Service, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByServiceID(ctx context.Context, serviceID string) (*Service, error)
	Create(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
}
