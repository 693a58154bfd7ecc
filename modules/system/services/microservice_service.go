package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/laurel-hq/laurel/modules/system/domain/entities/microservice"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/repo"
	"github.com/laurel-hq/laurel/pkg/serrors"
)

type CreateMicroServiceInput struct {
	AppID        string `json:"app_id"`
	ServiceName  string `json:"service_name" validate:"required,max=64"`
	ServiceEntry string `json:"service_entry" validate:"required,max=255"`
	MountPoint   string `json:"mount_point" validate:"max=128"`
	RoutePattern string `json:"route_pattern" validate:"max=255"`
	Status       string `json:"service_status"`
}

type UpdateMicroServiceInput struct {
	AppID        string  `json:"app_id"`
	ServiceID    string  `json:"service_id"`
	ServiceName  *string `json:"service_name" validate:"omitempty,max=64"`
	ServiceEntry *string `json:"service_entry" validate:"omitempty,max=255"`
	MountPoint   *string `json:"mount_point" validate:"omitempty,max=128"`
	RoutePattern *string `json:"route_pattern" validate:"omitempty,max=255"`
	Status       *string `json:"service_status"`
}

type MicroServiceService struct {
	repo  microservice.Repository
	newID func() string
	now   func() time.Time
}

func NewMicroServiceService(repo microservice.Repository) *MicroServiceService {
	return &MicroServiceService{repo: repo, newID: newULID, now: time.Now}
}

func (s *MicroServiceService) List(ctx context.Context, params *microservice.FindParams) ([]*microservice.Service, error) {
	services, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	return services, nil
}

// Used lists the services of the scoped app that are switched on.
func (s *MicroServiceService) Used(ctx context.Context) ([]*microservice.Service, error) {
	return s.List(ctx, &microservice.FindParams{Status: string(microservice.StatusOpen)})
}

func (s *MicroServiceService) Page(ctx context.Context, params *microservice.FindParams, req repo.PageRequest) (*repo.Page[*microservice.Service], error) {
	if params == nil {
		params = &microservice.FindParams{}
	}
	page, err := composables.PageInSnapshot(ctx, req,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, params) },
		func(ctx context.Context, offset, limit int) ([]*microservice.Service, error) {
			p := *params
			p.Offset, p.Limit = offset, limit
			return s.repo.List(ctx, &p)
		},
	)
	if err != nil {
		return nil, mapError(err)
	}
	return page, nil
}

func (s *MicroServiceService) Create(ctx context.Context, in *CreateMicroServiceInput) (*microservice.Service, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	ctx, appID, err := ScopeApp(ctx, in.AppID)
	if err != nil {
		return nil, err
	}
	status := microservice.StatusOpen
	if strings.TrimSpace(in.Status) != "" {
		if status, err = parseServiceStatus(in.Status); err != nil {
			return nil, err
		}
	}

	now := s.now()
	svc := &microservice.Service{
		AppID:        appID,
		ServiceID:    s.newID(),
		ServiceName:  strings.TrimSpace(in.ServiceName),
		ServiceEntry: strings.TrimSpace(in.ServiceEntry),
		MountPoint:   in.MountPoint,
		RoutePattern: in.RoutePattern,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, mapError(err)
	}
	return svc, nil
}

func (s *MicroServiceService) Update(ctx context.Context, in *UpdateMicroServiceInput) (*microservice.Service, error) {
	serviceID := strings.TrimSpace(in.ServiceID)
	if serviceID == "" {
		return nil, serrors.BadRequest("SERVICE_ID_REQUIRED", "service_id is required")
	}
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	ctx, _, err := ScopeApp(ctx, in.AppID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByServiceID(ctx, serviceID)
	if errors.Is(err, microservice.ErrNotFound) {
		return nil, serviceNotFound(serviceID, err)
	}
	if err != nil {
		return nil, mapError(err)
	}

	if in.ServiceName != nil {
		name := strings.TrimSpace(*in.ServiceName)
		if name == "" {
			return nil, serrors.BadRequest("INVALID_ARGUMENT", "service_name must not be empty")
		}
		current.ServiceName = name
	}
	if in.ServiceEntry != nil {
		current.ServiceEntry = strings.TrimSpace(*in.ServiceEntry)
	}
	if in.MountPoint != nil {
		current.MountPoint = *in.MountPoint
	}
	if in.RoutePattern != nil {
		current.RoutePattern = *in.RoutePattern
	}
	if in.Status != nil {
		st, err := parseServiceStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		current.Status = st
	}
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		if errors.Is(err, microservice.ErrNotFound) {
			return nil, serviceNotFound(serviceID, err)
		}
		return nil, mapError(err)
	}
	return current, nil
}

func serviceNotFound(serviceID string, cause error) *serrors.ServiceError {
	return serrors.NotFound("SERVICE_NOT_FOUND", "micro service "+serviceID+" not found", cause)
}

func parseServiceStatus(v string) (microservice.Status, error) {
	st, ok := microservice.Statuses.Find(strings.TrimSpace(v))
	if !ok {
		return "", invalidOption("service_status", v)
	}
	return st, nil
}
