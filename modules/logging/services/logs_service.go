package services

import (
	"context"
	"strings"
	"time"

	"github.com/laurel-hq/laurel/modules/logging/domain/entities/loginlog"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/repo"
	"github.com/laurel-hq/laurel/pkg/serrors"
)

// DefaultPageSize applies to login log pages requested without a size.
const DefaultPageSize = 15

type CreateLoginLogInput struct {
	TicketID    string `json:"ticket_id" validate:"required,max=64"`
	Account     string `json:"account" validate:"required,max=128"`
	LoginType   string `json:"login_type" validate:"required,max=32"`
	LoginState  string `json:"login_state" validate:"required,max=32"`
	LoginResult string `json:"login_result" validate:"max=255"`
	IP          string `json:"ip" validate:"max=64"`
	Location    string `json:"location" validate:"max=128"`
	Browser     string `json:"browser" validate:"max=128"`
	OS          string `json:"os" validate:"max=128"`
	Device      string `json:"device" validate:"max=128"`
	// LoginCts uses constants.DateTimeLayout; an unparsable value falls back to now.
	LoginCts string `json:"login_cts"`
}

type QueryLoginLogInput struct {
	Account       string `json:"account"`
	IP            string `json:"ip"`
	LoginState    string `json:"login_state"`
	LoginCtsStart string `json:"login_cts_start"`
	LoginCtsEnd   string `json:"login_cts_end"`
	repo.PageRequest
}

type LogsService struct {
	repo loginlog.Repository
	now  func() time.Time
}

func NewLogsService(repo loginlog.Repository) *LogsService {
	return &LogsService{repo: repo, now: time.Now}
}

func parseDateTime(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(constants.DateTimeLayout, value, time.Local)
	if err != nil {
		return nil, serrors.BadRequest("INVALID_ARGUMENT", field+" must look like "+constants.DateTimeLayout)
	}
	return &t, nil
}

func (s *LogsService) Page(ctx context.Context, in *QueryLoginLogInput) (*repo.Page[*loginlog.LoginLog], error) {
	if in == nil {
		in = &QueryLoginLogInput{}
	}
	from, err := parseDateTime("login_cts_start", in.LoginCtsStart)
	if err != nil {
		return nil, err
	}
	to, err := parseDateTime("login_cts_end", in.LoginCtsEnd)
	if err != nil {
		return nil, err
	}
	params := &loginlog.FindParams{
		Account:    in.Account,
		IP:         in.IP,
		LoginState: in.LoginState,
		LoginFrom:  from,
		LoginTo:    to,
	}
	req := in.PageRequest
	if req.Size == 0 {
		req.Size = DefaultPageSize
	}

	page, err := composables.PageInSnapshot(ctx, req,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, params) },
		func(ctx context.Context, offset, limit int) ([]*loginlog.LoginLog, error) {
			p := *params
			p.Offset, p.Limit = offset, limit
			return s.repo.List(ctx, &p)
		},
	)
	if err != nil {
		return nil, serrors.MapPg(err)
	}
	return page, nil
}

// Create stores one login attempt and returns its id.
func (s *LogsService) Create(ctx context.Context, in *CreateLoginLogInput) (int64, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return 0, serrors.Validation(err)
	}
	now := s.now()
	loginAt := now
	if t, err := parseDateTime("login_cts", in.LoginCts); err != nil {
		composables.UseLogger(ctx).WithField("login_cts", in.LoginCts).Warn("invalid login_cts, using current time")
	} else if t != nil {
		loginAt = *t
	}

	entry := &loginlog.LoginLog{
		TicketID:    strings.TrimSpace(in.TicketID),
		Account:     strings.TrimSpace(in.Account),
		LoginType:   in.LoginType,
		LoginState:  in.LoginState,
		LoginResult: in.LoginResult,
		IP:          in.IP,
		Location:    in.Location,
		Browser:     in.Browser,
		OS:          in.OS,
		Device:      in.Device,
		CreatedAt:   now,
		LoginAt:     loginAt,
	}
	if err := s.Record(ctx, entry); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// Record persists an already assembled entry, as delivered by login events.
func (s *LogsService) Record(ctx context.Context, entry *loginlog.LoginLog) error {
	if entry == nil {
		return serrors.BadRequest("INVALID_ARGUMENT", loginlog.ErrInvalid.Error())
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, entry)
	}); err != nil {
		return serrors.MapPg(err)
	}
	return nil
}
