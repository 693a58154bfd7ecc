package services

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/serrors"
)

func appIDRequired() *serrors.ServiceError {
	return serrors.BadRequest("APP_ID_REQUIRED", "app_id is required")
}

// mapError translates repository failures into ServiceErrors. Domain not-found sentinels
// are handled by the callers because each resource reports its own code.
func mapError(err error) error {
	if errors.Is(err, composables.ErrNoAppID) {
		return appIDRequired()
	}
	return serrors.MapPg(err)
}

// ScopeApp resolves the application a write belongs to. The request scope wins; a body
// app_id is accepted when the request carries none and must agree with it otherwise.
func ScopeApp(ctx context.Context, bodyAppID string) (context.Context, string, error) {
	bodyAppID = strings.TrimSpace(bodyAppID)
	appID, err := composables.UseAppID(ctx)
	if err != nil {
		if bodyAppID == "" {
			return ctx, "", appIDRequired()
		}
		return composables.WithAppID(ctx, bodyAppID), bodyAppID, nil
	}
	if bodyAppID != "" && bodyAppID != appID {
		return ctx, "", serrors.BadRequest("APP_ID_MISMATCH", "app_id does not match the request scope")
	}
	return ctx, appID, nil
}

// newULID draws from ulid's process-wide monotonic entropy, so ids minted within the
// same millisecond still sort in creation order.
func newULID() string {
	return ulid.Make().String()
}
