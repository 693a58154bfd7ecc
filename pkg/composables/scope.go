package composables

import (
	"context"
	"errors"
	"strings"

	"github.com/laurel-hq/laurel/pkg/constants"
)

var ErrNoAppID = errors.New("app id not found in context")

// WithAppID scopes ctx to one application; menus and micro services are partitioned by it.
func WithAppID(ctx context.Context, appID string) context.Context {
	return context.WithValue(ctx, constants.AppIDKey, strings.TrimSpace(appID))
}

func UseAppID(ctx context.Context) (string, error) {
	appID, ok := ctx.Value(constants.AppIDKey).(string)
	if !ok || appID == "" {
		return "", ErrNoAppID
	}
	return appID, nil
}
