package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/httpapi"
)

// decodeBody reads a strict JSON body into out; an empty body leaves out untouched.
// On failure it writes the 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := httpapi.DecodeJSON(r.Body, out); err != nil && !errors.Is(err, io.EOF) {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.EnsureRequestID(r), "INVALID_JSON", err.Error())
		return false
	}
	return true
}

func decodeQuery[T any](w http.ResponseWriter, r *http.Request, out *T) bool {
	if _, err := composables.UseQuery(out, r); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.EnsureRequestID(r), "INVALID_QUERY", err.Error())
		return false
	}
	return true
}

// scope resolves the app a read applies to, falling back to the app_id sent in the body.
func scope(w http.ResponseWriter, r *http.Request, bodyAppID string) (context.Context, bool) {
	ctx, _, err := services.ScopeApp(r.Context(), bodyAppID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return nil, false
	}
	return ctx, true
}
