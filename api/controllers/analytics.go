package controllers

import (
	"net/http"
	"time"

	"github.com/creatorlane/creatorlane-backend/api/middleware"
	"github.com/creatorlane/creatorlane-backend/api/responses"
	"github.com/creatorlane/creatorlane-backend/internal/analytics"
	"github.com/creatorlane/creatorlane-backend/internal/analytics/types"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
)

const defaultFunnelWindow = 30 * 24 * time.Hour

// AnalyticsFunnel reports the proposal-to-deal funnel for the authenticated
// creator. Without explicit bounds it covers the trailing thirty days.
func AnalyticsFunnel(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		creatorID := middleware.CreatorIDFromContext(r.Context())
		if creatorID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity missing"))
			return
		}

		start, err := queryTime(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := queryTime(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		if end == nil {
			end = &now
		}
		if start == nil {
			from := end.Add(-defaultFunnelWindow)
			start = &from
		}
		if !start.Before(*end) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "start must be before end"))
			return
		}

		report, err := svc.Query(r.Context(), types.FunnelQueryRequest{
			CreatorID: creatorID,
			Start:     start.UTC(),
			End:       end.UTC(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
