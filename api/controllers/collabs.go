package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/api/middleware"
	"github.com/creatorlane/creatorlane-backend/api/responses"
	"github.com/creatorlane/creatorlane-backend/api/validators"
	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/pagination"
)

type createRequestBody struct {
	BrandName    string          `json:"brand_name" validate:"required"`
	BrandEmail   string          `json:"brand_email" validate:"required,email"`
	BrandPhone   *string         `json:"brand_phone,omitempty"`
	DealType     string          `json:"deal_type" validate:"required"`
	DealAmount   decimal.Decimal `json:"deal_amount" validate:"required"`
	Currency     string          `json:"currency,omitempty"`
	Deliverables string          `json:"deliverables" validate:"required"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	Message      *string         `json:"message,omitempty"`
}

// CollabCreate persists a new proposal owned by the authenticated creator.
func CollabCreate(svc collabs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collabs service unavailable"))
			return
		}

		creatorID, err := creatorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealType, err := enums.ParseDealType(body.DealType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid deal type"))
			return
		}

		var message *string
		if body.Message != nil {
			cleaned := validators.SanitizeString(*body.Message, 2000)
			message = &cleaned
		}

		request, err := svc.Create(r.Context(), collabs.CreateInput{
			CreatorID:    creatorID,
			BrandName:    validators.SanitizeString(body.BrandName, 200),
			BrandEmail:   body.BrandEmail,
			BrandPhone:   body.BrandPhone,
			DealType:     dealType,
			DealAmount:   body.DealAmount,
			Currency:     body.Currency,
			Deliverables: validators.SanitizeString(body.Deliverables, 2000),
			Deadline:     body.Deadline,
			Message:      message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, collabs.RequestDetailFromModel(request))
	}
}

// CollabList returns the creator's requests, newest first, cursor paginated.
func CollabList(svc collabs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collabs service unavailable"))
			return
		}

		creatorID, err := creatorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := collabListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), creatorID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// CollabDetail returns one request owned by the authenticated creator.
func CollabDetail(svc collabs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collabs service unavailable"))
			return
		}

		creatorID, err := creatorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Get(r.Context(), creatorID, requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, collabs.RequestDetailFromModel(request))
	}
}

// CollabAuditLog lists the action trail for one owned request.
func CollabAuditLog(svc collabs.Service, recorder audit.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || recorder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit log unavailable"))
			return
		}

		creatorID, err := creatorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Ownership check; hides foreign requests as not-found.
		if _, err := svc.Get(r.Context(), creatorID, requestID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := recorder.ListForRequest(r.Context(), requestID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit log"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"entries": audit.FromModels(rows)})
	}
}

func collabListFilters(r *http.Request) (collabs.ListFilters, error) {
	var filters collabs.ListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseCollabRequestStatus(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("deal_type")); raw != "" {
		dealType, err := enums.ParseDealType(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid deal_type filter")
		}
		filters.DealType = &dealType
	}
	from, err := queryTime(r, "date_from")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from
	to, err := queryTime(r, "date_to")
	if err != nil {
		return filters, err
	}
	filters.DateTo = to

	return filters, nil
}

func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "timestamps must be RFC3339").WithDetails(map[string]any{"field": key})
	}
	return &t, nil
}

func creatorFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CreatorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "creator identity invalid")
	}
	return id, nil
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
