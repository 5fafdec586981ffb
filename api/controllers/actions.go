package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/api/responses"
	"github.com/creatorlane/creatorlane-backend/api/validators"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/pkg/actiontoken"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
)

const invalidLinkMessage = "invalid or expired link"

// actionResponse is the public shape of a resolved brand action.
type actionResponse struct {
	Outcome      collabs.Outcome `json:"outcome"`
	Status       string          `json:"status"`
	DealID       *uuid.UUID      `json:"deal_id,omitempty"`
	NewRequestID *uuid.UUID      `json:"new_request_id,omitempty"`
}

// CollabAction redeems a signed accept or decline link. The action is derived
// exclusively from the verified token; nothing else in the request is trusted.
func CollabAction(codec *actiontoken.Codec, svc collabs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if codec == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "action endpoint unavailable"))
			return
		}

		claims, err := verifyLinkToken(r, codec, logg, strings.TrimSpace(r.URL.Query().Get("token")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuid.Parse(claims.RequestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "this request no longer exists"))
			return
		}

		result, err := applyWithRetry(r, svc, collabs.ActionInput{
			RequestID: requestID,
			Action:    claims.Action,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeActionResult(r, w, logg, result)
	}
}

// counterRequest carries the brand's replacement terms. The token proves the
// bearer holds a live action link for the request being countered.
type counterRequest struct {
	Token        string          `json:"token" validate:"required"`
	DealAmount   decimal.Decimal `json:"deal_amount" validate:"required"`
	Currency     string          `json:"currency,omitempty"`
	Deliverables string          `json:"deliverables,omitempty"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	Message      *string         `json:"message,omitempty"`
}

// CollabCounter submits a counter-offer against the tokenized request.
func CollabCounter(codec *actiontoken.Codec, svc collabs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if codec == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "action endpoint unavailable"))
			return
		}

		var body counterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := verifyLinkToken(r, codec, logg, body.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuid.Parse(claims.RequestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "this request no longer exists"))
			return
		}

		result, err := applyWithRetry(r, svc, collabs.ActionInput{
			RequestID: requestID,
			Action:    enums.CollabActionCounter,
			CounterTerms: &collabs.CounterTerms{
				DealAmount:   body.DealAmount,
				Currency:     body.Currency,
				Deliverables: body.Deliverables,
				Deadline:     body.Deadline,
				Message:      body.Message,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeActionResult(r, w, logg, result)
	}
}

// verifyLinkToken collapses every verification failure into one public
// message so the response cannot be used as a signature-vs-expiry oracle.
func verifyLinkToken(r *http.Request, codec *actiontoken.Codec, logg *logger.Logger, token string) (*actiontoken.Claims, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidLinkMessage)
	}
	claims, err := codec.Verify(token)
	if err != nil {
		if actiontoken.IsInvalidLink(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidLinkMessage)
		}
		// A correctly signed token carrying an unknown action means the
		// signing secret leaked or minting is broken. Log loudly.
		if logg != nil {
			logg.Error(r.Context(), "action token verified with invalid action kind", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid action kind")
	}
	return claims, nil
}

// applyWithRetry retries exactly once when the store reports a transient
// dependency failure. Anything else propagates as-is.
func applyWithRetry(r *http.Request, svc collabs.Service, input collabs.ActionInput) (*collabs.ActionResult, error) {
	result, err := svc.ApplyAction(r.Context(), input)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency {
			result, err = svc.ApplyAction(r.Context(), input)
		}
	}
	return result, err
}

func writeActionResult(r *http.Request, w http.ResponseWriter, logg *logger.Logger, result *collabs.ActionResult) {
	if result == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "missing action result"))
		return
	}
	if result.Outcome == collabs.OutcomeConflict {
		err := pkgerrors.New(pkgerrors.CodeStateConflict, "this request was already resolved differently").
			WithDetails(map[string]any{"status": string(result.Status)})
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, actionResponse{
		Outcome:      result.Outcome,
		Status:       string(result.Status),
		DealID:       result.DealID,
		NewRequestID: result.NewRequestID,
	})
}
