package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/modumall/storefront-gateway/api/middleware"
	"github.com/modumall/storefront-gateway/api/responses"
	"github.com/modumall/storefront-gateway/api/validators"
	"github.com/modumall/storefront-gateway/internal/checkout"
	"github.com/modumall/storefront-gateway/pkg/logger"
)

type selectAddressRequest struct {
	AddressID int64 `json:"address_id" validate:"required,min=1"`
}

type selectPaymentTypeRequest struct {
	PaymentType string `json:"payment_type" validate:"required,oneof=CARD VIRTUAL_ACCOUNT NORMAL"`
}

type selectPaymentMethodRequest struct {
	PaymentMethodID int64 `json:"payment_method_id" validate:"required,min=1"`
}

type setPointsRequest struct {
	Points int64 `json:"points" validate:"min=0"`
}

// StartCheckout freezes the member's cart into a new checkout session.
func StartCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.Start(r.Context(), middleware.MemberTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// GetCheckout returns the current session view.
func GetCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.Get(r.Context(), sessionIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SelectAddress records the delivery address choice.
func SelectAddress(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectAddressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.SelectAddress(r.Context(), sessionIDParam(r), req.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SelectPaymentType records the payment type choice.
func SelectPaymentType(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectPaymentTypeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.SelectPaymentType(r.Context(), sessionIDParam(r), req.PaymentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SelectPaymentMethod records a saved payment method choice.
func SelectPaymentMethod(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectPaymentMethodRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.SelectPaymentMethod(r.Context(), sessionIDParam(r), req.PaymentMethodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SetPoints records the point redemption, clamped server-side.
func SetPoints(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setPointsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.SetPoints(r.Context(), sessionIDParam(r), req.Points)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SubmitCheckout drafts the order and dispatches payment.
func SubmitCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Submit(r.Context(), sessionIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func sessionIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "sessionID"))
}
