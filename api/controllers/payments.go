package controllers

import (
	"net/http"
	"strings"

	"github.com/modumall/storefront-gateway/api/responses"
	"github.com/modumall/storefront-gateway/api/validators"
	"github.com/modumall/storefront-gateway/internal/checkout"
	"github.com/modumall/storefront-gateway/pkg/gateway"
	"github.com/modumall/storefront-gateway/pkg/logger"
)

// PaymentConfig hands the browser the public client key it needs to
// initialize the hosted payment widget.
func PaymentConfig(gatewayClient *gateway.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"client_key": gatewayClient.ClientKey(),
		})
	}
}

// PaymentSuccessReturn handles the gateway redirect after a completed
// payment. The query carries the session token plus the gateway's result
// parameters.
func PaymentSuccessReturn(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := validators.RequireQuery(r, "token")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseQueryInt64(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount, err := validators.ParseQueryInt64(r, "amount")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		paymentKey := strings.TrimSpace(r.URL.Query().Get("paymentKey"))

		result, err := svc.HandleSuccessReturn(r.Context(), token, orderID, paymentKey, amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PaymentFailReturn handles the gateway redirect after a failed or abandoned
// payment.
func PaymentFailReturn(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := validators.RequireQuery(r, "token")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code := strings.TrimSpace(r.URL.Query().Get("code"))
		message := strings.TrimSpace(r.URL.Query().Get("message"))

		result, err := svc.HandleFailReturn(r.Context(), token, code, message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
