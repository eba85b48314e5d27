package controllers

import (
	"net/http"

	"github.com/modumall/storefront-gateway/api/middleware"
	"github.com/modumall/storefront-gateway/api/responses"
	"github.com/modumall/storefront-gateway/internal/cart"
	"github.com/modumall/storefront-gateway/pkg/logger"
)

// ViewCart returns the member's cart with a computed price summary.
func ViewCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.View(r.Context(), middleware.MemberTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ListAddresses returns the member's saved delivery addresses.
func ListAddresses(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addresses, err := svc.Addresses(r.Context(), middleware.MemberTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}
