package catalog

import (
	"context"
	"fmt"

	"github.com/modumall/storefront-gateway/pkg/backend"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
)

type backendCatalog interface {
	ListProducts(ctx context.Context, category string) ([]backend.Product, error)
	GetProduct(ctx context.Context, productID int64) (*backend.Product, error)
	ListWishlist(ctx context.Context, memberToken string) ([]backend.Product, error)
	AddWishlistItem(ctx context.Context, memberToken string, productID int64) error
	RemoveWishlistItem(ctx context.Context, memberToken string, productID int64) error
	ListReviews(ctx context.Context, productID int64) ([]backend.Review, error)
	CreateReview(ctx context.Context, memberToken string, req backend.CreateReviewRequest) (*backend.Review, error)
}

// ReviewDraft carries a member's review submission.
type ReviewDraft struct {
	ProductID int64
	Rating    int
	Content   string
}

// Service fronts the backend catalog for storefront browsing.
type Service interface {
	ListProducts(ctx context.Context, category string) ([]backend.Product, error)
	GetProduct(ctx context.Context, productID int64) (*backend.Product, error)
	Wishlist(ctx context.Context, memberToken string) ([]backend.Product, error)
	AddToWishlist(ctx context.Context, memberToken string, productID int64) error
	RemoveFromWishlist(ctx context.Context, memberToken string, productID int64) error
	ListReviews(ctx context.Context, productID int64) ([]backend.Review, error)
	SubmitReview(ctx context.Context, memberToken string, draft ReviewDraft) (*backend.Review, error)
}

type service struct {
	backend backendCatalog
}

func NewService(backendClient backendCatalog) (Service, error) {
	if backendClient == nil {
		return nil, fmt.Errorf("backend client required")
	}
	return &service{backend: backendClient}, nil
}

func (s *service) ListProducts(ctx context.Context, category string) ([]backend.Product, error) {
	products, err := s.backend.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []backend.Product{}
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, productID int64) (*backend.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	return s.backend.GetProduct(ctx, productID)
}

func (s *service) Wishlist(ctx context.Context, memberToken string) ([]backend.Product, error) {
	products, err := s.backend.ListWishlist(ctx, memberToken)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []backend.Product{}
	}
	return products, nil
}

func (s *service) AddToWishlist(ctx context.Context, memberToken string, productID int64) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	return s.backend.AddWishlistItem(ctx, memberToken, productID)
}

func (s *service) RemoveFromWishlist(ctx context.Context, memberToken string, productID int64) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	return s.backend.RemoveWishlistItem(ctx, memberToken, productID)
}

func (s *service) ListReviews(ctx context.Context, productID int64) ([]backend.Review, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	reviews, err := s.backend.ListReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []backend.Review{}
	}
	return reviews, nil
}

// SubmitReview validates the draft before forwarding it. The backend enforces
// the purchased-product rule; the gateway only rejects obviously bad input.
func (s *service) SubmitReview(ctx context.Context, memberToken string, draft ReviewDraft) (*backend.Review, error) {
	if draft.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if draft.Rating < 1 || draft.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return s.backend.CreateReview(ctx, memberToken, backend.CreateReviewRequest{
		ProductID: draft.ProductID,
		Rating:    draft.Rating,
		Content:   draft.Content,
	})
}
