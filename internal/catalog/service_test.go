package catalog

import (
	"context"
	"testing"

	"github.com/modumall/storefront-gateway/pkg/backend"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
)

type stubCatalog struct {
	products    []backend.Product
	reviews     []backend.Review
	created     *backend.CreateReviewRequest
	addedIDs    []int64
	removedIDs  []int64
	createCalls int
}

func (s *stubCatalog) ListProducts(ctx context.Context, category string) ([]backend.Product, error) {
	return s.products, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, productID int64) (*backend.Product, error) {
	for i := range s.products {
		if s.products[i].ProductID == productID {
			return &s.products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubCatalog) ListWishlist(ctx context.Context, memberToken string) ([]backend.Product, error) {
	return nil, nil
}

func (s *stubCatalog) AddWishlistItem(ctx context.Context, memberToken string, productID int64) error {
	s.addedIDs = append(s.addedIDs, productID)
	return nil
}

func (s *stubCatalog) RemoveWishlistItem(ctx context.Context, memberToken string, productID int64) error {
	s.removedIDs = append(s.removedIDs, productID)
	return nil
}

func (s *stubCatalog) ListReviews(ctx context.Context, productID int64) ([]backend.Review, error) {
	return s.reviews, nil
}

func (s *stubCatalog) CreateReview(ctx context.Context, memberToken string, req backend.CreateReviewRequest) (*backend.Review, error) {
	s.createCalls++
	s.created = &req
	return &backend.Review{ReviewID: 1, ProductID: req.ProductID, Rating: req.Rating, Content: req.Content}, nil
}

func TestListProductsNeverReturnsNil(t *testing.T) {
	svc, _ := NewService(&stubCatalog{})
	products, err := svc.ListProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if products == nil {
		t.Fatalf("expected empty slice")
	}
}

func TestGetProductRejectsBadID(t *testing.T) {
	svc, _ := NewService(&stubCatalog{})
	_, err := svc.GetProduct(context.Background(), 0)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWishlistMutations(t *testing.T) {
	stub := &stubCatalog{}
	svc, _ := NewService(stub)

	if err := svc.AddToWishlist(context.Background(), "member-token", 11); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveFromWishlist(context.Background(), "member-token", 11); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(stub.addedIDs) != 1 || stub.addedIDs[0] != 11 {
		t.Fatalf("unexpected adds %v", stub.addedIDs)
	}
	if len(stub.removedIDs) != 1 || stub.removedIDs[0] != 11 {
		t.Fatalf("unexpected removes %v", stub.removedIDs)
	}
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	stub := &stubCatalog{}
	svc, _ := NewService(stub)

	_, err := svc.SubmitReview(context.Background(), "member-token", ReviewDraft{ProductID: 5, Rating: 6})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stub.createCalls != 0 {
		t.Fatalf("review forwarded despite bad rating")
	}

	review, err := svc.SubmitReview(context.Background(), "member-token", ReviewDraft{ProductID: 5, Rating: 5, Content: "좋아요"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if review.ProductID != 5 || stub.created.Content != "좋아요" {
		t.Fatalf("unexpected review %+v", review)
	}
}
