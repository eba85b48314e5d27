package backend

import (
	"context"
	"fmt"
	"net/url"
)

// Product is the catalog summary used by storefront listings.
type Product struct {
	ProductID    int64  `json:"productId"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Category     string `json:"category"`
	ImageURL     string `json:"imageUrl,omitempty"`
	StockQty     int64  `json:"stockQuantity"`
	AvgRating    string `json:"avgRating,omitempty"`
	ReviewsCount int64  `json:"reviewsCount"`
}

// Review is a product review record.
type Review struct {
	ReviewID  int64  `json:"reviewId"`
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// CreateReviewRequest is the body for POST /api/reviews.
type CreateReviewRequest struct {
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
}

// ListProducts returns catalog products, optionally filtered by category.
func (c *Client) ListProducts(ctx context.Context, category string) ([]Product, error) {
	path := "/api/products"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var products []Product
	if err := c.get(ctx, "", path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single catalog product.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var product Product
	if err := c.get(ctx, "", fmt.Sprintf("/api/products/%d", productID), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListWishlist returns the member's wishlist products.
func (c *Client) ListWishlist(ctx context.Context, memberToken string) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, memberToken, "/api/wishlist", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddWishlistItem adds a product to the member's wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, memberToken string, productID int64) error {
	body := map[string]int64{"productId": productID}
	return c.post(ctx, memberToken, "/api/wishlist", body, nil)
}

// RemoveWishlistItem removes a product from the member's wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, memberToken string, productID int64) error {
	return c.delete(ctx, memberToken, fmt.Sprintf("/api/wishlist/%d", productID))
}

// ListReviews returns the reviews for a product.
func (c *Client) ListReviews(ctx context.Context, productID int64) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, "", fmt.Sprintf("/api/products/%d/reviews", productID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview submits a review for a purchased product.
func (c *Client) CreateReview(ctx context.Context, memberToken string, req CreateReviewRequest) (*Review, error) {
	var review Review
	if err := c.post(ctx, memberToken, "/api/reviews", req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}
