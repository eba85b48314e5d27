package backend

import "context"

// CartEntry mirrors a cart line as the backend reports it. DiscountRate is a
// fractional promotional rate ("0.1" for 10% off), empty when the product is
// not on promotion.
type CartEntry struct {
	CartEntryID  int64  `json:"cartId"`
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	UnitPrice    int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	LineTotal    int64  `json:"totalPrice"`
	DiscountRate string `json:"discountRate,omitempty"`
}

// CartView is the payload returned by GET /api/cart.
type CartView struct {
	Items []CartEntry `json:"items"`
}

// PointsBalance is the member's spendable point balance.
type PointsBalance struct {
	AvailablePoints int64 `json:"availablePoints"`
}

// FetchCart reads the member's authoritative cart.
func (c *Client) FetchCart(ctx context.Context, memberToken string) (*CartView, error) {
	var view CartView
	if err := c.get(ctx, memberToken, "/api/cart", &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// FetchPointsBalance reads the member's point balance.
func (c *Client) FetchPointsBalance(ctx context.Context, memberToken string) (*PointsBalance, error) {
	var balance PointsBalance
	if err := c.get(ctx, memberToken, "/api/members/me/points", &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// Address is a member delivery address.
type Address struct {
	AddressID int64  `json:"addressId"`
	Label     string `json:"label"`
	Recipient string `json:"recipient"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

// ListAddresses returns the member's saved delivery addresses.
func (c *Client) ListAddresses(ctx context.Context, memberToken string) ([]Address, error) {
	var addresses []Address
	if err := c.get(ctx, memberToken, "/api/members/me/addresses", &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}
