package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/modumall/storefront-gateway/internal/cart"
	"github.com/modumall/storefront-gateway/pkg/enums"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/pricing"
)

// Selection holds the member's checkout choices. Every field is settable
// independently and in any order; completeness is only enforced at submit.
type Selection struct {
	AddressID       *int64             `json:"address_id,omitempty"`
	PaymentType     *enums.PaymentType `json:"payment_type,omitempty"`
	PaymentMethodID *int64             `json:"payment_method_id,omitempty"`
	PointsUsed      int64              `json:"points_used"`
}

// Attempt records the latest payment dispatch for the session.
type Attempt struct {
	PaymentType enums.PaymentType `json:"payment_type"`
	PaymentKey  string            `json:"payment_key,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	FailureCode string            `json:"failure_code,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	At          time.Time         `json:"at"`
}

// OrderRef points at the draft order created for this session.
type OrderRef struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// Session is the checkout state for one cart snapshot. It lives in Redis for
// the duration of checkout, survives the gateway redirect via the signed
// session token, and is discarded on completion.
type Session struct {
	ID          string              `json:"id"`
	MemberToken string              `json:"member_token"`
	Snapshot    cart.Snapshot       `json:"snapshot"`
	Selection   Selection           `json:"selection"`
	State       enums.DispatchState `json:"state"`
	Order       *OrderRef           `json:"order,omitempty"`
	Attempt     *Attempt            `json:"attempt,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewSession freezes a cart snapshot into a fresh checkout session.
func NewSession(snapshot cart.Snapshot, memberToken string, now time.Time) *Session {
	return &Session{
		ID:          uuid.NewString(),
		MemberToken: memberToken,
		Snapshot:    snapshot,
		State:       enums.DispatchStateIdle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Summary returns the price breakdown with the current point redemption
// applied.
func (s *Session) Summary() pricing.Summary {
	return s.Snapshot.Summary.WithPoints(s.Snapshot.AvailablePoints, s.Selection.PointsUsed)
}

// SelectAddress records the delivery address choice.
func (s *Session) SelectAddress(addressID int64, now time.Time) error {
	if addressID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id must be positive")
	}
	s.Selection.AddressID = &addressID
	s.UpdatedAt = now
	return nil
}

// SelectPaymentType records the payment type. Changing the type clears any
// previously chosen payment method, which belongs to the old type.
func (s *Session) SelectPaymentType(paymentType enums.PaymentType, now time.Time) error {
	if !paymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment type")
	}
	if s.Selection.PaymentType == nil || *s.Selection.PaymentType != paymentType {
		s.Selection.PaymentMethodID = nil
	}
	s.Selection.PaymentType = &paymentType
	s.UpdatedAt = now
	return nil
}

// SelectPaymentMethod records a saved payment method. A method only makes
// sense under an already-chosen payment type.
func (s *Session) SelectPaymentMethod(methodID int64, now time.Time) error {
	if s.Selection.PaymentType == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidState, "select a payment type before a payment method")
	}
	if methodID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method id must be positive")
	}
	s.Selection.PaymentMethodID = &methodID
	s.UpdatedAt = now
	return nil
}

// SetPointsUsed clamps the requested redemption against the balance and the
// payable amount, then stores it. The clamp means this never fails.
func (s *Session) SetPointsUsed(requested int64, now time.Time) {
	applied := s.Snapshot.Summary.WithPoints(s.Snapshot.AvailablePoints, requested)
	s.Selection.PointsUsed = applied.PointsUsed
	s.UpdatedAt = now
}

// Transition moves the dispatch state machine, rejecting moves the machine
// does not permit.
func (s *Session) Transition(next enums.DispatchState, now time.Time) error {
	if !s.State.CanTransitionTo(next) {
		return pkgerrors.New(pkgerrors.CodeInvalidState, "payment already in progress or settled").
			WithDetails(map[string]any{"from": s.State.String(), "to": next.String()})
	}
	s.State = next
	s.UpdatedAt = now
	return nil
}

// validateForSubmit checks the selection is complete enough to draft an
// order.
func (s *Session) validateForSubmit() error {
	if len(s.Snapshot.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items to check out")
	}
	if s.Selection.AddressID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if s.Selection.PaymentType == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment type is required")
	}
	return nil
}
