package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/modumall/storefront-gateway/internal/cart"
	"github.com/modumall/storefront-gateway/internal/orders"
	"github.com/modumall/storefront-gateway/internal/payments"
	"github.com/modumall/storefront-gateway/pkg/auth"
	"github.com/modumall/storefront-gateway/pkg/backend"
	"github.com/modumall/storefront-gateway/pkg/config"
	"github.com/modumall/storefront-gateway/pkg/enums"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/logger"
)

// SubmitResult is the outcome of a submit. CARD payments carry the gateway
// redirect URL; synchronous rails report the settled state directly.
type SubmitResult struct {
	Session     *Session            `json:"session"`
	Order       OrderRef            `json:"order"`
	State       enums.DispatchState `json:"state"`
	RedirectURL string              `json:"redirect_url,omitempty"`
}

// ReturnResult is what the success/fail return handlers render.
type ReturnResult struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status,omitempty"`
	Warning bool   `json:"warning"`
	Reason  string `json:"reason,omitempty"`
}

// Service orchestrates the checkout flow from cart snapshot to settled
// payment.
type Service interface {
	Start(ctx context.Context, memberToken string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	SelectAddress(ctx context.Context, sessionID string, addressID int64) (*Session, error)
	SelectPaymentType(ctx context.Context, sessionID, paymentType string) (*Session, error)
	SelectPaymentMethod(ctx context.Context, sessionID string, methodID int64) (*Session, error)
	SetPoints(ctx context.Context, sessionID string, points int64) (*Session, error)
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
	HandleSuccessReturn(ctx context.Context, token string, orderID int64, paymentKey string, amount int64) (*ReturnResult, error)
	HandleFailReturn(ctx context.Context, token, code, message string) (*ReturnResult, error)
}

// ServiceParams bundles the dependencies required to build the checkout
// service.
type ServiceParams struct {
	Carts      cart.Service
	Store      *SessionStore
	Orders     orders.Service
	Dispatcher payments.Dispatcher
	Reconciler payments.Reconciler
	Logger     *logger.Logger
	SessionCfg config.SessionConfig
	AppBaseURL string
}

type service struct {
	carts      cart.Service
	store      *SessionStore
	orders     orders.Service
	dispatcher payments.Dispatcher
	reconciler payments.Reconciler
	logg       *logger.Logger
	sessionCfg config.SessionConfig
	appBaseURL string
}

// NewService constructs the checkout orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("payment dispatcher required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("payment reconciler required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	appBaseURL := strings.TrimRight(strings.TrimSpace(params.AppBaseURL), "/")
	if appBaseURL == "" {
		return nil, fmt.Errorf("app base url required")
	}
	return &service{
		carts:      params.Carts,
		store:      params.Store,
		orders:     params.Orders,
		dispatcher: params.Dispatcher,
		reconciler: params.Reconciler,
		logg:       params.Logger,
		sessionCfg: params.SessionCfg,
		appBaseURL: appBaseURL,
	}, nil
}

// Start freezes the member's cart into a new checkout session.
func (s *service) Start(ctx context.Context, memberToken string) (*Session, error) {
	if strings.TrimSpace(memberToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "member token is required")
	}

	snapshot, err := s.carts.Snapshot(ctx, memberToken)
	if err != nil {
		return nil, err
	}

	session := NewSession(*snapshot, memberToken, time.Now().UTC())
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSessionID(ctx, session.ID), "checkout session started")
	return session, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Session, error) {
	return s.store.Get(ctx, sessionID)
}

// mutate loads, mutates, and persists a session in one place so individual
// selection handlers stay small.
func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Session) error) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) SelectAddress(ctx context.Context, sessionID string, addressID int64) (*Session, error) {
	return s.mutate(ctx, sessionID, func(session *Session) error {
		return session.SelectAddress(addressID, time.Now().UTC())
	})
}

func (s *service) SelectPaymentType(ctx context.Context, sessionID, paymentType string) (*Session, error) {
	parsed, err := enums.ParsePaymentType(paymentType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return s.mutate(ctx, sessionID, func(session *Session) error {
		return session.SelectPaymentType(parsed, time.Now().UTC())
	})
}

func (s *service) SelectPaymentMethod(ctx context.Context, sessionID string, methodID int64) (*Session, error) {
	return s.mutate(ctx, sessionID, func(session *Session) error {
		return session.SelectPaymentMethod(methodID, time.Now().UTC())
	})
}

func (s *service) SetPoints(ctx context.Context, sessionID string, points int64) (*Session, error) {
	if points < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points must be non-negative")
	}
	return s.mutate(ctx, sessionID, func(session *Session) error {
		session.SetPointsUsed(points, time.Now().UTC())
		return nil
	})
}

// Submit drafts the order and dispatches payment. Two guards keep one
// checkout action to at most one order: a Redis SETNX lock serializes
// concurrent submits for the session, and the persisted state machine rejects
// sequential re-submits. Both are released on every exit path.
func (s *service) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	acquired, err := s.store.AcquireDispatchLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "a submission for this checkout is already in progress")
	}
	defer func() {
		if releaseErr := s.store.ReleaseDispatchLock(ctx, sessionID); releaseErr != nil {
			s.logg.Error(ctx, "failed to release dispatch lock", releaseErr)
		}
	}()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if session.State == enums.DispatchStateFailed {
		// Explicit retry after a failed attempt.
		if err := session.Transition(enums.DispatchStateIdle, now); err != nil {
			return nil, err
		}
	}
	if err := session.validateForSubmit(); err != nil {
		return nil, err
	}
	if err := session.Transition(enums.DispatchStateDispatching, now); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	ctx = s.logg.WithSessionID(ctx, session.ID)

	// Whatever happens below, the session must not be left DISPATCHING.
	defer func() {
		if session.State != enums.DispatchStateDispatching {
			return
		}
		session.State = enums.DispatchStateFailed
		session.UpdatedAt = time.Now().UTC()
		if saveErr := s.store.Save(ctx, session); saveErr != nil {
			s.logg.Error(ctx, "failed to release dispatch guard", saveErr)
		}
	}()

	order, err := s.submitDraft(ctx, session)
	if err != nil {
		return nil, err
	}
	session.Order = &OrderRef{OrderID: order.OrderID, OrderNumber: order.OrderNumber}
	ctx = s.logg.WithOrderID(ctx, strconv.FormatInt(order.OrderID, 10))

	dispatched, err := s.dispatchPayment(ctx, session, order)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Session:     session,
		Order:       *session.Order,
		State:       session.State,
		RedirectURL: dispatched.RedirectURL,
	}, nil
}

func (s *service) submitDraft(ctx context.Context, session *Session) (*backend.Order, error) {
	items := make([]backend.CreateOrderItem, 0, len(session.Snapshot.Items))
	for _, entry := range session.Snapshot.Items {
		items = append(items, backend.CreateOrderItem{ProductID: entry.ProductID, Quantity: entry.Quantity})
	}

	return s.orders.Submit(ctx, session.MemberToken, orders.Draft{
		AddressID:       *session.Selection.AddressID,
		PaymentMethodID: session.Selection.PaymentMethodID,
		PointsUsed:      session.Selection.PointsUsed,
		Items:           items,
	})
}

func (s *service) dispatchPayment(ctx context.Context, session *Session, order *backend.Order) (*payments.DispatchResult, error) {
	now := time.Now().UTC()

	successURL, failURL, err := s.returnURLs(session, now)
	if err != nil {
		return nil, err
	}

	summary := session.Summary()
	dispatched, err := s.dispatcher.Dispatch(ctx, payments.DispatchInput{
		MemberToken:     session.MemberToken,
		OrderID:         order.OrderID,
		OrderNumber:     order.OrderNumber,
		OrderName:       session.Snapshot.OrderName(),
		Amount:          summary.Total,
		PaymentType:     *session.Selection.PaymentType,
		PaymentMethodID: session.Selection.PaymentMethodID,
		SuccessURL:      successURL,
		FailURL:         failURL,
	})
	if err != nil {
		session.State = enums.DispatchStateFailed
		session.Attempt = &Attempt{
			PaymentType: *session.Selection.PaymentType,
			Reason:      "결제 요청에 실패했습니다.",
			At:          now,
		}
		session.UpdatedAt = now
		if saveErr := s.store.Save(ctx, session); saveErr != nil {
			s.logg.Error(ctx, "failed to persist failed dispatch", saveErr)
		}
		return nil, err
	}

	if err := session.Transition(dispatched.NextState, now); err != nil {
		return nil, err
	}
	session.Attempt = &Attempt{
		PaymentType: *session.Selection.PaymentType,
		PaymentKey:  dispatched.PaymentKey,
		RedirectURL: dispatched.RedirectURL,
		At:          now,
	}

	// Synchronous rails settle in the same call.
	if session.State == enums.DispatchStateImmediateResult {
		if err := session.Transition(enums.DispatchStateSucceeded, now); err != nil {
			return nil, err
		}
		if err := s.store.Delete(ctx, session.ID); err != nil {
			s.logg.Error(ctx, "failed to drop settled session", err)
		}
		s.logg.Info(ctx, "checkout settled synchronously")
		return dispatched, nil
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "checkout awaiting gateway")
	return dispatched, nil
}

// returnURLs builds the gateway return routes with a signed session token so
// the redirect can be tied back to this session without client storage.
func (s *service) returnURLs(session *Session, now time.Time) (string, string, error) {
	orderID := ""
	if session.Order != nil {
		orderID = strconv.FormatInt(session.Order.OrderID, 10)
	}
	token, err := auth.MintSessionToken(s.sessionCfg, now, session.ID, orderID)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	query := url.Values{"token": {token}}.Encode()
	return s.appBaseURL + "/api/v1/payments/success?" + query,
		s.appBaseURL + "/api/v1/payments/fail?" + query,
		nil
}

// HandleSuccessReturn resumes a session from the gateway's success redirect.
// Missing payment evidence routes to the failure path with a generic
// message; a confirm failure with trusted evidence is reported as a warning
// rather than blocking the shopper.
func (s *service) HandleSuccessReturn(ctx context.Context, token string, orderID int64, paymentKey string, amount int64) (*ReturnResult, error) {
	session, err := s.sessionFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithSessionID(ctx, session.ID)
	now := time.Now().UTC()

	if session.State != enums.DispatchStateAwaitingGateway {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "session is not awaiting a gateway result").
			WithDetails(map[string]any{"state": session.State.String()})
	}
	if session.Order == nil || session.Order.OrderID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment result does not match the order")
	}
	evidence := payments.Evidence{OrderID: orderID, PaymentKey: paymentKey, Amount: amount}
	if !evidence.Trusted() {
		s.failSession(ctx, session, "MISSING_RESULT", "결제 결과를 확인할 수 없습니다.", now)
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment result is missing or incomplete")
	}
	if amount != session.Summary().Total {
		s.failSession(ctx, session, "AMOUNT_MISMATCH", "결제 금액이 일치하지 않습니다.", now)
		return nil, pkgerrors.New(pkgerrors.CodePayment, "paid amount does not match the order total")
	}

	confirmed, err := s.reconciler.Confirm(ctx, session.MemberToken, evidence)
	if err != nil {
		s.failSession(ctx, session, "CONFIRM_REJECTED", "결제 승인에 실패했습니다.", now)
		return nil, err
	}

	if err := session.Transition(enums.DispatchStateSucceeded, now); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, session.ID); err != nil {
		s.logg.Error(ctx, "failed to drop settled session", err)
	}

	result := &ReturnResult{OrderID: orderID, Status: confirmed.Status}
	if confirmed.Warning != nil {
		result.Warning = true
		result.Status = "PENDING_RECONCILIATION"
	}
	s.logg.Info(ctx, "checkout settled via gateway")
	return result, nil
}

// HandleFailReturn records the gateway's failure redirect. Recovery is a new
// submit from the cart; nothing retries automatically.
func (s *service) HandleFailReturn(ctx context.Context, token, code, message string) (*ReturnResult, error) {
	session, err := s.sessionFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithSessionID(ctx, session.ID)

	reason := payments.FailureReason(code)
	s.failSession(ctx, session, code, reason, time.Now().UTC())

	var orderID int64
	if session.Order != nil {
		orderID = session.Order.OrderID
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{"code": code, "message": message})
	s.logg.Warn(logCtx, "gateway reported payment failure")
	return &ReturnResult{OrderID: orderID, Reason: reason}, nil
}

func (s *service) sessionFromToken(ctx context.Context, token string) (*Session, error) {
	claims, err := auth.ParseSessionToken(s.sessionCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}
	return s.store.Get(ctx, claims.SessionID)
}

func (s *service) failSession(ctx context.Context, session *Session, code, reason string, now time.Time) {
	if session.State.CanTransitionTo(enums.DispatchStateFailed) {
		session.State = enums.DispatchStateFailed
	}
	paymentType := enums.PaymentTypeCard
	if session.Selection.PaymentType != nil {
		paymentType = *session.Selection.PaymentType
	}
	session.Attempt = &Attempt{
		PaymentType: paymentType,
		FailureCode: code,
		Reason:      reason,
		At:          now,
	}
	session.UpdatedAt = now
	if err := s.store.Save(ctx, session); err != nil {
		s.logg.Error(ctx, "failed to persist failed session", err)
	}
}
