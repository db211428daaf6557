package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printshop/internal/cart"
	"printshop/internal/checkout"
	"printshop/internal/models"
)

// CartView is a snapshot of a session's cart.
type CartView struct {
	Items     []models.CartLineItem `json:"items"`
	ItemCount int                   `json:"itemCount"`
	Total     decimal.Decimal       `json:"total"`
}

// session is one visitor's cart and checkout wizard.
type session struct {
	mu       sync.Mutex
	cart     *cart.Cart
	wizard   *checkout.Wizard
	lastSeen atomic.Int64 // unix nanoseconds
}

// SessionService keeps per-visitor carts and checkout wizards in memory.
// Each session is serialized by its own mutex.
type SessionService struct {
	orders checkout.OrderCreator
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionService creates a SessionService whose sessions expire after ttl
// without activity.
func NewSessionService(orders checkout.OrderCreator, ttl time.Duration, log *zap.Logger) *SessionService {
	return &SessionService{
		orders:   orders,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// with runs fn on the session id, creating it on first use. The session is
// marked as seen while s.mu is held, so Sweep cannot drop it between the
// lookup and fn.
func (s *SessionService) with(id string, fn func(*session)) {
	seen := s.now().UnixNano()

	s.mu.RLock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen.Store(seen)
	}
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		if sess, ok = s.sessions[id]; !ok {
			c := cart.New()
			sess = &session{cart: c, wizard: checkout.NewWizard(c, s.orders)}
			s.sessions[id] = sess
		}
		sess.lastSeen.Store(seen)
		s.mu.Unlock()
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess)
}

// Cart returns the session's cart.
func (s *SessionService) Cart(id string) CartView {
	var view CartView
	s.with(id, func(sess *session) { view = cartView(sess.cart) })
	return view
}

// AddItem adds item to the session's cart. Adding after a completed checkout
// starts a new checkout.
func (s *SessionService) AddItem(id string, item models.CartLineItem) (CartView, error) {
	var (
		view CartView
		err  error
	)
	s.with(id, func(sess *session) {
		if sess.wizard.State().Step == checkout.StepSubmitted {
			sess.wizard.Reset()
		}
		err = sess.cart.Add(item)
		view = cartView(sess.cart)
	})
	return view, err
}

// UpdateQuantity sets the quantity of one cart line.
func (s *SessionService) UpdateQuantity(id string, key cart.Key, quantity int) (CartView, error) {
	var (
		view CartView
		err  error
	)
	s.with(id, func(sess *session) {
		err = sess.cart.UpdateQuantity(key, quantity)
		view = cartView(sess.cart)
	})
	return view, err
}

// RemoveItem deletes one cart line and reports whether it existed.
func (s *SessionService) RemoveItem(id string, key cart.Key) (CartView, bool) {
	var (
		view    CartView
		removed bool
	)
	s.with(id, func(sess *session) {
		removed = sess.cart.Remove(key)
		view = cartView(sess.cart)
	})
	return view, removed
}

// ClearCart empties the session's cart.
func (s *SessionService) ClearCart(id string) CartView {
	var view CartView
	s.with(id, func(sess *session) {
		sess.cart.Clear()
		view = cartView(sess.cart)
	})
	return view
}

// Checkout returns the session's wizard state.
func (s *SessionService) Checkout(id string) checkout.State {
	var state checkout.State
	s.with(id, func(sess *session) { state = sess.wizard.State() })
	return state
}

// Dispatch applies ev to the session's wizard. customerID is the signed-in
// customer, or empty for a guest.
func (s *SessionService) Dispatch(id, customerID string, ev checkout.Event) (checkout.State, error) {
	var (
		state checkout.State
		err   error
	)
	s.with(id, func(sess *session) {
		sess.wizard.SetCustomer(customerID)
		state, err = sess.wizard.Dispatch(ev)
	})
	if err != nil {
		s.log.Debug("checkout event rejected", zap.String("session_id", id), zap.Error(err))
	} else if state.Step == checkout.StepSubmitted && state.OrderID != "" {
		s.log.Info("checkout completed", zap.String("session_id", id), zap.String("order_id", state.OrderID))
	}
	return state, err
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped. Sessions with a request in progress are kept.
func (s *SessionService) Sweep() int {
	cutoff := s.now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() >= cutoff || !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
		dropped++
	}
	return dropped
}

// Run sweeps idle sessions periodically until ctx is done.
func (s *SessionService) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

func cartView(c *cart.Cart) CartView {
	return CartView{
		Items:     c.Items(),
		ItemCount: c.Len(),
		Total:     c.Total(),
	}
}
