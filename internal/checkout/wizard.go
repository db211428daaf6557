// Package checkout implements the checkout wizard: review cart, customer
// details, pickup scheduling and confirmation. Navigation is a pure reducer
// over events; placing the order is the only side effect and is performed by
// Wizard.
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"printshop/internal/cart"
	"printshop/internal/models"
)

// Step is a position in the wizard.
type Step int

const (
	StepReviewCart Step = iota
	StepCustomerDetails
	StepSchedulePickup
	StepConfirm
	StepSubmitted
)

var stepNames = [...]string{"review_cart", "customer_details", "schedule_pickup", "confirm", "submitted"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// MarshalText encodes the step by name.
func (s Step) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stepNames) {
		return nil, fmt.Errorf("unknown checkout step %d", int(s))
	}
	return []byte(stepNames[s]), nil
}

// UnmarshalText decodes a step name.
func (s *Step) UnmarshalText(b []byte) error {
	for i, name := range stepNames {
		if name == string(b) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown checkout step %q", b)
}

var (
	ErrCartEmpty         = errors.New("your cart is empty")
	ErrDetailsIncomplete = errors.New("name, email, phone and address are required")
	ErrPickupRequired    = errors.New("please select a pickup date")
	ErrPickupInPast      = errors.New("pickup date must not be in the past")
	ErrNoPreviousStep    = errors.New("already at the first step")
	ErrNotAtConfirm      = errors.New("the order can only be placed from the confirm step")
	ErrAlreadySubmitted  = errors.New("order already submitted")
	ErrSubmitFailed      = errors.New("failed to place order")
	ErrUnknownEvent      = errors.New("unknown checkout event")
)

// State is everything the wizard has accumulated so far.
type State struct {
	Step       Step                   `json:"step"`
	Details    models.CustomerDetails `json:"customerDetails"`
	PickupDate *time.Time             `json:"pickupDate,omitempty"`
	OrderID    string                 `json:"orderId,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Event is a message dispatched to the wizard.
type Event interface {
	isEvent()
}

// Next moves forward one step when the current step's gate passes. At the
// confirm step it places the order.
type Next struct{}

// Back moves back one step.
type Back struct{}

// EnterDetails replaces the customer details.
type EnterDetails struct {
	Details models.CustomerDetails
}

// SelectPickup sets the pickup date and time.
type SelectPickup struct {
	At time.Time
}

// Submit places the order from the confirm step.
type Submit struct{}

func (Next) isEvent()         {}
func (Back) isEvent()         {}
func (EnterDetails) isEvent() {}
func (SelectPickup) isEvent() {}
func (Submit) isEvent()       {}

// Env is the outside information the reducer needs.
type Env struct {
	CartSize int
	Now      time.Time
}

var validate = validator.New()

// Reduce applies ev to s. It never performs I/O: when the event asks for the
// order to be placed and every gate passes, it returns place == true and
// leaves the step at Confirm for the caller to finish. On error the returned
// state is s with Error set to a user-visible message.
func Reduce(s State, env Env, ev Event) (next State, place bool, err error) {
	if s.Step == StepSubmitted {
		return fail(s, ErrAlreadySubmitted)
	}

	switch e := ev.(type) {
	case Next:
		if s.Step == StepConfirm {
			return Reduce(s, env, Submit{})
		}
		if err := gate(s, env, s.Step); err != nil {
			return fail(s, err)
		}
		s.Step++
	case Back:
		if s.Step == StepReviewCart {
			return fail(s, ErrNoPreviousStep)
		}
		s.Step--
	case EnterDetails:
		s.Details = normalize(e.Details)
	case SelectPickup:
		if e.At.IsZero() {
			return fail(s, ErrPickupRequired)
		}
		if e.At.Before(env.Now) {
			return fail(s, ErrPickupInPast)
		}
		at := e.At
		s.PickupDate = &at
	case Submit:
		if s.Step != StepConfirm {
			return fail(s, ErrNotAtConfirm)
		}
		for step := StepReviewCart; step < StepConfirm; step++ {
			if err := gate(s, env, step); err != nil {
				return fail(s, err)
			}
		}
		s.Error = ""
		return s, true, nil
	default:
		return fail(s, fmt.Errorf("%w: %T", ErrUnknownEvent, ev))
	}

	s.Error = ""
	return s, false, nil
}

// gate is the validation predicate guarding the forward transition out of step.
func gate(s State, env Env, step Step) error {
	switch step {
	case StepReviewCart:
		if env.CartSize == 0 {
			return ErrCartEmpty
		}
	case StepCustomerDetails:
		if err := validate.Struct(s.Details); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				missing := make([]string, 0, len(verrs))
				for _, fe := range verrs {
					missing = append(missing, strings.ToLower(fe.Field()))
				}
				return fmt.Errorf("%w (missing: %s)", ErrDetailsIncomplete, strings.Join(missing, ", "))
			}
			return fmt.Errorf("%w: %v", ErrDetailsIncomplete, err)
		}
	case StepSchedulePickup:
		if s.PickupDate == nil {
			return ErrPickupRequired
		}
	}
	return nil
}

func fail(s State, err error) (State, bool, error) {
	s.Error = err.Error()
	return s, false, err
}

func normalize(d models.CustomerDetails) models.CustomerDetails {
	return models.CustomerDetails{
		Name:    strings.TrimSpace(d.Name),
		Email:   strings.TrimSpace(d.Email),
		Phone:   strings.TrimSpace(d.Phone),
		Address: strings.TrimSpace(d.Address),
		Notes:   strings.TrimSpace(d.Notes),
	}
}

// OrderCreator persists a placed order and returns it with its identifier.
type OrderCreator interface {
	CreateOrder(order models.Order) (*models.Order, error)
}

// Wizard drives one visitor's checkout against their cart.
type Wizard struct {
	state      State
	cart       *cart.Cart
	orders     OrderCreator
	customerID string
	now        func() time.Time
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock overrides the wizard's notion of now.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// NewWizard starts a wizard at the review step for c.
func NewWizard(c *cart.Cart, orders OrderCreator, opts ...Option) *Wizard {
	w := &Wizard{cart: c, orders: orders, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetCustomer records the signed-in customer placing the order. An empty id
// places the order as a guest.
func (w *Wizard) SetCustomer(id string) {
	w.customerID = id
}

// State returns the current wizard state.
func (w *Wizard) State() State {
	return w.state
}

// Reset starts over at the review step, keeping the cart.
func (w *Wizard) Reset() {
	w.state = State{}
}

// Dispatch applies ev. When the event places the order, the order is built
// from the accumulated state and handed to the OrderCreator: on success the
// cart is cleared and the wizard enters Submitted; on failure it stays at
// Confirm with an error message and the cart untouched.
func (w *Wizard) Dispatch(ev Event) (State, error) {
	next, place, err := Reduce(w.state, Env{CartSize: w.cart.Len(), Now: w.now()}, ev)
	w.state = next
	if err != nil || !place {
		return w.state, err
	}

	created, err := w.orders.CreateOrder(w.buildOrder())
	if err == nil && (created == nil || created.ID == "") {
		err = errors.New("order store returned no identifier")
	}
	if err != nil {
		w.state.Error = "Failed to place order. Please try again."
		return w.state, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	w.cart.Clear()
	w.state.Step = StepSubmitted
	w.state.OrderID = created.ID
	w.state.Error = ""
	return w.state, nil
}

func (w *Wizard) buildOrder() models.Order {
	customerID := w.customerID
	if customerID == "" {
		customerID = models.GuestCustomerID
	}
	now := w.now()
	return models.Order{
		CustomerID:      customerID,
		CustomerDetails: w.state.Details,
		Items:           w.cart.Items(),
		Status:          models.OrderStatusPending,
		TotalAmount:     w.cart.Total(),
		PickupDate:      *w.state.PickupDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
