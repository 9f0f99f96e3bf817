// Package checkout converts a cart into durable purchase records after
// validating the payment form and the business rules around duplicates
// and course existence.
package checkout

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"course-academy/internal/cart"
	"course-academy/internal/model"
)

// BundlePrice is the flat amount charged per checkout regardless of item
// count. It intentionally ignores per-course prices; see DESIGN.md.
const BundlePrice = 300

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidPayment    = errors.New("invalid payment details")
	ErrDuplicatePurchase = errors.New("some courses were already purchased")
	ErrInvalidCourse     = errors.New("some courses do not exist")
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// State tracks a submission through the flow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

// CardDetails is the payment form. Validation is pattern-only; the card is
// never charged by this flow.
type CardDetails struct {
	Number string `json:"card_number"`
	Expiry string `json:"expiry_date"`
	CVV    string `json:"cvv"`
	Holder string `json:"card_holder"`
}

func (c CardDetails) valid() bool {
	return cardNumberPattern.MatchString(c.Number) &&
		expiryPattern.MatchString(c.Expiry) &&
		cvvPattern.MatchString(c.CVV) &&
		strings.TrimSpace(c.Holder) != ""
}

// Repository is the slice of the remote service checkout needs.
// database.Client satisfies it.
type Repository interface {
	PurchasedCourseIDs(userID string, courseIDs []string) ([]string, error)
	ExistingCourseIDs(courseIDs []string) ([]string, error)
	InsertPurchases(purchases []model.Purchase) error
}

type Processor struct {
	repo Repository
	now  func() time.Time

	state State
}

func NewProcessor(repo Repository) *Processor {
	return &Processor{repo: repo, now: time.Now}
}

// State reports where the most recent submission ended up.
func (p *Processor) State() State {
	return p.state
}

// Process runs one checkout submission: validate the card, then the three
// strictly sequential remote steps — duplicate pre-check, course existence
// check, batch insert. The chain aborts on first failure with nothing
// written. Success clears the cart; any failure leaves it untouched so the
// visitor can retry.
func (p *Processor) Process(userID string, c *cart.Store, card CardDetails) error {
	p.state = StateValidating

	courseIDs := c.Items()
	if len(courseIDs) == 0 {
		return p.fail(ErrEmptyCart)
	}
	if !card.valid() {
		// A single generic error; this form never reports per-field detail.
		return p.fail(ErrInvalidPayment)
	}

	p.state = StateSubmitting

	purchased, err := p.repo.PurchasedCourseIDs(userID, courseIDs)
	if err != nil {
		return p.fail(err)
	}
	if len(purchased) > 0 {
		return p.fail(ErrDuplicatePurchase)
	}

	existing, err := p.repo.ExistingCourseIDs(courseIDs)
	if err != nil {
		return p.fail(err)
	}
	if missing(courseIDs, existing) {
		return p.fail(ErrInvalidCourse)
	}

	now := p.now()
	purchases := make([]model.Purchase, 0, len(courseIDs))
	for _, id := range courseIDs {
		purchases = append(purchases, model.Purchase{
			UserID:        userID,
			CourseID:      id,
			PaymentStatus: model.PaymentStatusCompleted,
			PaymentDate:   now,
		})
	}

	if err := p.repo.InsertPurchases(purchases); err != nil {
		return p.fail(err)
	}

	c.Clear()
	p.state = StateSucceeded
	return nil
}

func (p *Processor) fail(err error) error {
	p.state = StateFailed
	return err
}

func missing(want, have []string) bool {
	known := make(map[string]bool, len(have))
	for _, id := range have {
		known[id] = true
	}
	for _, id := range want {
		if !known[id] {
			return true
		}
	}
	return false
}
