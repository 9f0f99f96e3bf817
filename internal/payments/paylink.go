// Package payments creates hosted Stripe Checkout links for the
// simplified email+amount payment path. This path is independent of the
// cart checkout flow and writes no purchase records.
package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
)

type LinkCreator struct {
	successURL string
	cancelURL  string
}

func NewLinkCreator(successURL, cancelURL string) *LinkCreator {
	return &LinkCreator{successURL: successURL, cancelURL: cancelURL}
}

// CreateLink opens a Stripe Checkout session for amount Egyptian pounds
// and returns the hosted payment URL the caller redirects to.
func (c *LinkCreator) CreateLink(email string, amount int64) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEGP)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Course payment"),
					},
					UnitAmount: stripe.Int64(amount * 100),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}

	session, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}

	return session.URL, nil
}
