package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// IntentParams describes a payment intent. Destination and ApplicationFee are
// set together for Connect transfers.
type IntentParams struct {
	Amount            int64
	Currency          string
	PaymentMethodType string
	Destination       string
	ApplicationFee    int64
}

// Gateway is the subset of the payment processor the service needs.
type Gateway interface {
	CreateAccount(ctx context.Context, email string) (string, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	CreatePaymentIntent(ctx context.Context, p IntentParams) (id, clientSecret string, err error)
	RetrievePaymentIntent(ctx context.Context, id string) (IntentInfo, error)
}

// IntentInfo is what the processor reports about an existing payment intent.
// Status is the processor's string, e.g. "succeeded".
type IntentInfo struct {
	Status   string
	Amount   int64
	Currency string
}

// StripeGateway implements Gateway with stripe-go.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

func (g *StripeGateway) CreateAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeStandard)),
		Email: stripe.String(email),
	}
	params.Context = ctx
	acct, err := g.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create account: %w", err)
	}
	return acct.ID, nil
}

func (g *StripeGateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create account link: %w", err)
	}
	return link.URL, nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, p IntentParams) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(p.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{p.PaymentMethodType}),
	}
	if p.Destination != "" {
		params.ApplicationFeeAmount = stripe.Int64(p.ApplicationFee)
		params.TransferData = &stripe.PaymentIntentTransferDataParams{Destination: stripe.String(p.Destination)}
	}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe create payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}

func (g *StripeGateway) RetrievePaymentIntent(ctx context.Context, id string) (IntentInfo, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return IntentInfo{}, fmt.Errorf("stripe get payment intent %s: %w", id, err)
	}
	return IntentInfo{Status: string(pi.Status), Amount: pi.Amount, Currency: string(pi.Currency)}, nil
}
