package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"instshop/internal/usecase"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeGateway はCheckout Sessionの作成とWebhookの検証を担当する。
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(secretKey string, webhookSecret string, successURL string, cancelURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreateSession はStripe Checkoutのセッションを作って決済URLを返す。
func (g *StripeGateway) CreateSession(ctx context.Context, in usecase.CheckoutSessionInput) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(g.successURL),
		CancelURL:          stripe.String(g.cancelURL),
	}
	params.Context = ctx

	for _, line := range in.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
				UnitAmount: stripe.Int64(line.UnitAmount),
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	//Webhook側で注文を特定するためのキー
	params.AddMetadata("order_id", strconv.FormatInt(in.OrderID, 10))

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// ParseEvent は署名を検証してWebhookイベントを組み立てる。
// クライアント起因の不備（壊れたペイロード・署名不正）はErrBadWebhookRequestで包む。
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (usecase.PaymentEvent, error) {
	if !json.Valid(payload) {
		return usecase.PaymentEvent{}, fmt.Errorf("%w: invalid payload", usecase.ErrBadWebhookRequest)
	}

	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		if errors.Is(err, webhook.ErrNotSigned) ||
			errors.Is(err, webhook.ErrInvalidHeader) ||
			errors.Is(err, webhook.ErrNoValidSignature) ||
			errors.Is(err, webhook.ErrTooOld) {
			return usecase.PaymentEvent{}, fmt.Errorf("%w: %v", usecase.ErrBadWebhookRequest, err)
		}
		return usecase.PaymentEvent{}, err
	}

	out := usecase.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if out.Type != usecase.EventCheckoutCompleted {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return usecase.PaymentEvent{}, fmt.Errorf("%w: malformed session object", usecase.ErrBadWebhookRequest)
	}

	orderID, err := strconv.ParseInt(sess.Metadata["order_id"], 10, 64)
	if err != nil {
		return usecase.PaymentEvent{}, fmt.Errorf("%w: missing order_id metadata", usecase.ErrBadWebhookRequest)
	}
	out.OrderID = orderID

	return out, nil
}
