package service

import (
	"context"

	"github.com/dtroode/tourdesk/internal/endpoint"
	"github.com/dtroode/tourdesk/internal/logger"
	"github.com/dtroode/tourdesk/internal/model"
)

// Quotes sends quote requests and reads their state.
type Quotes struct {
	api      API
	notifier model.Notifier
	logger   *logger.Logger
}

func NewQuotes(api API, notifier model.Notifier, logger *logger.Logger) *Quotes {
	return &Quotes{api: api, notifier: notifier, logger: logger}
}

// Request submits a quote request.
func (q *Quotes) Request(ctx context.Context, quote model.Quote) (*model.Envelope[model.Quote], error) {
	env, err := decode[model.Quote](q.api.Post(ctx, endpoint.Quotes, quote))
	if err != nil {
		return nil, err
	}
	if env.Success {
		q.logger.Info("Quote service: quote requested",
			"quote_id", env.Data.ID,
			"tour_id", quote.TourID)
		notifyInfo(ctx, q.notifier, "Quote request sent")
	}
	return env, nil
}

func (q *Quotes) Get(ctx context.Context, id string) (*model.Envelope[model.Quote], error) {
	return decode[model.Quote](q.api.Get(ctx, endpoint.ID(endpoint.Quote, id)))
}

// Payments creates and confirms payments for accepted quotes.
type Payments struct {
	api      API
	notifier model.Notifier
	logger   *logger.Logger
}

func NewPayments(api API, notifier model.Notifier, logger *logger.Logger) *Payments {
	return &Payments{api: api, notifier: notifier, logger: logger}
}

// Create starts a payment. The returned payment carries the checkout URL.
func (p *Payments) Create(ctx context.Context, payment model.Payment) (*model.Envelope[model.Payment], error) {
	env, err := decode[model.Payment](p.api.Post(ctx, endpoint.Payments, payment))
	if err != nil {
		return nil, err
	}
	if env.Success {
		p.logger.Info("Payment service: payment created",
			"payment_id", env.Data.ID,
			"quote_id", payment.QuoteID)
		notifyInfo(ctx, p.notifier, "Payment created")
	}
	return env, nil
}

func (p *Payments) Get(ctx context.Context, id string) (*model.Envelope[model.Payment], error) {
	return decode[model.Payment](p.api.Get(ctx, endpoint.ID(endpoint.Payment, id)))
}

// Confirm asks the server to settle the payment with id.
func (p *Payments) Confirm(ctx context.Context, id string) (*model.Envelope[model.Payment], error) {
	env, err := decode[model.Payment](p.api.Post(ctx, endpoint.ID(endpoint.PaymentConfirm, id), nil))
	if err != nil {
		return nil, err
	}
	if env.Success {
		p.logger.Info("Payment service: payment confirmed",
			"payment_id", id,
			"status", env.Data.Status)
		notifyInfo(ctx, p.notifier, "Payment confirmed")
	}
	return env, nil
}
