package model

import "time"

// QuoteStatus is the processing state of a quote request.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusQuoted   QuoteStatus = "quoted"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusDeclined QuoteStatus = "declined"
)

// Quote is a customer request for a priced offer.
type Quote struct {
	ID        string      `json:"id,omitempty"`
	TourID    string      `json:"tourId,omitempty"`
	ServiceID string      `json:"serviceId,omitempty"`
	FullName  string      `json:"fullName"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Travelers int         `json:"travelers,omitempty"`
	StartDate string      `json:"startDate,omitempty"`
	Message   string      `json:"message,omitempty"`
	Status    QuoteStatus `json:"status,omitempty"`
	Amount    float64     `json:"amount,omitempty"`
	Currency  string      `json:"currency,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
}

// PaymentStatus is the state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is a payment for an accepted quote.
type Payment struct {
	ID          string        `json:"id,omitempty"`
	QuoteID     string        `json:"quoteId"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status,omitempty"`
	CheckoutURL string        `json:"checkoutUrl,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
}
