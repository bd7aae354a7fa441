package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tourdesk/internal/mocks"
	"github.com/dtroode/tourdesk/internal/model"
	"github.com/dtroode/tourdesk/internal/testutil"
)

func TestQuotes(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Handle(http.MethodPost, "/quotes", func(w http.ResponseWriter, r *http.Request) {
		var in model.Quote
		assert.NoError(t, json.Unmarshal([]byte(readBody(t, r)), &in))
		assert.Equal(t, "ann@example.com", in.Email)
		assert.Equal(t, 2, in.Travelers)
		testutil.OK(w, model.Quote{ID: "q1", TourID: "1", Status: model.QuoteStatusPending})
	})
	b.Handle(http.MethodGet, "/quotes/q1", func(w http.ResponseWriter, r *http.Request) {
		testutil.OK(w, model.Quote{ID: "q1", Status: model.QuoteStatusQuoted, Amount: 1200, Currency: "EUR"})
	})

	n := mocks.NewNotifier(t)
	expectInfo(n, "Quote request sent")
	q := NewQuotes(newAPI(b, signedInStore(t)), n, testutil.MakeNoopLogger())

	env, err := q.Request(context.Background(), model.Quote{TourID: "1", FullName: "Ann", Email: "ann@example.com", Travelers: 2})
	require.NoError(t, err)
	assert.Equal(t, "q1", env.Data.ID)

	env, err = q.Get(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusQuoted, env.Data.Status)
}

func TestPayments(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Handle(http.MethodPost, "/payments", func(w http.ResponseWriter, r *http.Request) {
		testutil.OK(w, model.Payment{ID: "p1", QuoteID: "q1", Status: model.PaymentStatusPending, CheckoutURL: "https://pay.example.com/p1"})
	})
	b.Handle(http.MethodGet, "/payments/p1", func(w http.ResponseWriter, r *http.Request) {
		testutil.OK(w, model.Payment{ID: "p1", Status: model.PaymentStatusPending})
	})
	b.Handle(http.MethodPost, "/payments/p1/confirm", func(w http.ResponseWriter, r *http.Request) {
		testutil.OK(w, model.Payment{ID: "p1", Status: model.PaymentStatusSucceeded})
	})
	b.Handle(http.MethodPost, "/payments/p2/confirm", func(w http.ResponseWriter, r *http.Request) {
		testutil.Fail(w, http.StatusPaymentRequired, "")
	})

	n := mocks.NewNotifier(t)
	expectInfo(n, "Payment created")
	expectInfo(n, "Payment confirmed")
	p := NewPayments(newAPI(b, signedInStore(t)), n, testutil.MakeNoopLogger())

	env, err := p.Create(context.Background(), model.Payment{QuoteID: "q1", Amount: 1200, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/p1", env.Data.CheckoutURL)

	env, err = p.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, env.Data.Status)

	env, err = p.Confirm(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSucceeded, env.Data.Status)

	env, err = p.Confirm(context.Background(), "p2")
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusPaymentRequired, env.Status)
}
