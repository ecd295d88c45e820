package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"entrance-client/internal/model"
	"entrance-client/internal/service"
	"entrance-client/pkg/api"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*api.Client, *int) {
	t.Helper()
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/api", 5*time.Second, zap.NewNop()), &calls
}

func TestOfflinePaymentRequiresNoteBeforeAnyRequest(t *testing.T) {
	client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	payments := service.NewPayments(client)

	err := payments.CreateCashPayment(context.Background(), 1, service.OfflinePaymentRequest{
		Amount: 45,
		Note:   "",
	})
	require.ErrorContains(t, err, "note")

	err = payments.CreateCashPayment(context.Background(), 1, service.OfflinePaymentRequest{
		Amount: 45,
		Note:   "   ",
	})
	require.ErrorContains(t, err, "note")

	err = payments.CreateBankPayment(context.Background(), 1, service.OfflinePaymentRequest{
		Amount: -5,
		Note:   "превод",
	})
	require.ErrorContains(t, err, "amount")

	// Every rejection above happened client-side
	require.Zero(t, *calls)
}

func TestOfflinePaymentWithNoteMakesExactlyOneRequest(t *testing.T) {
	client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/units/3/payments/cash", r.URL.Path)
		var req service.OfflinePaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "платено на касата", req.Note)
		w.WriteHeader(http.StatusCreated)
	})
	payments := service.NewPayments(client)

	err := payments.CreateCashPayment(context.Background(), 3, service.OfflinePaymentRequest{
		Amount: 45,
		Note:   "платено на касата",
		Fund:   model.FundGeneral,
	})
	require.NoError(t, err)
	require.Equal(t, 1, *calls)
}

func TestCardPaymentReturnsClientSecret(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/units/1/payments/card", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.CardPaymentResponse{ClientSecret: "sec_123", TransactionID: 42})
	})
	payments := service.NewPayments(client)

	resp, err := payments.CreateCardPayment(context.Background(), 1, service.CardPaymentRequest{Amount: 45})
	require.NoError(t, err)
	require.Equal(t, "sec_123", resp.ClientSecret)
	require.Equal(t, 42, resp.TransactionID)
}

func TestCardPaymentRejectsNonPositiveAmount(t *testing.T) {
	client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {})
	payments := service.NewPayments(client)

	_, err := payments.CreateCardPayment(context.Background(), 1, service.CardPaymentRequest{Amount: 0})
	require.ErrorContains(t, err, "amount")
	require.Zero(t, *calls)
}

func TestTransactionsFilterByType(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/units/2/transactions", r.URL.Path)
		require.Equal(t, "PAYMENT", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.Transaction{{ID: 1, Type: model.TypePayment}})
	})
	payments := service.NewPayments(client)

	transactions, err := payments.UnitPayments(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, model.TypePayment, transactions[0].Type)
}
