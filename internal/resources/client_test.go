package resources

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busbook/busbook/internal/adapters/memory"
	"github.com/busbook/busbook/internal/apiclient"
	"github.com/busbook/busbook/internal/credstore"
	domainauth "github.com/busbook/busbook/internal/domain/auth"
)

// newTestResources builds a resource client over an authenticated apiclient
// with a standard-scope token already stored.
func newTestResources(t *testing.T, upstream http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	store := credstore.New(memory.NewCredentialStore())
	require.NoError(t, store.Save(context.Background(), domainauth.ScopeStandard,
		domainauth.Credentials{AccessToken: "tok-1", RefreshToken: "ref-1"}))

	api, err := apiclient.New(apiclient.Options{
		BaseURL: srv.URL,
		Store:   store,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return NewClient(api)
}

func TestOwnerService_ListSendsPaginationAndAuth(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	rc := newTestResources(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"results":[
			{"id":"3e0170e6-6a3b-4f2a-9f93-2a49d2f2a000","name":"Karim","commission_rate":"12.5","is_active":true}
		]}`))
	}))

	page, err := rc.Owners.List(context.Background(), ListParams{Page: 2, PageSize: 25, Search: "karim"})
	require.NoError(t, err)

	assert.Equal(t, "/owners/", gotPath)
	assert.Equal(t, "page=2&page_size=25&search=karim", gotQuery)
	assert.Equal(t, "Bearer tok-1", gotAuth)

	require.Len(t, page.Results, 1)
	assert.Equal(t, "Karim", page.Results[0].Name)
	assert.True(t, page.Results[0].CommissionRate.Equal(decimal.RequireFromString("12.5")))
}

func TestOwnerService_UpdateHitsItemPath(t *testing.T) {
	id := uuid.New()
	var gotMethod, gotPath string
	rc := newTestResources(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + id.String() + `","name":"Karim Updated"}`))
	}))

	owner, err := rc.Owners.Update(context.Background(), id, OwnerInput{Name: "Karim Updated"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/owners/"+id.String()+"/", gotPath)
	assert.Equal(t, "Karim Updated", owner.Name)
}

func TestOwnerService_DeleteHitsItemPath(t *testing.T) {
	id := uuid.New()
	var gotMethod, gotPath string
	rc := newTestResources(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, rc.Owners.Delete(context.Background(), id))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/owners/"+id.String()+"/", gotPath)
}

func TestTransactionService_ListAppliesLedgerFilters(t *testing.T) {
	busID := uuid.New()
	var gotQuery string
	rc := newTestResources(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	}))

	_, err := rc.Transactions.List(context.Background(), TransactionListParams{
		ListParams: ListParams{Page: 1},
		BusID:      busID,
		Kind:       TransactionBattha,
	})
	require.NoError(t, err)
	assert.Equal(t, "bus_id="+busID.String()+"&kind=battha&page=1", gotQuery)
}

func TestTransactionService_SummaryComputesFromDecimalFields(t *testing.T) {
	busID := uuid.New()
	var gotPath string
	rc := newTestResources(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, busID.String(), r.URL.Query().Get("bus_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"income":"15000.00","expense":"4200.50","battha":"750.00","net":"10049.50"}`))
	}))

	summary, err := rc.Transactions.Summary(context.Background(), busID)
	require.NoError(t, err)

	assert.Equal(t, "/transactions/summary/", gotPath)
	assert.True(t, summary.Net.Equal(summary.Income.Sub(summary.Expense).Sub(summary.Battha)))
}

func TestTransactionService_NotFoundSurfacesAPIError(t *testing.T) {
	rc := newTestResources(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"not found"}`))
	}))

	_, err := rc.Transactions.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))
}
