package resources

// Package resources is the typed surface over the BusBook fleet-finance
// API. Every call rides the authenticated client, so token attachment and
// refresh recovery apply uniformly.

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/busbook/busbook/internal/apiclient"
)

// Client groups the per-resource services.
type Client struct {
	Owners        *OwnerService
	Buses         *BusService
	Staff         *StaffService
	Subscriptions *SubscriptionService
	Transactions  *TransactionService
}

// NewClient constructs the resource services over an authenticated API client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{
		Owners:        &OwnerService{api: api},
		Buses:         &BusService{api: api},
		Staff:         &StaffService{api: api},
		Subscriptions: &SubscriptionService{api: api},
		Transactions:  &TransactionService{api: api},
	}
}

// ListParams is the shared pagination and search envelope.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}

// Page is the server's paginated list shape.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

func itemPath(base string, id fmt.Stringer) string {
	return base + id.String() + "/"
}

func list[T any](ctx context.Context, api *apiclient.Client, base string, params ListParams) (*Page[T], error) {
	var page Page[T]
	if err := api.GetJSON(ctx, base, params.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
