package resources

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/busbook/busbook/internal/apiclient"
)

const transactionsBase = "/transactions/"

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	// TransactionIncome is daily collection income for a bus.
	TransactionIncome TransactionKind = "income"
	// TransactionExpense is an operating expense (fuel, repair, wages).
	TransactionExpense TransactionKind = "expense"
	// TransactionBattha is the conductor's commission cut, recorded
	// separately from wages.
	TransactionBattha TransactionKind = "battha"
)

// Transaction is one fleet-finance ledger entry.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	BusID      uuid.UUID       `json:"bus_id"`
	Kind       TransactionKind `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// TransactionInput is the create payload for a ledger entry.
type TransactionInput struct {
	BusID  uuid.UUID       `json:"bus_id"`
	Kind   TransactionKind `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// TransactionListParams extends ListParams with ledger filters.
type TransactionListParams struct {
	ListParams
	BusID uuid.UUID
	Kind  TransactionKind
}

func (p TransactionListParams) query() url.Values {
	q := p.ListParams.query()
	if p.BusID != uuid.Nil {
		q.Set("bus_id", p.BusID.String())
	}
	if p.Kind != "" {
		q.Set("kind", string(p.Kind))
	}
	return q
}

// Summary totals a bus's ledger over a period.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Battha  decimal.Decimal `json:"battha"`
	Net     decimal.Decimal `json:"net"`
}

// TransactionService calls the ledger endpoints.
type TransactionService struct {
	api *apiclient.Client
}

func (s *TransactionService) List(ctx context.Context, params TransactionListParams) (*Page[Transaction], error) {
	var page Page[Transaction]
	if err := s.api.GetJSON(ctx, transactionsBase, params.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var tx Transaction
	if err := s.api.GetJSON(ctx, itemPath(transactionsBase, id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (*Transaction, error) {
	var tx Transaction
	if err := s.api.PostJSON(ctx, transactionsBase, in, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, itemPath(transactionsBase, id))
}

// Summary fetches aggregated totals for a bus.
func (s *TransactionService) Summary(ctx context.Context, busID uuid.UUID) (*Summary, error) {
	q := url.Values{"bus_id": []string{busID.String()}}
	var summary Summary
	if err := s.api.GetJSON(ctx, transactionsBase+"summary/", q, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
