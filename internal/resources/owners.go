package resources

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/busbook/busbook/internal/apiclient"
)

const ownersBase = "/owners/"

// Owner is a bus owner account within a tenant.
type Owner struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CompanyName    string          `json:"company_name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       bool            `json:"is_active"`
}

// OwnerInput is the create/update payload for an owner.
type OwnerInput struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CompanyName    string          `json:"company_name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// OwnerService calls the owner endpoints.
type OwnerService struct {
	api *apiclient.Client
}

func (s *OwnerService) List(ctx context.Context, params ListParams) (*Page[Owner], error) {
	return list[Owner](ctx, s.api, ownersBase, params)
}

func (s *OwnerService) Get(ctx context.Context, id uuid.UUID) (*Owner, error) {
	var owner Owner
	if err := s.api.GetJSON(ctx, itemPath(ownersBase, id), nil, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (s *OwnerService) Create(ctx context.Context, in OwnerInput) (*Owner, error) {
	var owner Owner
	if err := s.api.PostJSON(ctx, ownersBase, in, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (s *OwnerService) Update(ctx context.Context, id uuid.UUID, in OwnerInput) (*Owner, error) {
	var owner Owner
	if err := s.api.PutJSON(ctx, itemPath(ownersBase, id), in, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (s *OwnerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, itemPath(ownersBase, id))
}
