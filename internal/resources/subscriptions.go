package resources

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/busbook/busbook/internal/apiclient"
)

const subscriptionsBase = "/subscriptions/"

// Subscription is an owner's platform subscription.
type Subscription struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	PlanName     string          `json:"plan_name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	StartsAt     time.Time       `json:"starts_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
	IsActive     bool            `json:"is_active"`
}

// SubscriptionInput is the create/update payload for a subscription.
type SubscriptionInput struct {
	OwnerID      uuid.UUID       `json:"owner_id"`
	PlanName     string          `json:"plan_name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	StartsAt     time.Time       `json:"starts_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// SubscriptionService calls the subscription endpoints.
type SubscriptionService struct {
	api *apiclient.Client
}

func (s *SubscriptionService) List(ctx context.Context, params ListParams) (*Page[Subscription], error) {
	return list[Subscription](ctx, s.api, subscriptionsBase, params)
}

func (s *SubscriptionService) Get(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	var sub Subscription
	if err := s.api.GetJSON(ctx, itemPath(subscriptionsBase, id), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionService) Create(ctx context.Context, in SubscriptionInput) (*Subscription, error) {
	var sub Subscription
	if err := s.api.PostJSON(ctx, subscriptionsBase, in, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionService) Update(ctx context.Context, id uuid.UUID, in SubscriptionInput) (*Subscription, error) {
	var sub Subscription
	if err := s.api.PutJSON(ctx, itemPath(subscriptionsBase, id), in, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, itemPath(subscriptionsBase, id))
}
