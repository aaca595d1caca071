package resources

import (
	"context"

	"github.com/google/uuid"

	"github.com/busbook/busbook/internal/apiclient"
)

const busesBase = "/buses/"

// Bus is one vehicle in an owner's fleet.
type Bus struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Registration string    `json:"registration"`
	RouteName    string    `json:"route_name"`
	SeatCount    int       `json:"seat_count"`
	IsActive     bool      `json:"is_active"`
}

// BusInput is the create/update payload for a bus.
type BusInput struct {
	OwnerID      uuid.UUID `json:"owner_id"`
	Registration string    `json:"registration"`
	RouteName    string    `json:"route_name"`
	SeatCount    int       `json:"seat_count"`
}

// BusService calls the bus endpoints.
type BusService struct {
	api *apiclient.Client
}

func (s *BusService) List(ctx context.Context, params ListParams) (*Page[Bus], error) {
	return list[Bus](ctx, s.api, busesBase, params)
}

func (s *BusService) Get(ctx context.Context, id uuid.UUID) (*Bus, error) {
	var bus Bus
	if err := s.api.GetJSON(ctx, itemPath(busesBase, id), nil, &bus); err != nil {
		return nil, err
	}
	return &bus, nil
}

func (s *BusService) Create(ctx context.Context, in BusInput) (*Bus, error) {
	var bus Bus
	if err := s.api.PostJSON(ctx, busesBase, in, &bus); err != nil {
		return nil, err
	}
	return &bus, nil
}

func (s *BusService) Update(ctx context.Context, id uuid.UUID, in BusInput) (*Bus, error) {
	var bus Bus
	if err := s.api.PutJSON(ctx, itemPath(busesBase, id), in, &bus); err != nil {
		return nil, err
	}
	return &bus, nil
}

func (s *BusService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, itemPath(busesBase, id))
}
