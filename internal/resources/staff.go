package resources

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/busbook/busbook/internal/apiclient"
)

const staffBase = "/staff/"

// StaffMember is an employee assigned to a bus (driver, conductor, helper).
type StaffMember struct {
	ID          uuid.UUID       `json:"id"`
	BusID       uuid.UUID       `json:"bus_id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Designation string          `json:"designation"`
	DailyWage   decimal.Decimal `json:"daily_wage"`
	IsActive    bool            `json:"is_active"`
}

// StaffInput is the create/update payload for a staff member.
type StaffInput struct {
	BusID       uuid.UUID       `json:"bus_id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Designation string          `json:"designation"`
	DailyWage   decimal.Decimal `json:"daily_wage"`
}

// StaffService calls the staff endpoints.
type StaffService struct {
	api *apiclient.Client
}

func (s *StaffService) List(ctx context.Context, params ListParams) (*Page[StaffMember], error) {
	return list[StaffMember](ctx, s.api, staffBase, params)
}

func (s *StaffService) Get(ctx context.Context, id uuid.UUID) (*StaffMember, error) {
	var member StaffMember
	if err := s.api.GetJSON(ctx, itemPath(staffBase, id), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *StaffService) Create(ctx context.Context, in StaffInput) (*StaffMember, error) {
	var member StaffMember
	if err := s.api.PostJSON(ctx, staffBase, in, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *StaffService) Update(ctx context.Context, id uuid.UUID, in StaffInput) (*StaffMember, error) {
	var member StaffMember
	if err := s.api.PutJSON(ctx, itemPath(staffBase, id), in, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *StaffService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.api.Delete(ctx, itemPath(staffBase, id))
}
