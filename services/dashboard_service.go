package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"disasterprep/models"
)

// Dashboard is the member-only dashboard.
type Dashboard struct {
	Member        *models.MemberProfile           `json:"member"`
	Greeting      string                          `json:"greeting"`
	Registrations []*models.VolunteerRegistration `json:"registrations"`
}

// DashboardService builds a signed-in member's dashboard.
type DashboardService interface {
	Load(ctx context.Context, member *models.MemberProfile) (*Dashboard, error)
}

type dashboardService struct {
	volunteers VolunteerService
	log        *zap.Logger
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(volunteers VolunteerService) DashboardService {
	return &dashboardService{volunteers: volunteers, log: zap.L().Named("DashboardService")}
}

func (s *dashboardService) Load(ctx context.Context, member *models.MemberProfile) (*Dashboard, error) {
	if member == nil {
		return nil, errors.New("dashboard requires a signed-in member")
	}
	regs, err := s.volunteers.ForEmail(ctx, member.LoginEmail)
	if err != nil {
		s.log.Error("Failed to load member registrations", zap.String("member_id", member.MemberID), zap.Error(err))
		return nil, err
	}
	return &Dashboard{
		Member:        member,
		Greeting:      fmt.Sprintf("Welcome back, %s", member.DisplayName()),
		Registrations: regs,
	}, nil
}
