package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"disasterprep/models"
	"disasterprep/repository"
)

// VolunteerForm is the public volunteer sign-up form. Required fields are
// checked by the repository so that every create goes through one rule set.
type VolunteerForm struct {
	FullName           string `json:"fullName"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
	Skills             string `json:"skills"`
	Availability       string `json:"availability"`
	PastExperience     string `json:"pastExperience"`
	UploadedIDDocument string `json:"uploadedIdDocument"`
}

// VolunteerService handles volunteer registrations.
type VolunteerService interface {
	// Register stores the form as a new registration. It calls the store once
	// and returns only after the store acknowledged the record.
	Register(ctx context.Context, form VolunteerForm) (*models.VolunteerRegistration, error)
	// ForEmail lists the registrations submitted with email, newest first.
	ForEmail(ctx context.Context, email string) ([]*models.VolunteerRegistration, error)
}

type volunteerService struct {
	repo  repository.ContentRepository
	newID func() string
	now   func() time.Time
	log   *zap.Logger
}

// NewVolunteerService creates a new instance of VolunteerService.
func NewVolunteerService(repo repository.ContentRepository) VolunteerService {
	return &volunteerService{
		repo:  repo,
		newID: uuid.NewString,
		now:   time.Now,
		log:   zap.L().Named("VolunteerService"),
	}
}

func (s *volunteerService) Register(ctx context.Context, form VolunteerForm) (*models.VolunteerRegistration, error) {
	reg := &models.VolunteerRegistration{
		Base:               models.Base{ID: s.newID()},
		FullName:           models.String(strings.TrimSpace(form.FullName)),
		Email:              models.String(strings.TrimSpace(form.Email)),
		PhoneNumber:        models.String(strings.TrimSpace(form.PhoneNumber)),
		Skills:             models.String(strings.TrimSpace(form.Skills)),
		Availability:       models.String(strings.TrimSpace(form.Availability)),
		PastExperience:     optional(form.PastExperience),
		UploadedIDDocument: optional(form.UploadedIDDocument),
		RegistrationDate:   models.At(s.now()),
	}

	created, err := repository.Insert(ctx, s.repo, reg)
	if err != nil {
		s.log.Warn("Volunteer registration not stored", zap.String("id", reg.ID), zap.Error(err))
		return nil, err
	}
	s.log.Info("Volunteer registration stored", zap.String("id", created.ID))
	return created, nil
}

func (s *volunteerService) ForEmail(ctx context.Context, email string) ([]*models.VolunteerRegistration, error) {
	all, err := repository.List[*models.VolunteerRegistration](ctx, s.repo, models.CollectionVolunteerRegistrations)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	mine := make([]*models.VolunteerRegistration, 0)
	for _, reg := range all {
		if email != "" && strings.EqualFold(models.Deref(reg.Email), email) {
			mine = append(mine, reg)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return registeredAt(mine[i]).After(registeredAt(mine[j]))
	})
	return mine, nil
}

func registeredAt(reg *models.VolunteerRegistration) time.Time {
	if reg.RegistrationDate == nil {
		return time.Time{}
	}
	return reg.RegistrationDate.Time
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
