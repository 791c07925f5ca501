package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/replication"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

// Values used when onboarding leaves a text field empty.
const (
	DefaultName    = "Athlete"
	DefaultBio     = "Ready to crush some goals!"
	DefaultAboutMe = "I am passionate about health and fitness."
)

type ProfileUseCase struct {
	userRepo   repository.UserRepository
	mirror     mirror.Mirror
	replicator *replication.Replicator
	validate   *validator.Validate
	log        logrus.FieldLogger
}

func NewProfileUseCase(
	userRepo repository.UserRepository,
	m mirror.Mirror,
	replicator *replication.Replicator,
	log logrus.FieldLogger,
) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:   userRepo,
		mirror:     m,
		replicator: replicator,
		validate:   newValidator(),
		log:        log,
	}
}

// OnboardingRequest represents the answers collected by the onboarding flow
type OnboardingRequest struct {
	Name        string            `json:"name" validate:"max=100"`
	Bio         string            `json:"bio" validate:"max=500"`
	AboutMe     string            `json:"about_me" validate:"max=2000"`
	Activities  []domain.Activity `json:"activities" validate:"dive,activity"`
	Goals       []domain.Goal     `json:"goals" validate:"dive,goal"`
	Days        []string          `json:"days" validate:"dive,day"`
	TimeWindows []string          `json:"time_windows" validate:"dive,timewindow"`
	SkillLevel  domain.SkillLevel `json:"skill_level" validate:"omitempty,skill"`
}

// UpdateProfileRequest represents profile edit request. Name, texts, skill,
// activities and goals are replaced wholesale; nil optional fields are kept.
type UpdateProfileRequest struct {
	Name         string            `json:"name" validate:"required,max=100"`
	Bio          string            `json:"bio" validate:"max=500"`
	AboutMe      string            `json:"about_me" validate:"max=2000"`
	SkillLevel   domain.SkillLevel `json:"skill_level" validate:"required,skill"`
	Activities   []domain.Activity `json:"activities" validate:"dive,activity"`
	Goals        []domain.Goal     `json:"goals" validate:"dive,goal"`
	Age          *int              `json:"age" validate:"omitempty,min=16,max=100"`
	Gender       *string           `json:"gender" validate:"omitempty,max=50"`
	Availability *[]string         `json:"availability" validate:"omitempty,dive,slot"`
}

// UpdateLocationRequest represents a geolocation update
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GetProfile returns the user with distance computed from the viewer
func (uc *ProfileUseCase) GetProfile(ctx context.Context, viewerID, userID string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()

	if viewerID != "" && viewerID != userID {
		viewer, err := uc.userRepo.GetByID(ctx, viewerID)
		if err == nil {
			public.Distance = domain.DistanceKm(viewer.Location, user.Location)
		}
	}
	return public, nil
}

// UpdateUser replaces the stored record with the same id and mirrors it.
// An unknown id is a no-op.
func (uc *ProfileUseCase) UpdateUser(ctx context.Context, user *domain.User) error {
	updated, err := uc.userRepo.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if !updated {
		uc.log.WithField("user_id", user.ID).Debug("update skipped, user not found")
		return nil
	}
	uc.syncUser(user)
	return nil
}

// CompleteOnboarding applies the onboarding answers and marks the profile complete
func (uc *ProfileUseCase) CompleteOnboarding(ctx context.Context, userID string, req *OnboardingRequest) (*domain.User, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, invalid(err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = orDefault(req.Name, DefaultName)
	user.Bio = orDefault(req.Bio, DefaultBio)
	user.AboutMe = orDefault(req.AboutMe, DefaultAboutMe)
	user.Activities = nonNil(req.Activities)
	user.Goals = nonNil(req.Goals)
	user.Availability = append(append([]string{}, req.Days...), req.TimeWindows...)
	if req.SkillLevel != "" {
		user.SkillLevel = req.SkillLevel
	}
	user.IsProfileComplete = true

	if err := uc.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// EditProfile applies the profile edit form
func (uc *ProfileUseCase) EditProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.User, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, invalid(err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Bio = req.Bio
	user.AboutMe = req.AboutMe
	user.SkillLevel = req.SkillLevel
	user.Activities = nonNil(req.Activities)
	user.Goals = nonNil(req.Goals)
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Availability != nil {
		user.Availability = nonNil(*req.Availability)
	}

	if err := uc.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdateLocation stores the coordinates reported by the client. Invalid
// coordinates are rejected and the stored location is kept.
func (uc *ProfileUseCase) UpdateLocation(ctx context.Context, userID string, req *UpdateLocationRequest) (*domain.User, error) {
	loc := domain.Location{Lat: req.Lat, Lng: req.Lng}
	if !loc.Valid() {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Location = loc

	if err := uc.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (uc *ProfileUseCase) syncUser(user *domain.User) {
	if !uc.mirror.Enabled() {
		return
	}
	public := user.Public()
	uc.replicator.Submit("user:"+user.ID, "sync user "+user.ID, func(ctx context.Context) error {
		return uc.mirror.SyncUser(ctx, public)
	})
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s failed on %s", domain.ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// WatchRemoteUsers merges users published to the mirror by other processes
// into the local list.
func (uc *ProfileUseCase) WatchRemoteUsers(ctx context.Context) mirror.Unsubscribe {
	if !uc.mirror.Enabled() {
		return func() {}
	}
	return uc.mirror.ListenToUsers(ctx, func(users []domain.User) {
		if err := uc.userRepo.Merge(ctx, users); err != nil {
			uc.log.WithError(err).Warn("failed to merge remote users")
		}
	})
}
