package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nalia-backend/internal/geo"
	"nalia-backend/internal/models"
	"nalia-backend/internal/repository"
	"nalia-backend/internal/tags"
)

// ProfileService handles profile, interest and proximity logic
type ProfileService struct {
	profileRepo  *repository.ProfileRepository
	interestRepo *repository.InterestRepository
	hub          *FeedHub
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo *repository.ProfileRepository,
	interestRepo *repository.InterestRepository,
	hub *FeedHub,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		interestRepo: interestRepo,
		hub:          hub,
	}
}

// Get returns a profile with its interests
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, []string, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	interests, err := s.interestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return profile, interests, nil
}

// UpdateInput carries editable profile fields
type UpdateInput struct {
	Name      string
	Bio       string
	AvatarURL *string
	Latitude  *float64
	Longitude *float64
	Interests []string
}

// Update updates profile fields and replaces interests with their
// normalized, deduplicated forms
func (s *ProfileService) Update(ctx context.Context, userID string, in UpdateInput) (*models.Profile, []string, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		profile.Name = name
	}
	profile.Bio = in.Bio
	if in.AvatarURL != nil {
		profile.AvatarURL = in.AvatarURL
	}
	if in.Latitude != nil && in.Longitude != nil {
		profile.Latitude = in.Latitude
		profile.Longitude = in.Longitude
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, nil, err
	}

	interests := tags.Normalize(in.Interests)
	if err := s.interestRepo.Replace(ctx, userID, interests); err != nil {
		return nil, nil, err
	}

	s.hub.Publish("profiles", ChangeUpdate, map[string]string{"user_id": userID}, profile)
	return profile, interests, nil
}

// UpdatePushToken stores the device push token
func (s *ProfileService) UpdatePushToken(ctx context.Context, userID string, token *string) error {
	return s.profileRepo.UpdatePushToken(ctx, userID, token)
}

// NearbyProfile is a profile with its distance from the caller
type NearbyProfile struct {
	Profile    *models.Profile `json:"profile"`
	DistanceKm float64         `json:"distance_km"`
}

// Nearby returns profiles within the fixed radius of the caller's
// stored location, sorted by proximity ascending
func (s *ProfileService) Nearby(ctx context.Context, userID string) ([]NearbyProfile, error) {
	me, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if me.Latitude == nil || me.Longitude == nil {
		return nil, fmt.Errorf("profile has no location")
	}

	candidates, err := s.profileRepo.ListLocated(ctx, userID)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyProfile, 0, len(candidates))
	for _, p := range candidates {
		d := geo.Distance(*me.Latitude, *me.Longitude, *p.Latitude, *p.Longitude)
		if d > geo.NearbyRadiusKm {
			continue
		}
		nearby = append(nearby, NearbyProfile{Profile: p, DistanceKm: d})
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}
