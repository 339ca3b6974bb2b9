package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/factory"
	"golang.org/x/text/language"
)

type RegionPreferenceRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entity.RegionPreference, error)
	Upsert(ctx context.Context, pref *entity.RegionPreference) error
}

type RegionInfo struct {
	Region   entity.Region
	Language string
	Currency string
}

type ResolveRegionInput struct {
	Region         string
	UserID         string
	AcceptLanguage string
}

// RegionService decides which region a caller is in, keeps the caller's
// region preference and its language in sync, and formats prices for that
// region.
type RegionService struct {
	prefs         RegionPreferenceRepository
	formatter     *DisplayFormatter
	defaultRegion entity.Region
	regions       []entity.Region
	matcher       language.Matcher
	logger        logrus.FieldLogger
}

func NewRegionService(prefs RegionPreferenceRepository, formatter *DisplayFormatter, defaultRegion entity.Region) *RegionService {
	if !defaultRegion.Valid() {
		defaultRegion = entity.RegionPT
	}
	regions := entity.AllRegions()
	tags := make([]language.Tag, 0, len(regions))
	for _, region := range regions {
		tags = append(tags, region.Language())
	}

	return &RegionService{
		prefs:         prefs,
		formatter:     formatter,
		defaultRegion: defaultRegion,
		regions:       regions,
		matcher:       language.NewMatcher(tags),
		logger:        factory.NewModuleLogger("region-service"),
	}
}

func (s *RegionService) DefaultRegion() entity.Region {
	return s.defaultRegion
}

func (s *RegionService) ListRegions() []RegionInfo {
	out := make([]RegionInfo, 0, len(s.regions))
	for _, region := range s.regions {
		out = append(out, regionInfo(region))
	}
	return out
}

// DetectRegion maps an Accept-Language header onto a supported region.
func (s *RegionService) DetectRegion(acceptLanguage string) entity.Region {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return s.defaultRegion
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.defaultRegion
	}

	_, index, confidence := s.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(s.regions) {
		return s.defaultRegion
	}
	return s.regions[index]
}

// ResolveRegion picks the active region: explicit value, stored preference,
// Accept-Language, then the default region. A failing preference lookup is
// not fatal.
func (s *RegionService) ResolveRegion(ctx context.Context, in ResolveRegionInput) (entity.Region, error) {
	if strings.TrimSpace(in.Region) != "" {
		region, err := entity.ParseRegion(in.Region)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidRegion, err)
		}
		return region, nil
	}

	if userID := strings.TrimSpace(in.UserID); userID != "" {
		pref, err := s.prefs.FindByUserID(ctx, userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Region preference lookup failed")
		} else if pref != nil && pref.Region.Valid() {
			return pref.Region, nil
		}
	}

	return s.DetectRegion(in.AcceptLanguage), nil
}

func (s *RegionService) GetPreference(ctx context.Context, userID string) (*entity.RegionPreference, error) {
	pref, err := s.prefs.FindByUserID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, ErrPreferenceNotFound
	}
	return pref, nil
}

// SetPreference stores the region together with the language it implies.
func (s *RegionService) SetPreference(ctx context.Context, userID string, rawRegion string) (*entity.RegionPreference, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	}
	region, err := entity.ParseRegion(rawRegion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegion, err)
	}

	now := time.Now().UTC()
	pref := &entity.RegionPreference{
		UserID:    userID,
		Region:    region,
		Language:  region.Language().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.prefs.Upsert(ctx, pref); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", userID).
		WithField("region", string(region)).
		WithField("language", pref.Language).
		Info("Region preference updated")
	return pref, nil
}

func (s *RegionService) GetPriceDisplay(region entity.Region, plan entity.PlanType, period entity.BillingPeriod) PriceDisplay {
	return s.formatter.GetPriceDisplay(region, plan, period)
}

func regionInfo(region entity.Region) RegionInfo {
	return RegionInfo{
		Region:   region,
		Language: region.Language().String(),
		Currency: region.Currency().String(),
	}
}
