package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/payment"
	"github.com/vibast-solutions/ms-go-pricing/app/service"
)

type controllerPricingService struct {
	state      service.PricingState
	matrix     entity.PricingMatrix
	entries    map[entity.Region][]entity.PricingEntry
	live       []entity.PricingEntry
	refreshErr error
	refreshed  int
}

func (s *controllerPricingService) State() service.PricingState {
	return s.state
}

func (s *controllerPricingService) Matrix() entity.PricingMatrix {
	return s.matrix
}

func (s *controllerPricingService) Loading() bool {
	return s.state.Loading
}

func (s *controllerPricingService) HasRegionEntries(region entity.Region) bool {
	return len(s.entries[region]) > 0
}

func (s *controllerPricingService) RegionEntries(region entity.Region) []entity.PricingEntry {
	return s.entries[region]
}

func (s *controllerPricingService) FetchRegionPricing(context.Context, entity.Region) []entity.PricingEntry {
	return s.live
}

func (s *controllerPricingService) GetPriceForPlan(plan entity.PlanType, region entity.Region, period entity.BillingPeriod) *entity.PricingEntry {
	if s.matrix == nil {
		return nil
	}
	pricing, ok := s.matrix[region].Plan(plan)
	if !ok {
		return nil
	}
	return entity.NormalizeEntry(plan, region, pricing, period)
}

func (s *controllerPricingService) RefreshPricing(context.Context) error {
	s.refreshed++
	return s.refreshErr
}

type controllerPreferenceRepo struct {
	prefs   map[string]*entity.RegionPreference
	findErr error
}

func (r *controllerPreferenceRepo) FindByUserID(_ context.Context, userID string) (*entity.RegionPreference, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.prefs[userID], nil
}

func (r *controllerPreferenceRepo) Upsert(_ context.Context, pref *entity.RegionPreference) error {
	if r.prefs == nil {
		r.prefs = map[string]*entity.RegionPreference{}
	}
	r.prefs[pref.UserID] = pref
	return nil
}

func usMatrix() entity.PricingMatrix {
	us := entity.NewRegionPricing()
	us.Set(entity.PlanTypeSimple, entity.PlanPricing{
		Monthly: &entity.PeriodPricing{Price: 12, DisplayPrice: "$12.00"},
		Yearly:  &entity.PeriodPricing{Price: 120, DisplayPrice: "$120.00"},
	})
	return entity.PricingMatrix{entity.RegionUS: us}
}

func loadedPricing() *controllerPricingService {
	matrix := usMatrix()
	return &controllerPricingService{
		state:  service.PricingState{HasData: true, UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		matrix: matrix,
		entries: map[entity.Region][]entity.PricingEntry{
			entity.RegionUS: {*entity.NormalizeEntry(entity.PlanTypeSimple, entity.RegionUS, mustPlan(matrix, entity.RegionUS, entity.PlanTypeSimple), entity.BillingPeriodMonthly)},
		},
	}
}

func mustPlan(matrix entity.PricingMatrix, region entity.Region, plan entity.PlanType) entity.PlanPricing {
	pricing, _ := matrix[region].Plan(plan)
	return pricing
}

func newControllerForTest(pricing *controllerPricingService, prefs *controllerPreferenceRepo) *PricingController {
	formatter := service.NewDisplayFormatter(pricing, nil)
	regions := service.NewRegionService(prefs, formatter, entity.RegionPT)
	return NewPricingController(pricing, regions, payment.NewQuoteService(pricing))
}

func doRequest(t *testing.T, method, target, body string, handler func(echo.Context) error, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	if len(params) == 2 {
		ctx.SetParamNames(params[0])
		ctx.SetParamValues(params[1])
	}
	_ = handler(ctx)
	return rec
}

func TestHealth(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/health", "", ctrl.Health)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMatrixUnavailableWhileLoading(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{state: service.PricingState{Loading: true}}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/matrix", "", ctrl.Matrix)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMatrixReturnsLoadErrorMessage(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{state: service.PricingState{Error: service.LoadErrorMessage}}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/matrix", "", ctrl.Matrix)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	if payload.Error != service.LoadErrorMessage {
		t.Fatalf("unexpected error: %s", payload.Error)
	}
}

func TestMatrixSuccess(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/matrix", "", ctrl.Matrix)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Matrix    map[string]map[string]json.RawMessage `json:"matrix"`
		UpdatedAt string                                `json:"updated_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := payload.Matrix["US"]["simple"]; !ok || payload.UpdatedAt != "2026-03-01T00:00:00Z" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestRegionPricingInvalidRegion(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/region/DE", "", ctrl.RegionPricing, "region", "DE")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegionPricingReturnsEntries(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/region/us", "", ctrl.RegionPricing, "region", "us")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Region  string `json:"region"`
		Pricing []struct {
			PlanType     string `json:"planType"`
			DisplayPrice string `json:"displayPrice"`
		} `json:"pricing"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Region != "US" || len(payload.Pricing) != 1 || payload.Pricing[0].DisplayPrice != "$12.00" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestLiveRegionPricingReturnsEmptyListOnFailure(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{live: []entity.PricingEntry{}}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/region/PT/live", "", ctrl.LiveRegionPricing, "region", "PT")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"pricing":[]`)) {
		t.Fatalf("expected empty pricing list, got %s", rec.Body.String())
	}
}

func TestPlanPriceNotFound(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/plan?plan_type=business&region=US", "", ctrl.PlanPrice)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPlanPriceValidationError(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/plan?region=US", "", ctrl.PlanPrice)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlanPriceYearly(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/plan?plan_type=simple&region=US&billing_period=yearly", "", ctrl.PlanPrice)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Pricing struct {
			DisplayPrice string `json:"displayPrice"`
			Price        struct {
				Monthly *float64 `json:"monthly"`
				Yearly  *float64 `json:"yearly"`
			} `json:"price"`
		} `json:"pricing"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Pricing.DisplayPrice != "$120.00" || payload.Pricing.Price.Yearly == nil || *payload.Pricing.Price.Yearly != 120 {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestPriceDisplayUsesAPITier(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/pricing/display?plan_type=simple&region=US", "", ctrl.PriceDisplay)
	assertDisplay(t, rec, "US", "$12.00", service.DisplayTierAPI)
}

func TestPriceDisplayUsesStoredPreference(t *testing.T) {
	prefs := &controllerPreferenceRepo{prefs: map[string]*entity.RegionPreference{
		"u1": {UserID: "u1", Region: entity.RegionBR},
	}}
	ctrl := newControllerForTest(loadedPricing(), prefs)
	rec := doRequest(t, http.MethodGet, "/pricing/display?plan_type=business&billing_period=yearly&user_id=u1", "", ctrl.PriceDisplay)
	assertDisplay(t, rec, "BR", "R$ 149,90 (yearly pricing not available)", service.DisplayTierDegradedYearly)
}

func TestPriceDisplayFallsBackToDefaultRegion(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{state: service.PricingState{Loading: true}}, &controllerPreferenceRepo{findErr: errors.New("db down")})
	rec := doRequest(t, http.MethodGet, "/pricing/display?plan_type=simple&user_id=u1", "", ctrl.PriceDisplay)
	assertDisplay(t, rec, "PT", "€9,99", service.DisplayTierStaticMonthly)
}

func assertDisplay(t *testing.T, rec *httptest.ResponseRecorder, region, value, source string) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Region       string `json:"region"`
		DisplayPrice string `json:"display_price"`
		Source       string `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Region != region || payload.DisplayPrice != value || payload.Source != source {
		t.Fatalf("unexpected display: %+v", payload)
	}
}

func TestRefreshUnavailable(t *testing.T) {
	pricing := &controllerPricingService{refreshErr: fmt.Errorf("%w: boom", service.ErrPricingUnavailable)}
	ctrl := newControllerForTest(pricing, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodPost, "/pricing/refresh", "", ctrl.Refresh)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if pricing.refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", pricing.refreshed)
	}
}

func TestRefreshSuccess(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodPost, "/pricing/refresh", "", ctrl.Refresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListRegions(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/regions", "", ctrl.ListRegions)
	var payload struct {
		DefaultRegion string `json:"default_region"`
		Regions       []struct {
			Region   string `json:"region"`
			Currency string `json:"currency"`
		} `json:"regions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.DefaultRegion != "PT" || len(payload.Regions) != 6 || payload.Regions[1].Currency != "BRL" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestGetRegionPreferenceNotFound(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodGet, "/regions/preference?user_id=u9", "", ctrl.GetRegionPreference)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSetRegionPreferenceSyncsLanguage(t *testing.T) {
	prefs := &controllerPreferenceRepo{}
	ctrl := newControllerForTest(&controllerPricingService{}, prefs)
	rec := doRequest(t, http.MethodPut, "/regions/preference", `{"user_id":"u1","region":"fr"}`, ctrl.SetRegionPreference)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if prefs.prefs["u1"] == nil || prefs.prefs["u1"].Language != "fr-FR" {
		t.Fatalf("expected stored fr-FR preference, got %+v", prefs.prefs["u1"])
	}
}

func TestSetRegionPreferenceBadBody(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodPut, "/regions/preference", "{bad", ctrl.SetRegionPreference)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutQuoteSuccess(t *testing.T) {
	ctrl := newControllerForTest(loadedPricing(), &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodPost, "/checkout/quote", `{"plan_type":"simple","region":"US","billing_period":"yearly"}`, ctrl.CheckoutQuote)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var payload struct {
		AmountCents int64  `json:"amount_cents"`
		Currency    string `json:"currency"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	if payload.AmountCents != 12000 || payload.Currency != "USD" {
		t.Fatalf("unexpected quote: %s", rec.Body.String())
	}
}

func TestCheckoutQuoteUnavailable(t *testing.T) {
	ctrl := newControllerForTest(&controllerPricingService{}, &controllerPreferenceRepo{})
	rec := doRequest(t, http.MethodPost, "/checkout/quote", `{"plan_type":"simple","region":"PT"}`, ctrl.CheckoutQuote)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
