package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PlanType string

const (
	PlanTypeSimple     PlanType = "simple"
	PlanTypeIndividual PlanType = "individual"
	PlanTypeBusiness   PlanType = "business"
)

func (p PlanType) Valid() bool {
	switch p {
	case PlanTypeSimple, PlanTypeIndividual, PlanTypeBusiness:
		return true
	}
	return false
}

type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

func (p BillingPeriod) Valid() bool {
	return p == BillingPeriodMonthly || p == BillingPeriodYearly
}

// PeriodPricing is the backend shape for one billing period of a plan.
type PeriodPricing struct {
	Price        float64 `json:"price"`
	DisplayPrice string  `json:"displayPrice"`
}

// Features holds plan limits and capability flags. Negative limits mean unlimited.
type Features struct {
	MaxProfessionals    int  `json:"maxProfessionals"`
	MaxServices         int  `json:"maxServices"`
	MaxBookingsPerMonth int  `json:"maxBookingsPerMonth"`
	OnlineBooking       bool `json:"onlineBooking"`
	SMSReminders        bool `json:"smsReminders"`
	CustomBranding      bool `json:"customBranding"`
	Analytics           bool `json:"analytics"`
	MultiLocation       bool `json:"multiLocation"`
	PrioritySupport     bool `json:"prioritySupport"`
}

type PlanPricing struct {
	Monthly  *PeriodPricing `json:"monthly,omitempty"`
	Yearly   *PeriodPricing `json:"yearly,omitempty"`
	Features *Features      `json:"features,omitempty"`
}

// RegionPricing maps plan types to backend pricing and remembers the key
// order of the payload it was decoded from.
type RegionPricing struct {
	keys  []PlanType
	plans map[PlanType]PlanPricing
}

func NewRegionPricing() *RegionPricing {
	return &RegionPricing{plans: make(map[PlanType]PlanPricing)}
}

func (r *RegionPricing) Set(plan PlanType, pricing PlanPricing) {
	if r.plans == nil {
		r.plans = make(map[PlanType]PlanPricing)
	}
	if _, ok := r.plans[plan]; !ok {
		r.keys = append(r.keys, plan)
	}
	r.plans[plan] = pricing
}

func (r *RegionPricing) Plan(plan PlanType) (PlanPricing, bool) {
	if r == nil {
		return PlanPricing{}, false
	}
	pricing, ok := r.plans[plan]
	return pricing, ok
}

func (r *RegionPricing) Plans() []PlanType {
	if r == nil {
		return nil
	}
	out := make([]PlanType, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *RegionPricing) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

func (r *RegionPricing) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = RegionPricing{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("region pricing must be a JSON object")
	}

	out := RegionPricing{plans: make(map[PlanType]PlanPricing)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected plan key %v", keyTok)
		}
		var pricing PlanPricing
		if err := dec.Decode(&pricing); err != nil {
			return fmt.Errorf("plan %q: %w", key, err)
		}
		out.Set(PlanType(key), pricing)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

func (r RegionPricing) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(string(key))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.plans[key])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PricingMatrix is the full region -> plan -> pricing payload of the pricing API.
// A matrix is never mutated once built; refreshes replace it wholesale.
type PricingMatrix map[Region]*RegionPricing

type EntryPrice struct {
	Monthly *float64 `json:"monthly,omitempty"`
	Yearly  *float64 `json:"yearly,omitempty"`
}

type PricingEntry struct {
	PlanType     PlanType   `json:"planType"`
	Region       Region     `json:"region"`
	Price        EntryPrice `json:"price"`
	DisplayPrice string     `json:"displayPrice"`
	Features     *Features  `json:"features,omitempty"`
}

// NormalizeEntry flattens the backend shape of one plan into a PricingEntry for
// the requested billing period. The display price falls back to the monthly
// one; numeric prices are copied from each period independently. Returns nil
// when neither period is present.
func NormalizeEntry(plan PlanType, region Region, pricing PlanPricing, period BillingPeriod) *PricingEntry {
	if pricing.Monthly == nil && pricing.Yearly == nil {
		return nil
	}

	requested := pricing.Monthly
	if period == BillingPeriodYearly {
		requested = pricing.Yearly
	}

	entry := &PricingEntry{
		PlanType: plan,
		Region:   region,
		Features: pricing.Features,
	}
	if requested != nil && requested.DisplayPrice != "" {
		entry.DisplayPrice = requested.DisplayPrice
	} else if pricing.Monthly != nil {
		entry.DisplayPrice = pricing.Monthly.DisplayPrice
	}
	if pricing.Monthly != nil {
		monthly := pricing.Monthly.Price
		entry.Price.Monthly = &monthly
	}
	if pricing.Yearly != nil {
		yearly := pricing.Yearly.Price
		entry.Price.Yearly = &yearly
	}

	return entry
}

// CacheData is the persisted form of a pricing matrix. Timestamp is epoch millis.
type CacheData struct {
	Matrix    PricingMatrix `json:"matrix"`
	Timestamp int64         `json:"timestamp"`
}

// Expired reports whether the entry is outside its validity window. An entry
// is valid only while now - timestamp < ttl.
func (c *CacheData) Expired(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-c.Timestamp >= ttl.Milliseconds()
}

func (c *CacheData) CachedAt() time.Time {
	return time.UnixMilli(c.Timestamp).UTC()
}
