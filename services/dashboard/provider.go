package dashboard

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"campaign-flow/api/services/flow"
)

// highValuePrice is the unit price from which a product counts as high value.
const highValuePrice = 100

// Provider serves the fixed sample carts and the canned insights. It is safe
// for concurrent use.
type Provider struct {
	carts []AbandonedCart
	delay time.Duration

	mu       sync.Mutex
	rng      *rand.Rand
	insights []Insight
}

// NewProvider returns a provider over the sample data. delay is how long an
// insights refresh pretends to think; a nil rng uses a randomly seeded one.
func NewProvider(delay time.Duration, rng *rand.Rand) *Provider {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Provider{
		carts:    abandonedCarts,
		delay:    delay,
		rng:      rng,
		insights: slices.Clone(sampleInsights),
	}
}

// Carts returns the sample carts in their fixed order.
func (p *Provider) Carts() []AbandonedCart {
	return slices.Clone(p.carts)
}

// Products returns the sample catalogue.
func (p *Provider) Products() []Product {
	return slices.Clone(products)
}

// Cart looks up a cart by id.
func (p *Provider) Cart(id string) (AbandonedCart, bool) {
	i := slices.IndexFunc(p.carts, func(c AbandonedCart) bool { return c.ID == id })
	if i < 0 {
		return AbandonedCart{}, false
	}
	return p.carts[i], true
}

func (p *Provider) DashboardMetrics() DashboardMetrics {
	return ComputeDashboardMetrics(p.carts)
}

func (p *Provider) MarketingMetrics() MarketingMetrics {
	return ComputeMarketingMetrics(p.carts)
}

// CartFacts derives the decision facts of cart id as of now, keyed by the
// property names a flow condition can test.
func (p *Provider) CartFacts(id string, now time.Time) (flow.Facts, bool) {
	c, ok := p.Cart(id)
	if !ok {
		return nil, false
	}
	return Facts(c, now), true
}

// Facts maps one cart onto condition properties. abandoned_duration is in
// whole minutes and never negative.
func Facts(c AbandonedCart, now time.Time) flow.Facts {
	items := 0
	highValue := false
	categories := make([]string, 0, len(c.Products))
	for _, li := range c.Products {
		items += li.Quantity
		if li.Product.Price >= highValuePrice {
			highValue = true
		}
		if !slices.Contains(categories, li.Product.Category) {
			categories = append(categories, li.Product.Category)
		}
	}

	duration := 0.0
	if at, err := c.AbandonedAt(); err == nil && now.After(at) {
		duration = math.Floor(now.Sub(at).Minutes())
	}

	prefs := c.MarketingPreferences
	attempts := c.RecoveryAttempts
	facts := flow.Facts{
		"cart_value":         c.CartValue,
		"item_count":         items,
		"cart_count":         len(c.Products),
		"high_value_items":   highValue,
		"abandoned_duration": duration,
		"email_subscribed":   prefs.EmailSubscribed,
		"sms_subscribed":     prefs.SMSSubscribed,
		"marketing_segment":  prefs.MarketingSegment,
		"customer_tier":      prefs.MarketingSegment,
		"last_engagement":    prefs.LastEngagement,
		"email_opened":       attempts.Email != nil && attempts.Email.Opened,
		"email_clicked":      attempts.Email != nil && attempts.Email.Clicked,
		"sms_delivered":      attempts.SMS != nil && attempts.SMS.Delivered,
		"push_opened":        attempts.Push != nil && attempts.Push.Opened,
		"website_visited":    attempts.Retargeting != nil && attempts.Retargeting.Clicks > 0,
	}
	if len(categories) > 0 {
		facts["product_category"] = categories[0]
	}
	return facts
}

// Insights returns the current recommendation order.
func (p *Provider) Insights() []Insight {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.insights)
}

// RefreshInsights waits out the simulated analysis delay and reshuffles the
// recommendations. A cancelled context leaves the current order in place.
func (p *Provider) RefreshInsights(ctx context.Context) ([]Insight, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	shuffled := slices.Clone(sampleInsights)
	p.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	p.insights = shuffled
	return slices.Clone(shuffled), nil
}
