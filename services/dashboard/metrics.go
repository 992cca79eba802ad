package dashboard

import "math"

// ComputeDashboardMetrics aggregates recovery figures over carts. Rates and
// averages are rounded to two decimals.
func ComputeDashboardMetrics(carts []AbandonedCart) DashboardMetrics {
	m := DashboardMetrics{TotalAbandoned: len(carts)}
	if len(carts) == 0 {
		return m
	}

	recovered := 0
	var revenue, total float64
	for _, c := range carts {
		total += c.CartValue
		if c.Status == StatusRecovered {
			recovered++
			revenue += c.RecoveredAmount
		}
	}

	m.RecoveryRate = round2(float64(recovered) / float64(len(carts)) * 100)
	m.RevenueRecovered = round2(revenue)
	m.AvgCartValue = round2(total / float64(len(carts)))
	return m
}

// ComputeMarketingMetrics aggregates channel reach and email engagement over
// carts. Rates are whole percentages.
func ComputeMarketingMetrics(carts []AbandonedCart) MarketingMetrics {
	m := MarketingMetrics{TotalCustomers: len(carts)}
	if len(carts) == 0 {
		return m
	}

	var email, sms, push, retargeting int
	for _, c := range carts {
		p := c.MarketingPreferences
		email += boolInt(p.EmailSubscribed)
		sms += boolInt(p.SMSSubscribed)
		push += boolInt(p.PushNotifications)
		retargeting += boolInt(p.SocialMediaRetargeting)

		if e := c.RecoveryAttempts.Email; e != nil {
			m.EmailsSent += boolInt(e.Sent)
			m.EmailsOpened += boolInt(e.Opened)
			m.EmailsClicked += boolInt(e.Clicked)
		}
	}

	m.EmailSubscriptionRate = percent(email, len(carts))
	m.SMSSubscriptionRate = percent(sms, len(carts))
	m.PushSubscriptionRate = percent(push, len(carts))
	m.RetargetingEnabledRate = percent(retargeting, len(carts))
	m.EmailOpenRate = percent(m.EmailsOpened, m.EmailsSent)
	m.EmailClickRate = percent(m.EmailsClicked, m.EmailsOpened)
	return m
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
