package dashboard

import "time"

type CartStatus string

const (
	StatusAbandoned  CartStatus = "abandoned"
	StatusRecovered  CartStatus = "recovered"
	StatusInProgress CartStatus = "in_progress"
)

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type MarketingPreferences struct {
	EmailSubscribed        bool   `json:"emailSubscribed"`
	SMSSubscribed          bool   `json:"smsSubscribed"`
	PushNotifications      bool   `json:"pushNotifications"`
	SocialMediaRetargeting bool   `json:"socialMediaRetargeting"`
	DirectMail             bool   `json:"directMail"`
	SubscriptionDate       string `json:"subscriptionDate,omitempty"`
	LastEngagement         string `json:"lastEngagement,omitempty"`
	PreferredContactTime   string `json:"preferredContactTime,omitempty"`
	MarketingSegment       string `json:"marketingSegment,omitempty"`
}

type EmailAttempt struct {
	Sent     bool   `json:"sent"`
	Opened   bool   `json:"opened"`
	Clicked  bool   `json:"clicked"`
	SentDate string `json:"sentDate,omitempty"`
}

type SMSAttempt struct {
	Sent      bool   `json:"sent"`
	Delivered bool   `json:"delivered"`
	Replied   bool   `json:"replied"`
	SentDate  string `json:"sentDate,omitempty"`
}

type PushAttempt struct {
	Sent     bool   `json:"sent"`
	Opened   bool   `json:"opened"`
	SentDate string `json:"sentDate,omitempty"`
}

type Retargeting struct {
	Active      bool `json:"active"`
	Impressions int  `json:"impressions"`
	Clicks      int  `json:"clicks"`
}

// RecoveryAttempts lists the channels already tried for a cart. Absent
// channels were never attempted.
type RecoveryAttempts struct {
	Email       *EmailAttempt `json:"email,omitempty"`
	SMS         *SMSAttempt   `json:"sms,omitempty"`
	Push        *PushAttempt  `json:"push,omitempty"`
	Retargeting *Retargeting  `json:"retargeting,omitempty"`
}

type AbandonedCart struct {
	ID                   string               `json:"id"`
	CustomerName         string               `json:"customerName"`
	CustomerEmail        string               `json:"customerEmail"`
	Products             []LineItem           `json:"products"`
	CartValue            float64              `json:"cartValue"`
	AbandonedDate        string               `json:"abandonedDate"`
	Status               CartStatus           `json:"status"`
	RecoveredDate        string               `json:"recoveredDate,omitempty"`
	RecoveredAmount      float64              `json:"recoveredAmount,omitempty"`
	MarketingPreferences MarketingPreferences `json:"marketingPreferences"`
	RecoveryAttempts     RecoveryAttempts     `json:"recoveryAttempts"`
}

// AbandonedAt parses the cart's abandonment date as midnight UTC.
func (c AbandonedCart) AbandonedAt() (time.Time, error) {
	return time.Parse(time.DateOnly, c.AbandonedDate)
}

type DashboardMetrics struct {
	TotalAbandoned   int     `json:"totalAbandoned"`
	RecoveryRate     float64 `json:"recoveryRate"`
	RevenueRecovered float64 `json:"revenueRecovered"`
	AvgCartValue     float64 `json:"avgCartValue"`
}

type MarketingMetrics struct {
	TotalCustomers         int `json:"totalCustomers"`
	EmailSubscriptionRate  int `json:"emailSubscriptionRate"`
	SMSSubscriptionRate    int `json:"smsSubscriptionRate"`
	PushSubscriptionRate   int `json:"pushSubscriptionRate"`
	RetargetingEnabledRate int `json:"retargetingEnabledRate"`
	EmailOpenRate          int `json:"emailOpenRate"`
	EmailClickRate         int `json:"emailClickRate"`
	EmailsSent             int `json:"emailsSent"`
	EmailsOpened           int `json:"emailsOpened"`
	EmailsClicked          int `json:"emailsClicked"`
}

type InsightCategory string

const (
	CategoryTiming       InsightCategory = "timing"
	CategorySegmentation InsightCategory = "segmentation"
	CategoryMessaging    InsightCategory = "messaging"
	CategoryChannel      InsightCategory = "channel"
)

// Insight is a canned campaign recommendation.
type Insight struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Reasoning      string          `json:"reasoning"`
	Actions        []string        `json:"actions"`
	ExpectedImpact string          `json:"expectedImpact"`
	Confidence     int             `json:"confidence"`
	Category       InsightCategory `json:"category"`
}
