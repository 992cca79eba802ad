package dashboard

var products = []Product{
	{ID: "p1", Name: "Wireless Headphones", Price: 89.99, Category: "Electronics"},
	{ID: "p2", Name: "Bluetooth Speaker", Price: 45.99, Category: "Electronics"},
	{ID: "p3", Name: "Smart Watch", Price: 199.99, Category: "Electronics"},
	{ID: "p4", Name: "Phone Case", Price: 19.99, Category: "Accessories"},
	{ID: "p5", Name: "Laptop Stand", Price: 34.99, Category: "Accessories"},
	{ID: "p6", Name: "Gaming Mouse", Price: 59.99, Category: "Electronics"},
	{ID: "p7", Name: "Mechanical Keyboard", Price: 129.99, Category: "Electronics"},
	{ID: "p8", Name: "USB-C Cable", Price: 12.99, Category: "Accessories"},
	{ID: "p9", Name: "Portable Charger", Price: 29.99, Category: "Electronics"},
	{ID: "p10", Name: "Webcam", Price: 79.99, Category: "Electronics"},
	{ID: "p11", Name: "Desk Lamp", Price: 39.99, Category: "Home"},
	{ID: "p12", Name: "Coffee Mug", Price: 14.99, Category: "Home"},
	{ID: "p13", Name: "Notebook", Price: 8.99, Category: "Stationery"},
	{ID: "p14", Name: "Pen Set", Price: 24.99, Category: "Stationery"},
	{ID: "p15", Name: "Water Bottle", Price: 22.99, Category: "Home"},
	{ID: "p16", Name: "Yoga Mat", Price: 49.99, Category: "Fitness"},
	{ID: "p17", Name: "Resistance Bands", Price: 19.99, Category: "Fitness"},
	{ID: "p18", Name: "Protein Shaker", Price: 16.99, Category: "Fitness"},
	{ID: "p19", Name: "Backpack", Price: 69.99, Category: "Accessories"},
	{ID: "p20", Name: "Sunglasses", Price: 89.99, Category: "Accessories"},
}

func item(i, qty int) LineItem { return LineItem{Product: products[i], Quantity: qty} }

var abandonedCarts = []AbandonedCart{
	{
		ID: "cart1", CustomerName: "John Smith", CustomerEmail: "john.smith@email.com",
		Products:  []LineItem{item(0, 1), item(3, 2)},
		CartValue: 129.97, AbandonedDate: "2024-06-25", Status: StatusAbandoned,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, PushNotifications: true, SocialMediaRetargeting: true,
			SubscriptionDate: "2024-01-15", LastEngagement: "2024-06-20",
			PreferredContactTime: "evening", MarketingSegment: "frequent_buyer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email:       &EmailAttempt{Sent: true, Opened: true, SentDate: "2024-06-25"},
			Push:        &PushAttempt{Sent: true, SentDate: "2024-06-26"},
			Retargeting: &Retargeting{Active: true, Impressions: 45, Clicks: 2},
		},
	},
	{
		ID: "cart2", CustomerName: "Sarah Johnson", CustomerEmail: "sarah.j@email.com",
		Products:  []LineItem{item(2, 1), item(4, 1)},
		CartValue: 234.98, AbandonedDate: "2024-06-24", Status: StatusRecovered,
		RecoveredDate: "2024-06-26", RecoveredAmount: 234.98,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, SMSSubscribed: true, PushNotifications: true,
			SocialMediaRetargeting: true, DirectMail: true,
			SubscriptionDate: "2023-11-08", LastEngagement: "2024-06-26",
			PreferredContactTime: "morning", MarketingSegment: "vip",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email: &EmailAttempt{Sent: true, Opened: true, Clicked: true, SentDate: "2024-06-24"},
			SMS:   &SMSAttempt{Sent: true, Delivered: true, SentDate: "2024-06-25"},
		},
	},
	{
		ID: "cart3", CustomerName: "Mike Davis", CustomerEmail: "mike.davis@email.com",
		Products:  []LineItem{item(6, 1), item(5, 1)},
		CartValue: 189.98, AbandonedDate: "2024-06-23", Status: StatusInProgress,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed:  true,
			SubscriptionDate: "2024-03-12", LastEngagement: "2024-06-23",
			PreferredContactTime: "afternoon", MarketingSegment: "high_value",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email: &EmailAttempt{Sent: true, Opened: true, Clicked: true, SentDate: "2024-06-23"},
		},
	},
	{
		ID: "cart4", CustomerName: "Emily Brown", CustomerEmail: "emily.brown@email.com",
		Products:  []LineItem{item(1, 2), item(7, 3)},
		CartValue: 130.95, AbandonedDate: "2024-06-22", Status: StatusRecovered,
		RecoveredDate: "2024-06-24", RecoveredAmount: 130.95,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, SMSSubscribed: true, SocialMediaRetargeting: true,
			SubscriptionDate: "2024-02-28", LastEngagement: "2024-06-24",
			PreferredContactTime: "morning", MarketingSegment: "frequent_buyer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email:       &EmailAttempt{Sent: true, Opened: true, Clicked: true, SentDate: "2024-06-22"},
			SMS:         &SMSAttempt{Sent: true, Delivered: true, Replied: true, SentDate: "2024-06-23"},
			Retargeting: &Retargeting{Active: true, Impressions: 32, Clicks: 5},
		},
	},
	{
		ID: "cart5", CustomerName: "David Wilson", CustomerEmail: "david.w@email.com",
		Products:  []LineItem{item(9, 1), item(10, 1)},
		CartValue: 119.98, AbandonedDate: "2024-06-21", Status: StatusAbandoned,
		MarketingPreferences: MarketingPreferences{
			SubscriptionDate: "2024-04-10", LastEngagement: "2024-05-15",
			PreferredContactTime: "evening", MarketingSegment: "at_risk",
		},
		RecoveryAttempts: RecoveryAttempts{
			Retargeting: &Retargeting{},
		},
	},
	{
		ID: "cart6", CustomerName: "Lisa Garcia", CustomerEmail: "lisa.garcia@email.com",
		Products:  []LineItem{item(15, 1), item(16, 2)},
		CartValue: 89.97, AbandonedDate: "2024-06-20", Status: StatusRecovered,
		RecoveredDate: "2024-06-22", RecoveredAmount: 89.97,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, PushNotifications: true, SocialMediaRetargeting: true, DirectMail: true,
			SubscriptionDate: "2023-09-14", LastEngagement: "2024-06-22",
			PreferredContactTime: "afternoon", MarketingSegment: "frequent_buyer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email:       &EmailAttempt{Sent: true, Opened: true, Clicked: true, SentDate: "2024-06-20"},
			Push:        &PushAttempt{Sent: true, Opened: true, SentDate: "2024-06-21"},
			Retargeting: &Retargeting{Active: true, Impressions: 28, Clicks: 3},
		},
	},
	{
		ID: "cart7", CustomerName: "Tom Anderson", CustomerEmail: "tom.anderson@email.com",
		Products:  []LineItem{item(18, 1), item(19, 1)},
		CartValue: 159.98, AbandonedDate: "2024-06-19", Status: StatusAbandoned,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, SMSSubscribed: true,
			SubscriptionDate: "2024-01-22", LastEngagement: "2024-06-19",
			PreferredContactTime: "morning", MarketingSegment: "new_customer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email: &EmailAttempt{Sent: true, SentDate: "2024-06-19"},
			SMS:   &SMSAttempt{Sent: true, Delivered: true, SentDate: "2024-06-20"},
		},
	},
	{
		ID: "cart8", CustomerName: "Jessica Lee", CustomerEmail: "jessica.lee@email.com",
		Products:  []LineItem{item(11, 3), item(12, 2)},
		CartValue: 62.95, AbandonedDate: "2024-06-18", Status: StatusInProgress,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, PushNotifications: true, SocialMediaRetargeting: true,
			SubscriptionDate: "2023-12-05", LastEngagement: "2024-06-18",
			PreferredContactTime: "evening", MarketingSegment: "frequent_buyer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email:       &EmailAttempt{Sent: true, Opened: true, SentDate: "2024-06-18"},
			Push:        &PushAttempt{Sent: true, SentDate: "2024-06-19"},
			Retargeting: &Retargeting{Active: true, Impressions: 22, Clicks: 1},
		},
	},
	{
		ID: "cart9", CustomerName: "Robert Taylor", CustomerEmail: "robert.taylor@email.com",
		Products:  []LineItem{item(13, 1), item(14, 1)},
		CartValue: 47.98, AbandonedDate: "2024-06-17", Status: StatusRecovered,
		RecoveredDate: "2024-06-19", RecoveredAmount: 47.98,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, SMSSubscribed: true, PushNotifications: true, DirectMail: true,
			SubscriptionDate: "2023-08-30", LastEngagement: "2024-06-19",
			PreferredContactTime: "afternoon", MarketingSegment: "vip",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email: &EmailAttempt{Sent: true, Opened: true, Clicked: true, SentDate: "2024-06-17"},
			SMS:   &SMSAttempt{Sent: true, Delivered: true, Replied: true, SentDate: "2024-06-18"},
			Push:  &PushAttempt{Sent: true, Opened: true, SentDate: "2024-06-18"},
		},
	},
	{
		ID: "cart10", CustomerName: "Amanda White", CustomerEmail: "amanda.white@email.com",
		Products:  []LineItem{item(8, 2), item(17, 1)},
		CartValue: 76.97, AbandonedDate: "2024-06-16", Status: StatusAbandoned,
		MarketingPreferences: MarketingPreferences{
			SMSSubscribed: true, SocialMediaRetargeting: true,
			SubscriptionDate: "2024-05-02", LastEngagement: "2024-06-10",
			PreferredContactTime: "morning", MarketingSegment: "at_risk",
		},
		RecoveryAttempts: RecoveryAttempts{
			SMS:         &SMSAttempt{Sent: true, SentDate: "2024-06-16"},
			Retargeting: &Retargeting{Active: true, Impressions: 18},
		},
	},
	{
		ID: "cart11", CustomerName: "Kevin Martinez", CustomerEmail: "kevin.martinez@email.com",
		Products:  []LineItem{item(0, 1), item(1, 1)},
		CartValue: 135.98, AbandonedDate: "2024-06-15", Status: StatusRecovered,
		RecoveredDate: "2024-06-17", RecoveredAmount: 135.98,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, PushNotifications: true, SocialMediaRetargeting: true,
			SubscriptionDate: "2023-10-18", LastEngagement: "2024-06-17",
			PreferredContactTime: "evening", MarketingSegment: "high_value",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email:       &EmailAttempt{Sent: true, Opened: true, Clicked: true, SentDate: "2024-06-15"},
			Push:        &PushAttempt{Sent: true, Opened: true, SentDate: "2024-06-16"},
			Retargeting: &Retargeting{Active: true, Impressions: 35, Clicks: 4},
		},
	},
	{
		ID: "cart12", CustomerName: "Michelle Clark", CustomerEmail: "michelle.clark@email.com",
		Products:  []LineItem{item(2, 1)},
		CartValue: 199.99, AbandonedDate: "2024-06-14", Status: StatusAbandoned,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, SMSSubscribed: true, DirectMail: true,
			SubscriptionDate: "2024-01-08", LastEngagement: "2024-06-14",
			PreferredContactTime: "morning", MarketingSegment: "new_customer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email: &EmailAttempt{Sent: true, SentDate: "2024-06-14"},
			SMS:   &SMSAttempt{Sent: true, Delivered: true, SentDate: "2024-06-15"},
		},
	},
	{
		ID: "cart13", CustomerName: "James Rodriguez", CustomerEmail: "james.rodriguez@email.com",
		Products:  []LineItem{item(5, 1), item(7, 2)},
		CartValue: 85.97, AbandonedDate: "2024-06-13", Status: StatusInProgress,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, PushNotifications: true, SocialMediaRetargeting: true,
			SubscriptionDate: "2023-07-25", LastEngagement: "2024-06-13",
			PreferredContactTime: "afternoon", MarketingSegment: "frequent_buyer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email:       &EmailAttempt{Sent: true, Opened: true, SentDate: "2024-06-13"},
			Push:        &PushAttempt{Sent: true, Opened: true, SentDate: "2024-06-14"},
			Retargeting: &Retargeting{Active: true, Impressions: 26, Clicks: 2},
		},
	},
	{
		ID: "cart14", CustomerName: "Nicole Thompson", CustomerEmail: "nicole.thompson@email.com",
		Products:  []LineItem{item(10, 1), item(11, 2)},
		CartValue: 69.97, AbandonedDate: "2024-06-12", Status: StatusRecovered,
		RecoveredDate: "2024-06-14", RecoveredAmount: 69.97,
		MarketingPreferences: MarketingPreferences{
			EmailSubscribed: true, SMSSubscribed: true, PushNotifications: true,
			SubscriptionDate: "2023-11-30", LastEngagement: "2024-06-14",
			PreferredContactTime: "evening", MarketingSegment: "vip",
		},
		RecoveryAttempts: RecoveryAttempts{
			Email: &EmailAttempt{Sent: true, Opened: true, Clicked: true, SentDate: "2024-06-12"},
			SMS:   &SMSAttempt{Sent: true, Delivered: true, SentDate: "2024-06-13"},
			Push:  &PushAttempt{Sent: true, Opened: true, SentDate: "2024-06-13"},
		},
	},
	{
		ID: "cart15", CustomerName: "Daniel Lewis", CustomerEmail: "daniel.lewis@email.com",
		Products:  []LineItem{item(15, 1), item(17, 2)},
		CartValue: 83.97, AbandonedDate: "2024-06-11", Status: StatusAbandoned,
		MarketingPreferences: MarketingPreferences{
			SocialMediaRetargeting: true,
			SubscriptionDate:       "2024-06-01", LastEngagement: "2024-06-11",
			PreferredContactTime: "morning", MarketingSegment: "new_customer",
		},
		RecoveryAttempts: RecoveryAttempts{
			Retargeting: &Retargeting{Active: true, Impressions: 12},
		},
	},
}

var sampleInsights = []Insight{
	{
		ID:    "1",
		Title: "High-Value Cart Recovery Strategy",
		Reasoning: "Analysis shows carts >$200 have 34% higher recovery rates when contacted within 2 hours. " +
			"Customer data indicates these buyers are typically price-conscious but committed purchasers.",
		Actions: []string{
			"Send immediate email within 30 minutes for carts >$200",
			"Offer 10% discount for purchases completed within 24 hours",
			"Follow up with SMS after 6 hours if email unopened",
		},
		ExpectedImpact: "+28% recovery rate for high-value carts",
		Confidence:     92,
		Category:       CategoryTiming,
	},
	{
		ID:    "2",
		Title: "Mobile-First User Engagement",
		Reasoning: "Mobile users represent 68% of abandonments but only 23% of email opens. " +
			"However, they show 45% higher SMS engagement rates and respond well to push notifications.",
		Actions: []string{
			"Prioritize SMS for mobile-detected abandonments",
			"Use push notifications for app users within 1 hour",
			"Send mobile-optimized emails with clear CTAs",
		},
		ExpectedImpact: "+41% engagement from mobile users",
		Confidence:     87,
		Category:       CategoryChannel,
	},
	{
		ID:    "3",
		Title: "Behavioral Segmentation Approach",
		Reasoning: "First-time visitors abandon 73% more often than returning customers but show higher conversion " +
			"when offered social proof. Returning customers respond better to personalized product recommendations.",
		Actions: []string{
			"Show customer reviews and testimonials to new visitors",
			`Highlight "customers also bought" for returning users`,
			"Create separate email templates for each segment",
		},
		ExpectedImpact: "+19% overall conversion improvement",
		Confidence:     89,
		Category:       CategorySegmentation,
	},
	{
		ID:    "4",
		Title: "Weekend Recovery Optimization",
		Reasoning: "Weekend abandonments have 67% lower immediate recovery but 52% higher delayed recovery rates. " +
			"Users prefer browsing on weekends but purchasing on weekdays.",
		Actions: []string{
			"Delay weekend campaigns until Monday morning",
			"Focus on product browsing and wishlist building",
			`Send "Monday motivation" purchase reminders`,
		},
		ExpectedImpact: "+15% weekend cart recovery",
		Confidence:     84,
		Category:       CategoryTiming,
	},
}
