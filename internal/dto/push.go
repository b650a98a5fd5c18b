package dto

// SubscriptionKeys mirrors PushSubscription.toJSON().keys from the browser.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

// BrowserSubscription mirrors PushSubscription.toJSON() from the browser.
type BrowserSubscription struct {
	Endpoint string           `json:"endpoint" validate:"required,url"`
	Keys     SubscriptionKeys `json:"keys" validate:"required"`
}

// SubscribeRequest stores the push endpoint for a person.
type SubscribeRequest struct {
	UserID       string              `json:"userId" validate:"required"`
	Subscription BrowserSubscription `json:"subscription" validate:"required"`
}
