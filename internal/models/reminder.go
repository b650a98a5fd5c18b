package models

// ReminderPayload is the JSON body shown by the service worker.
type ReminderPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// ReminderOutcome records what happened for one requested recipient.
type ReminderOutcome struct {
	PersonID  string `json:"id"`
	Delivered bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}

// ReminderSummary aggregates a batch of outcomes for the operator.
type ReminderSummary struct {
	Requested int `json:"requested"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// Summarize counts delivered and failed outcomes.
func Summarize(outcomes []ReminderOutcome) ReminderSummary {
	summary := ReminderSummary{Requested: len(outcomes)}
	for _, o := range outcomes {
		if o.Delivered {
			summary.Delivered++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// Recipient pairs a roster member with their subscription, if any.
type Recipient struct {
	PersonID     string
	FirstName    string
	Subscription *PushSubscription
}
