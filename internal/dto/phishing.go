package dto

import "time"

type CheckURLRequest struct {
	URL string `json:"url" validate:"required,min=4"`
}

// CheckURLResponse mirrors what the mobile client consumes. Code is
// only present on a positive verdict; VisitedBefore is only present
// when the cache missed and the store was consulted.
type CheckURLResponse struct {
	Success       bool   `json:"success"`
	IsPhishing    bool   `json:"isPhishing"`
	Code          string `json:"code,omitempty"`
	VisitedBefore *bool  `json:"visitedBefore,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
	Error         string `json:"error,omitempty"`
}

type SubmitVerdictRequest struct {
	URL         string  `json:"url" validate:"required,min=4"`
	IsPhishing  bool    `json:"isPhishing"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// VerdictCacheEntry is the JSON value stored under phishing:url:<url>.
type VerdictCacheEntry struct {
	IsPhishing  bool   `json:"isPhishing"`
	Explanation string `json:"explanation,omitempty"`
}

type BlockEventResponse struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	Timestamp time.Time `json:"timestamp"`
}
