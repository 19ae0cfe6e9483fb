package api

// BidCheckRequest представляет запрос проверки статуса ставок пользователя
type BidCheckRequest struct {
	UserID string `json:"userId"`
}

// BidOutcome describes one bid whose status changed on the backend.
type BidOutcome struct {
	TenderID    string  `json:"tenderId"`
	TenderTitle string  `json:"tenderTitle"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
}

// BidCheckResult is the transient answer of one poll tick.
type BidCheckResult struct {
	Outcomes   []BidOutcome `json:"outcomes,omitempty"`
	Message    string       `json:"message,omitempty"`
	HasChanges bool         `json:"hasChanges"`
}
