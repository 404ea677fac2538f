package models

// Requests for the evaluation HTTP endpoints. Defined in domain for consistency and reuse.

type EvaluateRequest struct {
	Pairs []string `query:"pairs" json:"pairs"`
	N     int      `query:"n" json:"n" default:"256" validate:"gte=1,lte=5000"`
}

type DecisionRequest struct {
	Pair string `query:"pair" json:"pair" validate:"required"`
	N    int    `query:"n" json:"n" default:"256" validate:"gte=1,lte=5000"`
}

type ClassificationRequest struct {
	Pair string `query:"pair" json:"pair" validate:"required"`
	N    int    `query:"n" json:"n" default:"256" validate:"gte=1,lte=5000"`
}

type CorrelationRequest struct {
	N int `query:"n" json:"n" default:"256" validate:"gte=1,lte=5000"`
}

type HistoryRequest struct {
	Pair  string `query:"pair" json:"pair" validate:"required"`
	From  int64  `query:"from" json:"from" validate:"gte=0"`
	To    int64  `query:"to" json:"to" validate:"gte=0"`
	TF    string `query:"tf" json:"tf"`
	Limit int    `query:"limit" json:"limit" default:"10000" validate:"gte=0,lte=50000"`
}
