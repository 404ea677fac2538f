package models

// RateTick is a single exchange-rate observation from the feed.
type RateTick struct {
	Pair      string
	Timestamp int64 // unix seconds
	Rate      float64
}
