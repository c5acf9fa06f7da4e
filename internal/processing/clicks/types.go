package clicks

// DailyCount is the number of clicks a link got on one UTC day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
