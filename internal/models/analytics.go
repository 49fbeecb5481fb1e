package models

// DailyActivity число документов за день.
type DailyActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardStats агрегаты по документам пользователя.
type DashboardStats struct {
	TotalDocuments int             `json:"totalDocuments"`
	SavedDocuments int             `json:"savedDocuments"`
	Last7Days      int             `json:"last7Days"`
	Last30Days     int             `json:"last30Days"`
	GrowthRate     float64         `json:"growthRate"`
	TypeBreakdown  map[string]int  `json:"typeBreakdown"`
	DailyActivity  []DailyActivity `json:"dailyActivity"`
	MostPopular    string          `json:"mostPopular,omitempty"`
	AvgPerWeek     float64         `json:"avgPerWeek"`
	SaveLimit      int             `json:"saveLimit"`
	Tier           string          `json:"tier"`
}
