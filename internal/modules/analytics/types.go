package analytics

// Summary is the dashboard payload, shaped like the legacy endpoint.
type Summary struct {
	TotalCounts     TotalCounts      `json:"totalCounts"`
	SalesPipeline   []StageBucket    `json:"salesPipeline"`
	RecentCustomers []RecentCustomer `json:"recentCustomers"`
}

type TotalCounts struct {
	Customers     int64 `json:"customers"`
	Leads         int64 `json:"leads"`
	Opportunities int64 `json:"opportunities"`
}

// StageBucket is one pipeline group. The stage label travels as "_id" for
// compatibility with the legacy Mongo aggregation output.
type StageBucket struct {
	Stage      string  `json:"_id"        gorm:"column:stage"`
	TotalValue float64 `json:"totalValue" gorm:"column:total_value"`
	Count      int64   `json:"count"      gorm:"column:count"`
}

type RecentCustomer struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}
