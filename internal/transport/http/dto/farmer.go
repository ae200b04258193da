package dto

type FarmerResponse struct {
	ID              string `json:"id"`
	FarmName        string `json:"farmName"`
	FarmDescription string `json:"farmDescription,omitempty"`
	FarmAddress     string `json:"farmAddress"`
	City            string `json:"city"`
	State           string `json:"state"`
	PostalCode      string `json:"postalCode"`
	PhoneNumber     string `json:"phoneNumber"`
	OwnerFirstName  string `json:"ownerFirstName"`
	OwnerLastName   string `json:"ownerLastName"`

	IsOrganic       bool `json:"isOrganic"`
	IsNonGMO        bool `json:"isNonGMO"`
	IsSustainable   bool `json:"isSustainable"`
	IsPastureRaised bool `json:"isPastureRaised"`
}

type FarmerListResponse struct {
	Farmers []FarmerResponse `json:"farmers"`
	Total   int64            `json:"total"`
}

type RevenuePointResponse struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type TopProductResponse struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	TotalSold    int64   `json:"totalSold"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type DashboardResponse struct {
	TotalRevenue float64                `json:"totalRevenue"`
	OrderCount   int64                  `json:"orderCount"`
	Daily        []RevenuePointResponse `json:"daily"`
	TopProducts  []TopProductResponse   `json:"topProducts"`
	LowStock     []ProductResponse      `json:"lowStock"`
}
