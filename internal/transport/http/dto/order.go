package dto

import "time"

type OrderItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	FarmerID    string  `json:"farmerId"`
	ProductName string  `json:"productName"`
	Quantity    int32   `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Total     float64             `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	Items     []OrderItemResponse `json:"items"`

	ShippingAddress    string `json:"shippingAddress"`
	ShippingCity       string `json:"shippingCity"`
	ShippingState      string `json:"shippingState"`
	ShippingPostalCode string `json:"shippingPostalCode"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

type FarmerOrderLineResponse struct {
	OrderID      string    `json:"orderId"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	Quantity     int32     `json:"quantity"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	OrderedAt    time.Time `json:"orderedAt"`
	CustomerName string    `json:"customerName"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
}

type FarmerOrderListResponse struct {
	Orders []FarmerOrderLineResponse `json:"orders"`
	Total  int64                     `json:"total"`
}
