package dto

// Адрес доставки не валидируется: поля сохраняются в заказ как есть.
type CheckoutRequest struct {
	ShippingAddress    string `json:"shippingAddress"`
	ShippingCity       string `json:"shippingCity"`
	ShippingState      string `json:"shippingState"`
	ShippingPostalCode string `json:"shippingPostalCode"`
}

type CheckoutResponse struct {
	OrderID string  `json:"orderId"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
	Message string  `json:"message"`
}
