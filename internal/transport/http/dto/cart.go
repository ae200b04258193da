package dto

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int32 `json:"quantity" binding:"required,gt=0"`
}

type CartItemResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Quantity  int32   `json:"quantity"`
	Stock     int32   `json:"stock"`
	FarmerID  string  `json:"farmerId"`
	FarmName  string  `json:"farmName,omitempty"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Subtotal  float64            `json:"subtotal"`
	ItemCount int64              `json:"itemCount"`
}

type CartCountResponse struct {
	Count int64 `json:"count"`
}
