package models

import (
	"time"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeConsumer UserType = "consumer"
	UserTypeFarmer   UserType = "farmer"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	FirstName    string    `gorm:"type:text;not null"`
	LastName     string    `gorm:"type:text;not null"`
	UserType     UserType  `gorm:"type:text;not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

// Consumer — профиль покупателя, 1:1 с users (каскад от users)
type Consumer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Address     string    `gorm:"type:text"`
	City        string    `gorm:"type:text"`
	State       string    `gorm:"type:text"`
	PostalCode  string    `gorm:"type:text"`
	PhoneNumber string    `gorm:"type:text"`
}

func (Consumer) TableName() string { return "consumers" }

// Farmer — профиль фермера, 1:1 с users (каскад от users)
type Farmer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	FarmName        string    `gorm:"type:text;not null"`
	FarmDescription string    `gorm:"type:text"`
	FarmAddress     string    `gorm:"type:text;not null"`
	City            string    `gorm:"type:text;not null"`
	State           string    `gorm:"type:text;not null"`
	PostalCode      string    `gorm:"type:text;not null"`
	PhoneNumber     string    `gorm:"type:text;not null"`
	IsOrganic       bool      `gorm:"not null;default:false"`
	IsNonGMO        bool      `gorm:"not null;default:false"`
	IsSustainable   bool      `gorm:"not null;default:false"`
	IsPastureRaised bool      `gorm:"not null;default:false"`
}

func (Farmer) TableName() string { return "farmers" }

type ProductCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
}

func (ProductCategory) TableName() string { return "product_categories" }

type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"type:text;not null"`
	Description string     `gorm:"type:text;not null"`
	PriceCents  int64      `gorm:"not null;default:0"`
	Unit        string     `gorm:"type:text;not null"` // lb, each, dozen
	ImageURL    string     `gorm:"type:text"`
	Stock       int32      `gorm:"not null;default:0"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	FarmerID    uuid.UUID  `gorm:"type:uuid;not null;index"`

	IsOrganic       bool `gorm:"not null;default:false"`
	IsNonGMO        bool `gorm:"not null;default:false"`
	IsSustainable   bool `gorm:"not null;default:false"`
	IsPastureRaised bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Product) TableName() string { return "products" }

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_cart_items_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_user_product"`
	Quantity  int32     `gorm:"type:int;not null;default:1"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartItem) TableName() string { return "cart_items" }

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	TotalCents int64       `gorm:"not null;default:0"`
	Status     OrderStatus `gorm:"type:text;not null;default:'processing';index"`

	ShippingAddress    string `gorm:"type:text"`
	ShippingCity       string `gorm:"type:text"`
	ShippingState      string `gorm:"type:text"`
	ShippingPostalCode string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // каскад на позиции
}

func (Order) TableName() string { return "orders" }

// OrderItem хранит снапшот цены и названия на момент покупки —
// последующие правки товара на историю заказов не влияют.
type OrderItem struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_product"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_order_items_order_product"`
	FarmerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity          int32     `gorm:"type:int;not null"`
	PricePerUnitCents int64     `gorm:"not null"`
	ProductName       string    `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

// FarmerRevenue — одна строка на фермера на заказ (append-only).
type FarmerRevenue struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FarmerID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_farmer_revenue_farmer_order"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_farmer_revenue_farmer_order"`
	AmountCents int64     `gorm:"not null"`
	Date        time.Time `gorm:"type:date;not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (FarmerRevenue) TableName() string { return "farmer_revenue" }

type CustomerAnalytics struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TotalOrders     int64     `gorm:"not null;default:0"`
	TotalSpentCents int64     `gorm:"not null;default:0"`
	FirstOrderDate  time.Time `gorm:"type:date;not null"`
	LastOrderDate   time.Time `gorm:"type:date;not null"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`

	PreferredFarmers []CustomerPreferredFarmer `gorm:"foreignKey:AnalyticsID;constraint:OnDelete:CASCADE"`
}

func (CustomerAnalytics) TableName() string { return "customer_analytics" }

// CustomerPreferredFarmer — множество фермеров, у которых покупатель заказывал.
// Нормальная join-таблица вместо JSON-списка в текстовой колонке.
type CustomerPreferredFarmer struct {
	AnalyticsID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FarmerID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (CustomerPreferredFarmer) TableName() string { return "customer_preferred_farmers" }

type ProductAnalytics struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TotalSold         int64     `gorm:"not null;default:0"`
	TotalRevenueCents int64     `gorm:"not null;default:0"`
	LastSoldDate      time.Time `gorm:"type:date;not null"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (ProductAnalytics) TableName() string { return "product_analytics" }
