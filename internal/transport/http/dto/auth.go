package dto

import "time"

type RegisterConsumerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`

	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	PhoneNumber string `json:"phoneNumber"`
}

type RegisterFarmerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`

	FarmName        string `json:"farmName" binding:"required"`
	FarmDescription string `json:"farmDescription"`
	FarmAddress     string `json:"farmAddress" binding:"required"`
	City            string `json:"city" binding:"required"`
	State           string `json:"state" binding:"required"`
	PostalCode      string `json:"postalCode" binding:"required"`
	PhoneNumber     string `json:"phoneNumber" binding:"required"`
	IsOrganic       bool   `json:"isOrganic"`
	IsNonGMO        bool   `json:"isNonGMO"`
	IsSustainable   bool   `json:"isSustainable"`
	IsPastureRaised bool   `json:"isPastureRaised"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	UserID      string    `json:"userId"`
	UserType    string    `json:"userType"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
