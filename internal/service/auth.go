package service

import (
	"time"

	"github.com/google/uuid"
)

type RegisterConsumerInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string

	Address     string
	City        string
	State       string
	PostalCode  string
	PhoneNumber string
}

type RegisterFarmerInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string

	FarmName        string
	FarmDescription string
	FarmAddress     string
	City            string
	State           string
	PostalCode      string
	PhoneNumber     string
	IsOrganic       bool
	IsNonGMO        bool
	IsSustainable   bool
	IsPastureRaised bool
}

type AuthResult struct {
	UserID      uuid.UUID
	UserType    string
	FirstName   string
	LastName    string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}
