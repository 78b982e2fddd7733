package models

import (
	"strings"

	"github.com/acctsync/backend/internal/platform"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer mirrors a customer record from one of the platforms.
//
// PlatformID is the QuickBooks customer ID or the Xero ContactID,
// depending on the platform the record came from.
type Customer struct {
	DefaultModel
	Platform    platform.Platform `json:"platform" gorm:"index:customer_platform_platform_id"`
	PlatformID  string            `json:"platformId" gorm:"index:customer_platform_platform_id"`
	DisplayName string            `json:"displayName"`
	GivenName   string            `json:"givenName"`
	FamilyName  string            `json:"familyName"`
	CompanyName string            `json:"companyName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`

	BillingLine1      string `json:"billingLine1"`
	BillingCity       string `json:"billingCity"`
	BillingState      string `json:"billingState"`
	BillingPostalCode string `json:"billingPostalCode"`
	BillingCountry    string `json:"billingCountry"`

	Balance decimal.Decimal `json:"balance" gorm:"type:DECIMAL(20,8)"`
	Active  bool            `json:"active"`
}

// BeforeSave trims whitespace and verifies the record is complete enough
// to be submitted to either platform.
func (c *Customer) BeforeSave(_ *gorm.DB) error {
	c.DisplayName = strings.TrimSpace(c.DisplayName)
	c.Email = strings.TrimSpace(c.Email)

	if !c.Platform.Valid() {
		return ErrPlatformInvalid
	}

	if c.DisplayName == "" {
		return ErrDisplayNameRequired
	}

	return nil
}
