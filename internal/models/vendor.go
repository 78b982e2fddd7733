package models

import (
	"strings"

	"github.com/acctsync/backend/internal/platform"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vendor mirrors a QuickBooks vendor. Xero suppliers are not synced,
// the vendor screens of the console are QuickBooks only.
type Vendor struct {
	DefaultModel
	Platform    platform.Platform `json:"platform" gorm:"index:vendor_platform_platform_id"`
	PlatformID  string            `json:"platformId" gorm:"index:vendor_platform_platform_id"`
	DisplayName string            `json:"displayName"`
	CompanyName string            `json:"companyName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Balance     decimal.Decimal   `json:"balance" gorm:"type:DECIMAL(20,8)"`
	Active      bool              `json:"active"`
}

// BeforeSave enforces the QuickBooks vendor rules: the display name is
// always required, phone and company name only for console records.
func (v *Vendor) BeforeSave(_ *gorm.DB) error {
	v.DisplayName = strings.TrimSpace(v.DisplayName)
	v.CompanyName = strings.TrimSpace(v.CompanyName)
	v.Phone = strings.TrimSpace(v.Phone)

	if v.Platform != platform.QuickBooks {
		return ErrVendorQuickBooksOnly
	}

	if v.DisplayName == "" {
		return ErrDisplayNameRequired
	}

	// Records synced from QuickBooks are trusted as-is, QuickBooks
	// itself allows vendors without phone or company name. The rules
	// only apply to records entered through the console.
	if v.PlatformID == "" {
		if v.Phone == "" {
			return ErrVendorPhoneRequired
		}

		if v.CompanyName == "" {
			return ErrVendorCompanyRequired
		}
	}

	return nil
}
