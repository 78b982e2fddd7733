package models

import (
	"strings"
	"time"

	"github.com/acctsync/backend/internal/platform"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductType is the QuickBooks item type. Xero items use the same values
// in the mirror, with NonInventory mapping to untracked items.
type ProductType string

const (
	ProductTypeInventory    ProductType = "Inventory"
	ProductTypeService      ProductType = "Service"
	ProductTypeNonInventory ProductType = "NonInventory"
)

// Product mirrors a product or item. The required fields diverge per
// platform and per type, see BeforeSave.
type Product struct {
	DefaultModel
	Platform    platform.Platform `json:"platform" gorm:"index:product_platform_platform_id"`
	PlatformID  string            `json:"platformId" gorm:"index:product_platform_platform_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	UnitPrice   decimal.Decimal   `json:"unitPrice" gorm:"type:DECIMAL(20,8)"`
	Type        ProductType       `json:"type"`
	Active      bool              `json:"active"`

	// QuickBooks account references
	IncomeAccount string `json:"incomeAccount"`

	// Xero account codes
	Code             string `json:"code"`
	SalesAccountCode string `json:"salesAccountCode"`

	// Inventory tracking, required for Inventory products on both platforms
	AssetAccount       string          `json:"assetAccount"`
	COGSAccountCode    string          `json:"cogsAccountCode"`
	QuantityOnHand     decimal.Decimal `json:"quantityOnHand" gorm:"type:DECIMAL(20,8)"`
	InventoryStartDate *time.Time      `json:"inventoryStartDate"`
}

func (p *Product) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.TrimSpace(p.Code)

	if !p.Platform.Valid() {
		return ErrPlatformInvalid
	}

	if p.Name == "" {
		return ErrNameRequired
	}

	switch p.Type {
	case ProductTypeInventory, ProductTypeService, ProductTypeNonInventory:
	default:
		return ErrProductTypeInvalid
	}

	if p.UnitPrice.IsNegative() {
		return ErrAmountNegative
	}

	if p.Platform == platform.Xero && p.Code == "" {
		return ErrXeroItemCodeRequired
	}

	// Records synced from a platform are trusted as-is, the inventory
	// field rules only apply to records entered through the console.
	if p.Type == ProductTypeInventory && p.PlatformID == "" {
		if p.AssetAccount == "" || p.COGSAccountCode == "" || p.InventoryStartDate == nil || p.QuantityOnHand.IsZero() {
			return ErrInventoryFieldsRequired
		}
	}

	return nil
}
