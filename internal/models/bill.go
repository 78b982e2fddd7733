package models

import (
	"time"

	"github.com/acctsync/backend/internal/calc"
	"github.com/acctsync/backend/internal/platform"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill line detail types, matching the QuickBooks wire names.
const (
	BillLineAccountBased = "AccountBasedExpenseLineDetail"
	BillLineItemBased    = "ItemBasedExpenseLineDetail"
)

// Bill mirrors a QuickBooks bill. The category (account based) and item
// based line collections of the console are stored as one collection
// discriminated by DetailType.
type Bill struct {
	DefaultModel
	Platform   platform.Platform `json:"platform" gorm:"index:bill_platform_platform_id"`
	PlatformID string            `json:"platformId" gorm:"index:bill_platform_platform_id"`
	DocNumber  string            `json:"docNumber"`
	VendorID   uuid.UUID         `json:"vendorId"`
	Vendor     Vendor            `json:"-"`
	TxnDate    time.Time         `json:"txnDate"`
	DueDate    time.Time         `json:"dueDate"`
	Status     string            `json:"status"`
	Lines      []BillLine        `json:"lines" gorm:"constraint:OnDelete:CASCADE"`
	Total      decimal.Decimal   `json:"total" gorm:"type:DECIMAL(20,8)"`
}

// BillLine is one expense line of a bill. AccountID is set for account
// based lines, ItemID for item based lines.
type BillLine struct {
	DefaultModel
	BillID      uuid.UUID       `json:"-" gorm:"index"`
	DetailType  string          `json:"detailType"`
	AccountID   string          `json:"accountId"`
	ItemID      string          `json:"itemId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:DECIMAL(20,8)"`
	UnitPrice   decimal.Decimal `json:"unitPrice" gorm:"type:DECIMAL(20,8)"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
}

// Compute sets the derived amount. Account based lines are floored at
// 0.01, the platforms reject zero amount expense lines.
func (l *BillLine) Compute() error {
	if l.Quantity.IsZero() {
		l.Quantity = decimal.NewFromInt(1)
	}

	switch l.DetailType {
	case BillLineAccountBased:
		l.Amount = calc.CategoryLineAmount(l.Quantity, l.UnitPrice)
	case BillLineItemBased:
		l.Amount = calc.LineAmount(l.Quantity, l.UnitPrice)
	default:
		return ErrBillLineDetailTypeInvalid
	}

	return nil
}

func (l *BillLine) BeforeSave(_ *gorm.DB) error {
	return l.Compute()
}

func (b *Bill) BeforeSave(_ *gorm.DB) error {
	if !b.Platform.Valid() {
		return ErrPlatformInvalid
	}

	if len(b.Lines) == 0 {
		return nil
	}

	amounts := make([]decimal.Decimal, 0, len(b.Lines))
	for n := range b.Lines {
		if err := b.Lines[n].Compute(); err != nil {
			return err
		}
		amounts = append(amounts, b.Lines[n].Amount)
	}
	b.Total = calc.Total(amounts)

	return nil
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	if b.VendorID == uuid.Nil {
		return ErrBillVendorRequired
	}

	return nil
}

// Deletable mirrors the invoice rules: Xero bills only while DRAFT.
func (b Bill) Deletable() bool {
	if b.Platform == platform.Xero {
		return b.Status == InvoiceStatusDraft
	}

	return b.Status != InvoiceStatusDeleted
}
