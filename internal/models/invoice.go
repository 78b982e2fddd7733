package models

import (
	"time"

	"github.com/acctsync/backend/internal/calc"
	"github.com/acctsync/backend/internal/platform"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice statuses. QuickBooks invoices mirror whatever the platform
// reports, the listed constants are the Xero lifecycle plus the local
// markers used for deletion rules.
const (
	InvoiceStatusDraft      = "DRAFT"
	InvoiceStatusSubmitted  = "SUBMITTED"
	InvoiceStatusAuthorised = "AUTHORISED"
	InvoiceStatusPaid       = "PAID"
	InvoiceStatusVoided     = "VOIDED"
	InvoiceStatusDeleted    = "DELETED"
)

// Invoice mirrors an invoice with its line items. The total and all line
// amounts are derived on save, amounts sent by clients are never trusted.
type Invoice struct {
	DefaultModel
	Platform   platform.Platform `json:"platform" gorm:"index:invoice_platform_platform_id"`
	PlatformID string            `json:"platformId" gorm:"index:invoice_platform_platform_id"`
	DocNumber  string            `json:"docNumber"`
	Reference  string            `json:"reference"`
	CustomerID uuid.UUID         `json:"customerId"`
	Customer   Customer          `json:"-"`
	TxnDate    time.Time         `json:"txnDate"`
	DueDate    time.Time         `json:"dueDate"`
	Status     string            `json:"status"`
	Lines      []InvoiceLine     `json:"lines" gorm:"constraint:OnDelete:CASCADE"`
	Total      decimal.Decimal   `json:"total" gorm:"type:DECIMAL(20,8)"`
}

// InvoiceLine is one line of an invoice.
//
// DiscountPercent, TaxRate and AccountCode are only used by Xero lines.
// For QuickBooks lines both percentages are zero, which reduces the
// amount formula to quantity × unit price.
type InvoiceLine struct {
	DefaultModel
	InvoiceID       uuid.UUID       `json:"-" gorm:"index"`
	ProductID       *uuid.UUID      `json:"productId"`
	Product         Product         `json:"-"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:DECIMAL(20,8)"`
	UnitPrice       decimal.Decimal `json:"unitPrice" gorm:"type:DECIMAL(20,8)"`
	DiscountPercent decimal.Decimal `json:"discountPercent" gorm:"type:DECIMAL(20,8)"`
	TaxRate         decimal.Decimal `json:"taxRate" gorm:"type:DECIMAL(20,8)"`
	AccountCode     string          `json:"accountCode"`
	TaxAmount       decimal.Decimal `json:"taxAmount" gorm:"type:DECIMAL(20,8)"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
}

// Compute sets the derived tax amount and amount for the line.
// A zero quantity defaults to 1 so that selecting a product without
// touching the quantity yields the unit price as amount.
func (l *InvoiceLine) Compute() {
	if l.Quantity.IsZero() {
		l.Quantity = decimal.NewFromInt(1)
	}

	l.TaxAmount, l.Amount = calc.XeroLineAmount(l.Quantity, l.UnitPrice, l.DiscountPercent, l.TaxRate)
}

func (l *InvoiceLine) BeforeSave(_ *gorm.DB) error {
	l.Compute()
	return nil
}

// BeforeSave recomputes all line amounts and the invoice total.
//
// When the invoice is updated without its lines loaded, the stored total
// is kept as is. The controllers always save invoices with lines.
func (i *Invoice) BeforeSave(_ *gorm.DB) error {
	if !i.Platform.Valid() {
		return ErrPlatformInvalid
	}

	if len(i.Lines) == 0 {
		return nil
	}

	amounts := make([]decimal.Decimal, 0, len(i.Lines))
	for n := range i.Lines {
		i.Lines[n].Compute()
		amounts = append(amounts, i.Lines[n].Amount)
	}
	i.Total = calc.Total(amounts)

	return nil
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	if i.CustomerID == uuid.Nil {
		return ErrInvoiceCustomerRequired
	}

	if len(i.Lines) == 0 {
		return ErrInvoiceLineRequired
	}

	if i.Status == "" {
		i.Status = InvoiceStatusDraft
	}

	return nil
}

// Deletable reports whether the deletion rules of the invoice's platform
// allow deleting it. Xero only deletes draft invoices, QuickBooks
// soft-deletes anything that is not already deleted.
func (i Invoice) Deletable() bool {
	if i.Platform == platform.Xero {
		return i.Status == InvoiceStatusDraft
	}

	return i.Status != InvoiceStatusDeleted
}
