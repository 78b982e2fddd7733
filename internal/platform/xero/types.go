package xero

import (
	"time"

	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/shopspring/decimal"
)

// Wire types for the Xero accounting API.

type Phone struct {
	PhoneType   string `json:"PhoneType"`
	PhoneNumber string `json:"PhoneNumber"`
}

type Address struct {
	AddressType  string `json:"AddressType"`
	AddressLine1 string `json:"AddressLine1,omitempty"`
	City         string `json:"City,omitempty"`
	Region       string `json:"Region,omitempty"`
	PostalCode   string `json:"PostalCode,omitempty"`
	Country      string `json:"Country,omitempty"`
}

type Contact struct {
	ContactID     string    `json:"ContactID,omitempty"`
	Name          string    `json:"Name"`
	FirstName     string    `json:"FirstName,omitempty"`
	LastName      string    `json:"LastName,omitempty"`
	EmailAddress  string    `json:"EmailAddress,omitempty"`
	ContactStatus string    `json:"ContactStatus,omitempty"`
	Phones        []Phone   `json:"Phones,omitempty"`
	Addresses     []Address `json:"Addresses,omitempty"`
}

type SalesDetails struct {
	UnitPrice   decimal.Decimal `json:"UnitPrice,omitempty"`
	AccountCode string          `json:"AccountCode,omitempty"`
}

type PurchaseDetails struct {
	UnitPrice       decimal.Decimal `json:"UnitPrice,omitempty"`
	COGSAccountCode string          `json:"COGSAccountCode,omitempty"`
}

type Item struct {
	ItemID                    string           `json:"ItemID,omitempty"`
	Code                      string           `json:"Code"`
	Name                      string           `json:"Name"`
	Description               string           `json:"Description,omitempty"`
	IsTrackedAsInventory      bool             `json:"IsTrackedAsInventory,omitempty"`
	InventoryAssetAccountCode string           `json:"InventoryAssetAccountCode,omitempty"`
	QuantityOnHand            decimal.Decimal  `json:"QuantityOnHand,omitempty"`
	SalesDetails              *SalesDetails    `json:"SalesDetails,omitempty"`
	PurchaseDetails           *PurchaseDetails `json:"PurchaseDetails,omitempty"`
}

type LineItem struct {
	ItemCode     string          `json:"ItemCode,omitempty"`
	Description  string          `json:"Description,omitempty"`
	Quantity     decimal.Decimal `json:"Quantity"`
	UnitAmount   decimal.Decimal `json:"UnitAmount"`
	DiscountRate decimal.Decimal `json:"DiscountRate,omitempty"`
	AccountCode  string          `json:"AccountCode,omitempty"`
	TaxType      string          `json:"TaxType,omitempty"`
	TaxAmount    decimal.Decimal `json:"TaxAmount,omitempty"`
	LineAmount   decimal.Decimal `json:"LineAmount"`
}

type Invoice struct {
	InvoiceID     string          `json:"InvoiceID,omitempty"`
	Type          string          `json:"Type,omitempty"`
	InvoiceNumber string          `json:"InvoiceNumber,omitempty"`
	Reference     string          `json:"Reference,omitempty"`
	Contact       Contact         `json:"Contact"`
	Date          string          `json:"Date,omitempty"`
	DueDate       string          `json:"DueDate,omitempty"`
	Status        string          `json:"Status,omitempty"`
	LineItems     []LineItem      `json:"LineItems"`
	Total         decimal.Decimal `json:"Total,omitempty"`
}

type Account struct {
	AccountID string `json:"AccountID,omitempty"`
	Code      string `json:"Code,omitempty"`
	Name      string `json:"Name"`
	Type      string `json:"Type,omitempty"`
	Class     string `json:"Class,omitempty"`
	Status    string `json:"Status,omitempty"`
}

const dateFormat = "2006-01-02"

func (c Contact) Model() models.Customer {
	customer := models.Customer{
		Platform:    platform.Xero,
		PlatformID:  c.ContactID,
		DisplayName: c.Name,
		GivenName:   c.FirstName,
		FamilyName:  c.LastName,
		Email:       c.EmailAddress,
		Active:      c.ContactStatus != "ARCHIVED",
	}

	if len(c.Phones) > 0 {
		customer.Phone = c.Phones[0].PhoneNumber
	}
	if len(c.Addresses) > 0 {
		address := c.Addresses[0]
		customer.BillingLine1 = address.AddressLine1
		customer.BillingCity = address.City
		customer.BillingState = address.Region
		customer.BillingPostalCode = address.PostalCode
		customer.BillingCountry = address.Country
	}

	return customer
}

func (i Item) Model() models.Product {
	product := models.Product{
		Platform:    platform.Xero,
		PlatformID:  i.ItemID,
		Code:        i.Code,
		Name:        i.Name,
		Description: i.Description,
		Type:        models.ProductTypeService,
		Active:      true,
	}

	if i.SalesDetails != nil {
		product.UnitPrice = i.SalesDetails.UnitPrice
		product.SalesAccountCode = i.SalesDetails.AccountCode
	}

	if i.IsTrackedAsInventory {
		product.Type = models.ProductTypeInventory
		product.AssetAccount = i.InventoryAssetAccountCode
		product.QuantityOnHand = i.QuantityOnHand

		if i.PurchaseDetails != nil {
			product.COGSAccountCode = i.PurchaseDetails.COGSAccountCode
		}
	}

	return product
}

// Model converts a wire invoice into a mirror record without resolving
// the contact and item references, the sync handler matches those
// against the mirror. Lines are converted in order, one per LineItem.
func (i Invoice) Model() models.Invoice {
	invoice := models.Invoice{
		Platform:   platform.Xero,
		PlatformID: i.InvoiceID,
		DocNumber:  i.InvoiceNumber,
		Reference:  i.Reference,
		Status:     i.Status,
	}

	if parsed, err := time.Parse(dateFormat, i.Date); err == nil {
		invoice.TxnDate = parsed
	}
	if parsed, err := time.Parse(dateFormat, i.DueDate); err == nil {
		invoice.DueDate = parsed
	}

	oneHundred := decimal.NewFromInt(100)
	for _, line := range i.LineItems {
		converted := models.InvoiceLine{
			Description:     line.Description,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitAmount,
			DiscountPercent: line.DiscountRate,
			AccountCode:     line.AccountCode,
		}

		// The wire format carries the tax as an amount, the mirror stores
		// the rate so that it survives recomputation.
		subtotal := line.Quantity.Mul(line.UnitAmount).
			Mul(decimal.NewFromInt(1).Sub(line.DiscountRate.Div(oneHundred)))
		if line.TaxAmount.IsPositive() && subtotal.IsPositive() {
			converted.TaxRate = line.TaxAmount.Div(subtotal).Mul(oneHundred)
		}

		invoice.Lines = append(invoice.Lines, converted)
	}

	return invoice
}

func (a Account) Model() models.LedgerAccount {
	return models.LedgerAccount{
		Platform:       platform.Xero,
		PlatformID:     a.AccountID,
		Code:           a.Code,
		Name:           a.Name,
		AccountType:    a.Type,
		Classification: a.Class,
	}
}
