package qbo

import (
	"time"

	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/shopspring/decimal"
)

// Wire types for the QuickBooks v3 API. Only the fields the console
// works with are mapped, everything else passes through upstream.

type Ref struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

type EmailAddr struct {
	Address string `json:"Address"`
}

type Phone struct {
	FreeFormNumber string `json:"FreeFormNumber"`
}

type Address struct {
	Line1                  string `json:"Line1,omitempty"`
	City                   string `json:"City,omitempty"`
	CountrySubDivisionCode string `json:"CountrySubDivisionCode,omitempty"`
	PostalCode             string `json:"PostalCode,omitempty"`
	Country                string `json:"Country,omitempty"`
}

type Customer struct {
	ID               string          `json:"Id,omitempty"`
	SyncToken        string          `json:"SyncToken,omitempty"`
	DisplayName      string          `json:"DisplayName"`
	GivenName        string          `json:"GivenName,omitempty"`
	FamilyName       string          `json:"FamilyName,omitempty"`
	CompanyName      string          `json:"CompanyName,omitempty"`
	PrimaryEmailAddr *EmailAddr      `json:"PrimaryEmailAddr,omitempty"`
	PrimaryPhone     *Phone          `json:"PrimaryPhone,omitempty"`
	BillAddr         *Address        `json:"BillAddr,omitempty"`
	Balance          decimal.Decimal `json:"Balance,omitempty"`
	Active           bool            `json:"Active"`
	Sparse           bool            `json:"sparse,omitempty"`
}

type Vendor struct {
	ID               string          `json:"Id,omitempty"`
	SyncToken        string          `json:"SyncToken,omitempty"`
	DisplayName      string          `json:"DisplayName"`
	CompanyName      string          `json:"CompanyName,omitempty"`
	PrimaryEmailAddr *EmailAddr      `json:"PrimaryEmailAddr,omitempty"`
	PrimaryPhone     *Phone          `json:"PrimaryPhone,omitempty"`
	Balance          decimal.Decimal `json:"Balance,omitempty"`
	Active           bool            `json:"Active"`
	Sparse           bool            `json:"sparse,omitempty"`
}

type Item struct {
	ID                string          `json:"Id,omitempty"`
	SyncToken         string          `json:"SyncToken,omitempty"`
	Name              string          `json:"Name"`
	Description       string          `json:"Description,omitempty"`
	Type              string          `json:"Type"`
	UnitPrice         decimal.Decimal `json:"UnitPrice,omitempty"`
	Active            bool            `json:"Active"`
	IncomeAccountRef  *Ref            `json:"IncomeAccountRef,omitempty"`
	AssetAccountRef   *Ref            `json:"AssetAccountRef,omitempty"`
	ExpenseAccountRef *Ref            `json:"ExpenseAccountRef,omitempty"`
	QtyOnHand         decimal.Decimal `json:"QtyOnHand,omitempty"`
	InvStartDate      string          `json:"InvStartDate,omitempty"`
	TrackQtyOnHand    bool            `json:"TrackQtyOnHand,omitempty"`
	Sparse            bool            `json:"sparse,omitempty"`
}

type SalesItemLineDetail struct {
	ItemRef   Ref             `json:"ItemRef"`
	Qty       decimal.Decimal `json:"Qty"`
	UnitPrice decimal.Decimal `json:"UnitPrice"`
}

type AccountBasedExpenseLineDetail struct {
	AccountRef Ref `json:"AccountRef"`
}

type ItemBasedExpenseLineDetail struct {
	ItemRef   Ref             `json:"ItemRef"`
	Qty       decimal.Decimal `json:"Qty"`
	UnitPrice decimal.Decimal `json:"UnitPrice"`
}

// Line is the discriminated line shape shared by invoices and bills.
// DetailType selects which of the detail structs is set.
type Line struct {
	DetailType                    string                         `json:"DetailType"`
	Amount                        decimal.Decimal                `json:"Amount"`
	Description                   string                         `json:"Description,omitempty"`
	SalesItemLineDetail           *SalesItemLineDetail           `json:"SalesItemLineDetail,omitempty"`
	AccountBasedExpenseLineDetail *AccountBasedExpenseLineDetail `json:"AccountBasedExpenseLineDetail,omitempty"`
	ItemBasedExpenseLineDetail    *ItemBasedExpenseLineDetail    `json:"ItemBasedExpenseLineDetail,omitempty"`
}

type Invoice struct {
	ID          string          `json:"Id,omitempty"`
	SyncToken   string          `json:"SyncToken,omitempty"`
	DocNumber   string          `json:"DocNumber,omitempty"`
	TxnDate     string          `json:"TxnDate,omitempty"`
	DueDate     string          `json:"DueDate,omitempty"`
	CustomerRef Ref             `json:"CustomerRef"`
	Line        []Line          `json:"Line"`
	TotalAmt    decimal.Decimal `json:"TotalAmt,omitempty"`
}

type Bill struct {
	ID        string          `json:"Id,omitempty"`
	SyncToken string          `json:"SyncToken,omitempty"`
	DocNumber string          `json:"DocNumber,omitempty"`
	TxnDate   string          `json:"TxnDate,omitempty"`
	DueDate   string          `json:"DueDate,omitempty"`
	VendorRef Ref             `json:"VendorRef"`
	Line      []Line          `json:"Line"`
	TotalAmt  decimal.Decimal `json:"TotalAmt,omitempty"`
}

type Account struct {
	ID             string `json:"Id,omitempty"`
	Name           string `json:"Name"`
	AccountType    string `json:"AccountType,omitempty"`
	AccountSubType string `json:"AccountSubType,omitempty"`
	Classification string `json:"Classification,omitempty"`
	CurrencyRef    *Ref   `json:"CurrencyRef,omitempty"`
}

const dateFormat = "2006-01-02"

// Model converts the wire customer into a mirror record.
func (c Customer) Model() models.Customer {
	customer := models.Customer{
		Platform:    platform.QuickBooks,
		PlatformID:  c.ID,
		DisplayName: c.DisplayName,
		GivenName:   c.GivenName,
		FamilyName:  c.FamilyName,
		CompanyName: c.CompanyName,
		Balance:     c.Balance,
		Active:      c.Active,
	}

	if c.PrimaryEmailAddr != nil {
		customer.Email = c.PrimaryEmailAddr.Address
	}
	if c.PrimaryPhone != nil {
		customer.Phone = c.PrimaryPhone.FreeFormNumber
	}
	if c.BillAddr != nil {
		customer.BillingLine1 = c.BillAddr.Line1
		customer.BillingCity = c.BillAddr.City
		customer.BillingState = c.BillAddr.CountrySubDivisionCode
		customer.BillingPostalCode = c.BillAddr.PostalCode
		customer.BillingCountry = c.BillAddr.Country
	}

	return customer
}

func (v Vendor) Model() models.Vendor {
	vendor := models.Vendor{
		Platform:    platform.QuickBooks,
		PlatformID:  v.ID,
		DisplayName: v.DisplayName,
		CompanyName: v.CompanyName,
		Balance:     v.Balance,
		Active:      v.Active,
	}

	if v.PrimaryEmailAddr != nil {
		vendor.Email = v.PrimaryEmailAddr.Address
	}
	if v.PrimaryPhone != nil {
		vendor.Phone = v.PrimaryPhone.FreeFormNumber
	}

	return vendor
}

func (i Item) Model() models.Product {
	product := models.Product{
		Platform:       platform.QuickBooks,
		PlatformID:     i.ID,
		Name:           i.Name,
		Description:    i.Description,
		UnitPrice:      i.UnitPrice,
		Type:           models.ProductType(i.Type),
		Active:         i.Active,
		QuantityOnHand: i.QtyOnHand,
	}

	if i.IncomeAccountRef != nil {
		product.IncomeAccount = i.IncomeAccountRef.Name
	}
	if i.AssetAccountRef != nil {
		product.AssetAccount = i.AssetAccountRef.Name
	}
	if i.ExpenseAccountRef != nil {
		product.COGSAccountCode = i.ExpenseAccountRef.Name
	}
	if i.InvStartDate != "" {
		if parsed, err := time.Parse(dateFormat, i.InvStartDate); err == nil {
			product.InventoryStartDate = &parsed
		}
	}

	return product
}

// Model converts a wire invoice into a mirror record without resolving
// the customer and item references, the sync handler matches those
// against the mirror. Only sales item lines are converted, in order.
func (i Invoice) Model() models.Invoice {
	invoice := models.Invoice{
		Platform:   platform.QuickBooks,
		PlatformID: i.ID,
		DocNumber:  i.DocNumber,
	}

	if parsed, err := time.Parse(dateFormat, i.TxnDate); err == nil {
		invoice.TxnDate = parsed
	}
	if parsed, err := time.Parse(dateFormat, i.DueDate); err == nil {
		invoice.DueDate = parsed
	}

	for _, line := range i.Line {
		if line.SalesItemLineDetail == nil {
			continue
		}

		invoice.Lines = append(invoice.Lines, models.InvoiceLine{
			Description: line.Description,
			Quantity:    line.SalesItemLineDetail.Qty,
			UnitPrice:   line.SalesItemLineDetail.UnitPrice,
		})
	}

	return invoice
}

// Model converts a wire bill into a mirror record. Account based lines
// carry only an amount, quantity defaults to 1 with the amount as unit
// price so the recomputed amount matches upstream.
func (b Bill) Model() models.Bill {
	bill := models.Bill{
		Platform:   platform.QuickBooks,
		PlatformID: b.ID,
		DocNumber:  b.DocNumber,
	}

	if parsed, err := time.Parse(dateFormat, b.TxnDate); err == nil {
		bill.TxnDate = parsed
	}
	if parsed, err := time.Parse(dateFormat, b.DueDate); err == nil {
		bill.DueDate = parsed
	}

	for _, line := range b.Line {
		switch {
		case line.AccountBasedExpenseLineDetail != nil:
			bill.Lines = append(bill.Lines, models.BillLine{
				DetailType:  models.BillLineAccountBased,
				AccountID:   line.AccountBasedExpenseLineDetail.AccountRef.Value,
				Description: line.Description,
				UnitPrice:   line.Amount,
			})
		case line.ItemBasedExpenseLineDetail != nil:
			bill.Lines = append(bill.Lines, models.BillLine{
				DetailType:  models.BillLineItemBased,
				ItemID:      line.ItemBasedExpenseLineDetail.ItemRef.Value,
				Description: line.Description,
				Quantity:    line.ItemBasedExpenseLineDetail.Qty,
				UnitPrice:   line.ItemBasedExpenseLineDetail.UnitPrice,
			})
		}
	}

	return bill
}

func (a Account) Model() models.LedgerAccount {
	account := models.LedgerAccount{
		Platform:       platform.QuickBooks,
		PlatformID:     a.ID,
		Name:           a.Name,
		AccountType:    a.AccountType,
		AccountSubType: a.AccountSubType,
		Classification: a.Classification,
	}

	if a.CurrencyRef != nil {
		account.Currency = a.CurrencyRef.Value
	}

	return account
}
