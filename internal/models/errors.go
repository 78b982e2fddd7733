package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no resource for the ID you specified")
)

// Validation errors returned from model hooks. They all map to HTTP 400.
var (
	ErrPlatformInvalid           = errors.New("the platform must be one of: quickbooks, xero")
	ErrDisplayNameRequired       = errors.New("the display name must be set")
	ErrNameRequired              = errors.New("the name must be set")
	ErrVendorPhoneRequired       = errors.New("QuickBooks vendors require a phone number")
	ErrVendorCompanyRequired     = errors.New("QuickBooks vendors require a company name")
	ErrProductTypeInvalid        = errors.New("the product type must be one of: Inventory, Service, NonInventory")
	ErrInventoryFieldsRequired   = errors.New("inventory products require quantity on hand, an as-of date, an asset account and a COGS account")
	ErrXeroItemCodeRequired      = errors.New("Xero items require a code")
	ErrAmountNegative            = errors.New("monetary amounts must not be negative")
	ErrInvoiceCustomerRequired   = errors.New("the invoice requires a customer reference")
	ErrInvoiceLineRequired       = errors.New("the invoice requires at least one line")
	ErrBillVendorRequired        = errors.New("the bill requires a vendor reference")
	ErrBillLineDetailTypeInvalid = errors.New("bill lines must be account based or item based")
	ErrVendorQuickBooksOnly      = errors.New("vendors are only supported for QuickBooks")
)
