package xero

import (
	"github.com/acctsync/backend/internal/models"
)

// Payload builders translating mirror records into the Xero wire shapes.

func ContactPayload(customer models.Customer) Contact {
	contact := Contact{
		ContactID:    customer.PlatformID,
		Name:         customer.DisplayName,
		FirstName:    customer.GivenName,
		LastName:     customer.FamilyName,
		EmailAddress: customer.Email,
	}

	if customer.Phone != "" {
		contact.Phones = []Phone{{PhoneType: "DEFAULT", PhoneNumber: customer.Phone}}
	}

	if customer.BillingLine1 != "" || customer.BillingCity != "" || customer.BillingState != "" || customer.BillingPostalCode != "" || customer.BillingCountry != "" {
		contact.Addresses = []Address{{
			AddressType:  "POBOX",
			AddressLine1: customer.BillingLine1,
			City:         customer.BillingCity,
			Region:       customer.BillingState,
			PostalCode:   customer.BillingPostalCode,
			Country:      customer.BillingCountry,
		}}
	}

	return contact
}

func ItemPayload(product models.Product) Item {
	item := Item{
		ItemID:      product.PlatformID,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
	}

	if !product.UnitPrice.IsZero() || product.SalesAccountCode != "" {
		item.SalesDetails = &SalesDetails{
			UnitPrice:   product.UnitPrice,
			AccountCode: product.SalesAccountCode,
		}
	}

	if product.Type == models.ProductTypeInventory {
		item.IsTrackedAsInventory = true
		item.InventoryAssetAccountCode = product.AssetAccount
		item.PurchaseDetails = &PurchaseDetails{COGSAccountCode: product.COGSAccountCode}
	}

	return item
}

// InvoicePayload builds the LineItems array with the Xero discount and
// tax fields. The invoice must be loaded with lines, products and the
// customer.
func InvoicePayload(invoice models.Invoice) Invoice {
	lineItems := make([]LineItem, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lineItems = append(lineItems, LineItem{
			ItemCode:     line.Product.Code,
			Description:  line.Description,
			Quantity:     line.Quantity,
			UnitAmount:   line.UnitPrice,
			DiscountRate: line.DiscountPercent,
			AccountCode:  line.AccountCode,
			TaxAmount:    line.TaxAmount,
			LineAmount:   line.Amount,
		})
	}

	return Invoice{
		InvoiceID:     invoice.PlatformID,
		Type:          "ACCREC",
		InvoiceNumber: invoice.DocNumber,
		Reference:     invoice.Reference,
		Contact:       Contact{ContactID: invoice.Customer.PlatformID},
		Date:          invoice.TxnDate.Format(dateFormat),
		DueDate:       invoice.DueDate.Format(dateFormat),
		Status:        invoice.Status,
		LineItems:     lineItems,
	}
}
