package qbo

import (
	"github.com/acctsync/backend/internal/models"
)

// Payload builders translating mirror records into the QuickBooks wire
// shapes. They are pure so the payload construction can be tested
// without HTTP.

func CustomerPayload(customer models.Customer) Customer {
	payload := Customer{
		ID:          customer.PlatformID,
		DisplayName: customer.DisplayName,
		GivenName:   customer.GivenName,
		FamilyName:  customer.FamilyName,
		CompanyName: customer.CompanyName,
		Active:      customer.Active,
	}

	if customer.Email != "" {
		payload.PrimaryEmailAddr = &EmailAddr{Address: customer.Email}
	}
	if customer.Phone != "" {
		payload.PrimaryPhone = &Phone{FreeFormNumber: customer.Phone}
	}
	if customer.BillingLine1 != "" || customer.BillingCity != "" || customer.BillingState != "" || customer.BillingPostalCode != "" || customer.BillingCountry != "" {
		payload.BillAddr = &Address{
			Line1:                  customer.BillingLine1,
			City:                   customer.BillingCity,
			CountrySubDivisionCode: customer.BillingState,
			PostalCode:             customer.BillingPostalCode,
			Country:                customer.BillingCountry,
		}
	}

	return payload
}

func VendorPayload(vendor models.Vendor) Vendor {
	payload := Vendor{
		ID:          vendor.PlatformID,
		DisplayName: vendor.DisplayName,
		CompanyName: vendor.CompanyName,
		Active:      vendor.Active,
	}

	if vendor.Email != "" {
		payload.PrimaryEmailAddr = &EmailAddr{Address: vendor.Email}
	}
	if vendor.Phone != "" {
		payload.PrimaryPhone = &Phone{FreeFormNumber: vendor.Phone}
	}

	return payload
}

func ItemPayload(product models.Product) Item {
	payload := Item{
		ID:          product.PlatformID,
		Name:        product.Name,
		Description: product.Description,
		Type:        string(product.Type),
		UnitPrice:   product.UnitPrice,
		Active:      product.Active,
	}

	if product.IncomeAccount != "" {
		payload.IncomeAccountRef = &Ref{Name: product.IncomeAccount}
	}

	if product.Type == models.ProductTypeInventory {
		payload.TrackQtyOnHand = true
		payload.QtyOnHand = product.QuantityOnHand
		payload.AssetAccountRef = &Ref{Name: product.AssetAccount}
		payload.ExpenseAccountRef = &Ref{Name: product.COGSAccountCode}

		if product.InventoryStartDate != nil {
			payload.InvStartDate = product.InventoryStartDate.Format(dateFormat)
		}
	}

	return payload
}

// InvoicePayload builds the SalesItemLineDetail line array. The invoice
// must be loaded with its lines, their products and the customer.
func InvoicePayload(invoice models.Invoice) Invoice {
	lines := make([]Line, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, Line{
			DetailType:  "SalesItemLineDetail",
			Amount:      line.Amount,
			Description: line.Description,
			SalesItemLineDetail: &SalesItemLineDetail{
				ItemRef:   Ref{Value: line.Product.PlatformID},
				Qty:       line.Quantity,
				UnitPrice: line.UnitPrice,
			},
		})
	}

	return Invoice{
		ID:          invoice.PlatformID,
		DocNumber:   invoice.DocNumber,
		TxnDate:     invoice.TxnDate.Format(dateFormat),
		DueDate:     invoice.DueDate.Format(dateFormat),
		CustomerRef: Ref{Value: invoice.Customer.PlatformID},
		Line:        lines,
	}
}

// BillPayload builds the two detail type line shapes from the combined
// line collection. The bill must be loaded with its lines and vendor.
func BillPayload(bill models.Bill) Bill {
	lines := make([]Line, 0, len(bill.Lines))
	for _, line := range bill.Lines {
		wire := Line{
			DetailType:  line.DetailType,
			Amount:      line.Amount,
			Description: line.Description,
		}

		switch line.DetailType {
		case models.BillLineAccountBased:
			wire.AccountBasedExpenseLineDetail = &AccountBasedExpenseLineDetail{
				AccountRef: Ref{Value: line.AccountID},
			}
		case models.BillLineItemBased:
			wire.ItemBasedExpenseLineDetail = &ItemBasedExpenseLineDetail{
				ItemRef:   Ref{Value: line.ItemID},
				Qty:       line.Quantity,
				UnitPrice: line.UnitPrice,
			}
		}

		lines = append(lines, wire)
	}

	return Bill{
		ID:        bill.PlatformID,
		DocNumber: bill.DocNumber,
		TxnDate:   bill.TxnDate.Format(dateFormat),
		DueDate:   bill.DueDate.Format(dateFormat),
		VendorRef: Ref{Value: bill.Vendor.PlatformID},
		Line:      lines,
	}
}
