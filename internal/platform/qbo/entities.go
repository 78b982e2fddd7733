package qbo

import (
	"context"

	"github.com/acctsync/backend/internal/session"
)

// The query endpoint wraps every collection in a QueryResponse object
// keyed by entity name.

func (c *Client) Customers(ctx context.Context, token session.Token) ([]Customer, error) {
	var res struct {
		QueryResponse struct {
			Customer []Customer `json:"Customer"`
		} `json:"QueryResponse"`
	}

	err := c.query(ctx, token, "Customer", &res)
	return res.QueryResponse.Customer, err
}

func (c *Client) Vendors(ctx context.Context, token session.Token) ([]Vendor, error) {
	var res struct {
		QueryResponse struct {
			Vendor []Vendor `json:"Vendor"`
		} `json:"QueryResponse"`
	}

	err := c.query(ctx, token, "Vendor", &res)
	return res.QueryResponse.Vendor, err
}

func (c *Client) Items(ctx context.Context, token session.Token) ([]Item, error) {
	var res struct {
		QueryResponse struct {
			Item []Item `json:"Item"`
		} `json:"QueryResponse"`
	}

	err := c.query(ctx, token, "Item", &res)
	return res.QueryResponse.Item, err
}

func (c *Client) Invoices(ctx context.Context, token session.Token) ([]Invoice, error) {
	var res struct {
		QueryResponse struct {
			Invoice []Invoice `json:"Invoice"`
		} `json:"QueryResponse"`
	}

	err := c.query(ctx, token, "Invoice", &res)
	return res.QueryResponse.Invoice, err
}

func (c *Client) Bills(ctx context.Context, token session.Token) ([]Bill, error) {
	var res struct {
		QueryResponse struct {
			Bill []Bill `json:"Bill"`
		} `json:"QueryResponse"`
	}

	err := c.query(ctx, token, "Bill", &res)
	return res.QueryResponse.Bill, err
}

func (c *Client) Accounts(ctx context.Context, token session.Token) ([]Account, error) {
	var res struct {
		QueryResponse struct {
			Account []Account `json:"Account"`
		} `json:"QueryResponse"`
	}

	err := c.query(ctx, token, "Account", &res)
	return res.QueryResponse.Account, err
}

// CreateCustomer pushes a new customer and returns the record as stored
// by QuickBooks, including its platform ID.
func (c *Client) CreateCustomer(ctx context.Context, token session.Token, customer Customer) (Customer, error) {
	var res struct {
		Customer Customer `json:"Customer"`
	}

	err := c.post(ctx, token, "customer", customer, &res)
	return res.Customer, err
}

// UpdateCustomer sends a sparse update for an existing customer.
func (c *Client) UpdateCustomer(ctx context.Context, token session.Token, customer Customer) (Customer, error) {
	customer.Sparse = true
	if customer.SyncToken == "" {
		customer.SyncToken = "0"
	}

	var res struct {
		Customer Customer `json:"Customer"`
	}

	err := c.post(ctx, token, "customer", customer, &res)
	return res.Customer, err
}

// DeactivateCustomer is the QuickBooks soft delete: a sparse update
// setting Active to false.
func (c *Client) DeactivateCustomer(ctx context.Context, token session.Token, id string) error {
	return c.post(ctx, token, "customer", Customer{ID: id, SyncToken: "0", Active: false, Sparse: true}, nil)
}

func (c *Client) CreateVendor(ctx context.Context, token session.Token, vendor Vendor) (Vendor, error) {
	var res struct {
		Vendor Vendor `json:"Vendor"`
	}

	err := c.post(ctx, token, "vendor", vendor, &res)
	return res.Vendor, err
}

func (c *Client) UpdateVendor(ctx context.Context, token session.Token, vendor Vendor) (Vendor, error) {
	vendor.Sparse = true
	if vendor.SyncToken == "" {
		vendor.SyncToken = "0"
	}

	var res struct {
		Vendor Vendor `json:"Vendor"`
	}

	err := c.post(ctx, token, "vendor", vendor, &res)
	return res.Vendor, err
}

func (c *Client) DeactivateVendor(ctx context.Context, token session.Token, id string) error {
	return c.post(ctx, token, "vendor", Vendor{ID: id, SyncToken: "0", Active: false, Sparse: true}, nil)
}

func (c *Client) CreateItem(ctx context.Context, token session.Token, item Item) (Item, error) {
	var res struct {
		Item Item `json:"Item"`
	}

	err := c.post(ctx, token, "item", item, &res)
	return res.Item, err
}

func (c *Client) UpdateItem(ctx context.Context, token session.Token, item Item) (Item, error) {
	item.Sparse = true
	if item.SyncToken == "" {
		item.SyncToken = "0"
	}

	var res struct {
		Item Item `json:"Item"`
	}

	err := c.post(ctx, token, "item", item, &res)
	return res.Item, err
}

func (c *Client) DeactivateItem(ctx context.Context, token session.Token, id string) error {
	return c.post(ctx, token, "item", Item{ID: id, SyncToken: "0", Active: false, Sparse: true}, nil)
}

func (c *Client) CreateInvoice(ctx context.Context, token session.Token, invoice Invoice) (Invoice, error) {
	var res struct {
		Invoice Invoice `json:"Invoice"`
	}

	err := c.post(ctx, token, "invoice", invoice, &res)
	return res.Invoice, err
}

func (c *Client) UpdateInvoice(ctx context.Context, token session.Token, invoice Invoice) (Invoice, error) {
	if invoice.SyncToken == "" {
		invoice.SyncToken = "0"
	}

	var res struct {
		Invoice Invoice `json:"Invoice"`
	}

	err := c.post(ctx, token, "invoice", invoice, &res)
	return res.Invoice, err
}

// DeleteInvoice performs the QuickBooks soft delete operation.
func (c *Client) DeleteInvoice(ctx context.Context, token session.Token, id string) error {
	return c.post(ctx, token, "invoice?operation=delete", Invoice{ID: id, SyncToken: "0"}, nil)
}

// VoidInvoice voids the invoice but keeps it on the platform.
func (c *Client) VoidInvoice(ctx context.Context, token session.Token, id string) error {
	return c.post(ctx, token, "invoice?operation=void", Invoice{ID: id, SyncToken: "0"}, nil)
}

func (c *Client) CreateBill(ctx context.Context, token session.Token, bill Bill) (Bill, error) {
	var res struct {
		Bill Bill `json:"Bill"`
	}

	err := c.post(ctx, token, "bill", bill, &res)
	return res.Bill, err
}

func (c *Client) UpdateBill(ctx context.Context, token session.Token, bill Bill) (Bill, error) {
	if bill.SyncToken == "" {
		bill.SyncToken = "0"
	}

	var res struct {
		Bill Bill `json:"Bill"`
	}

	err := c.post(ctx, token, "bill", bill, &res)
	return res.Bill, err
}

func (c *Client) DeleteBill(ctx context.Context, token session.Token, id string) error {
	return c.post(ctx, token, "bill?operation=delete", Bill{ID: id, SyncToken: "0"}, nil)
}
