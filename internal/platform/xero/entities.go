package xero

import (
	"context"
	"fmt"
	"net/http"

	"github.com/acctsync/backend/internal/session"
)

func (c *Client) Contacts(ctx context.Context, token session.Token) ([]Contact, error) {
	var res struct {
		Contacts []Contact `json:"Contacts"`
	}

	err := c.do(ctx, http.MethodGet, "Contacts", token, nil, &res)
	return res.Contacts, err
}

func (c *Client) Items(ctx context.Context, token session.Token) ([]Item, error) {
	var res struct {
		Items []Item `json:"Items"`
	}

	err := c.do(ctx, http.MethodGet, "Items", token, nil, &res)
	return res.Items, err
}

func (c *Client) Invoices(ctx context.Context, token session.Token) ([]Invoice, error) {
	var res struct {
		Invoices []Invoice `json:"Invoices"`
	}

	err := c.do(ctx, http.MethodGet, "Invoices", token, nil, &res)
	return res.Invoices, err
}

func (c *Client) Accounts(ctx context.Context, token session.Token) ([]Account, error) {
	var res struct {
		Accounts []Account `json:"Accounts"`
	}

	err := c.do(ctx, http.MethodGet, "Accounts", token, nil, &res)
	return res.Accounts, err
}

// CreateContact posts the contact. Xero wraps single entities in their
// collection for both requests and responses.
func (c *Client) CreateContact(ctx context.Context, token session.Token, contact Contact) (Contact, error) {
	var res struct {
		Contacts []Contact `json:"Contacts"`
	}

	err := c.do(ctx, http.MethodPost, "Contacts", token, map[string][]Contact{"Contacts": {contact}}, &res)
	if err != nil {
		return Contact{}, err
	}
	if len(res.Contacts) == 0 {
		return Contact{}, fmt.Errorf("the Xero API returned no contact")
	}

	return res.Contacts[0], nil
}

func (c *Client) UpdateContact(ctx context.Context, token session.Token, contact Contact) (Contact, error) {
	return c.CreateContact(ctx, token, contact)
}

// ArchiveContact is the Xero version of deleting a contact.
func (c *Client) ArchiveContact(ctx context.Context, token session.Token, contactID string) error {
	contact := Contact{ContactID: contactID, ContactStatus: "ARCHIVED"}
	return c.do(ctx, http.MethodPost, "Contacts", token, map[string][]Contact{"Contacts": {contact}}, nil)
}

func (c *Client) CreateItem(ctx context.Context, token session.Token, item Item) (Item, error) {
	var res struct {
		Items []Item `json:"Items"`
	}

	err := c.do(ctx, http.MethodPost, "Items", token, map[string][]Item{"Items": {item}}, &res)
	if err != nil {
		return Item{}, err
	}
	if len(res.Items) == 0 {
		return Item{}, fmt.Errorf("the Xero API returned no item")
	}

	return res.Items[0], nil
}

func (c *Client) UpdateItem(ctx context.Context, token session.Token, item Item) (Item, error) {
	return c.CreateItem(ctx, token, item)
}

func (c *Client) DeleteItem(ctx context.Context, token session.Token, itemID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("Items/%s", itemID), token, nil, nil)
}

func (c *Client) CreateInvoice(ctx context.Context, token session.Token, invoice Invoice) (Invoice, error) {
	var res struct {
		Invoices []Invoice `json:"Invoices"`
	}

	err := c.do(ctx, http.MethodPost, "Invoices", token, map[string][]Invoice{"Invoices": {invoice}}, &res)
	if err != nil {
		return Invoice{}, err
	}
	if len(res.Invoices) == 0 {
		return Invoice{}, fmt.Errorf("the Xero API returned no invoice")
	}

	return res.Invoices[0], nil
}

func (c *Client) UpdateInvoice(ctx context.Context, token session.Token, invoice Invoice) (Invoice, error) {
	return c.CreateInvoice(ctx, token, invoice)
}

// DeleteInvoice sets the invoice status to DELETED. Xero only accepts
// this for draft invoices, the caller checks the status first.
func (c *Client) DeleteInvoice(ctx context.Context, token session.Token, invoiceID string) error {
	invoice := Invoice{InvoiceID: invoiceID, Status: "DELETED"}
	return c.do(ctx, http.MethodPost, "Invoices", token, map[string][]Invoice{"Invoices": {invoice}}, nil)
}
