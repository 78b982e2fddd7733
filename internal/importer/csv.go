// Package importer parses the vendor bulk upload CSV.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"github.com/shopspring/decimal"
)

// Column indices of the vendor CSV.
const (
	DisplayName = iota
	CompanyName
	Email
	Phone
	Balance
)

const columns = 5

// ParseVendors reads the upload and returns the vendors to create plus
// one error string per invalid row. The header is row 1, data rows are
// counted from 2. Invalid rows do not stop the parse, all errors are
// reported together.
func ParseVendors(f io.Reader) ([]models.Vendor, []string) {
	reader := csv.NewReader(f)

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	var vendors []models.Vendor
	var errs []string

	// Skip the header
	if _, err := reader.Read(); err != nil {
		return nil, nil
	}

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		row++
		if err != nil {
			errs = append(errs, rowError(row, "the line could not be read"))
			continue
		}

		if len(record) != columns {
			errs = append(errs, rowError(row, fmt.Sprintf("expected %d fields, got %d", columns, len(record))))
			continue
		}

		vendor := models.Vendor{
			Platform:    platform.QuickBooks,
			DisplayName: strings.TrimSpace(record[DisplayName]),
			CompanyName: strings.TrimSpace(record[CompanyName]),
			Email:       strings.TrimSpace(record[Email]),
			Phone:       strings.TrimSpace(record[Phone]),
			Active:      true,
		}

		if vendor.DisplayName == "" {
			errs = append(errs, rowError(row, "display name is required"))
			continue
		}

		if vendor.Phone == "" {
			errs = append(errs, rowError(row, "phone is required"))
			continue
		}

		if vendor.CompanyName == "" {
			errs = append(errs, rowError(row, "company name is required"))
			continue
		}

		if balance := strings.TrimSpace(record[Balance]); balance != "" {
			parsed, err := decimal.NewFromString(balance)
			if err != nil {
				errs = append(errs, rowError(row, "balance could not be parsed to a decimal"))
				continue
			}
			vendor.Balance = parsed
		}

		vendors = append(vendors, vendor)
	}

	return vendors, errs
}

func rowError(row int, reason string) string {
	return fmt.Sprintf("Row %d: %s", row, reason)
}
