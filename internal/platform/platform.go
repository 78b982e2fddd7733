package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Platform identifies one of the external accounting platforms records are
// mirrored from.
type Platform string

const (
	QuickBooks Platform = "quickbooks"
	Xero       Platform = "xero"
)

var ErrUnknownPlatform = errors.New("the specified platform is unknown, must be one of: quickbooks, xero")

// Parse normalizes the platform names used by the API and the upstream
// records. The mirror database stores the lowercase names, but records
// synced from upstream occasionally carry "QBO" or "Xero".
func Parse(s string) (Platform, error) {
	switch strings.ToLower(s) {
	case "quickbooks", "qbo":
		return QuickBooks, nil
	case "xero":
		return Xero, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

func (p Platform) Valid() bool {
	return p == QuickBooks || p == Xero
}

func (p Platform) String() string {
	return string(p)
}
