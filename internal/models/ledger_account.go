package models

import (
	"github.com/acctsync/backend/internal/platform"
	"gorm.io/gorm"
)

// LedgerAccount is one chart of accounts row. The console only lists and
// syncs these, there is no create or edit.
type LedgerAccount struct {
	DefaultModel
	Platform       platform.Platform `json:"platform" gorm:"index:ledger_account_platform_platform_id"`
	PlatformID     string            `json:"platformId" gorm:"index:ledger_account_platform_platform_id"`
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	AccountType    string            `json:"accountType"`
	AccountSubType string            `json:"accountSubType"`
	Classification string            `json:"classification"`
	Currency       string            `json:"currency"`
}

func (a *LedgerAccount) BeforeSave(_ *gorm.DB) error {
	if !a.Platform.Valid() {
		return ErrPlatformInvalid
	}

	if a.Name == "" {
		return ErrNameRequired
	}

	return nil
}
