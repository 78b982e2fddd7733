package models

import (
	"github.com/acctsync/backend/internal/platform"
	"gorm.io/gorm"
)

// PlatformToken holds the OAuth tokens for one platform connection.
// There is at most one row per platform. Access goes through the
// session package, nothing else reads or writes these rows.
type PlatformToken struct {
	DefaultModel
	Platform     platform.Platform `json:"platform" gorm:"uniqueIndex"`
	AccessToken  string            `json:"-"`
	RefreshToken string            `json:"-"`
	IDToken      string            `json:"-"`
	RealmID      string            `json:"realmId"`
}

func (t *PlatformToken) BeforeSave(_ *gorm.DB) error {
	if !t.Platform.Valid() {
		return ErrPlatformInvalid
	}

	return nil
}
