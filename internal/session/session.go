// Package session owns the stored platform connections. All token access
// goes through this package so that the connect and disconnect lifecycle
// stays in one place.
package session

import (
	"errors"

	"github.com/acctsync/backend/internal/models"
	"github.com/acctsync/backend/internal/platform"
	"gorm.io/gorm"
)

// Token is one set of platform credentials as returned by the token
// exchange. RealmID is only set for QuickBooks.
type Token struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken"`
	RealmID      string `json:"realmId"`
}

// Set stores the token for the platform, replacing a previous connection.
func Set(db *gorm.DB, p platform.Platform, token Token) error {
	var stored models.PlatformToken
	err := db.Unscoped().Where(&models.PlatformToken{Platform: p}).First(&stored).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	stored.Platform = p
	stored.AccessToken = token.AccessToken
	stored.RefreshToken = token.RefreshToken
	stored.IDToken = token.IDToken
	stored.RealmID = token.RealmID
	stored.DeletedAt = nil

	return db.Unscoped().Save(&stored).Error
}

// Get returns the stored token for the platform.
// platform.ErrNotConnected is returned when there is none.
func Get(db *gorm.DB, p platform.Platform) (Token, error) {
	var stored models.PlatformToken
	err := db.Where(&models.PlatformToken{Platform: p}).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Token{}, platform.ErrNotConnected
	}
	if err != nil {
		return Token{}, err
	}

	return Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		IDToken:      stored.IDToken,
		RealmID:      stored.RealmID,
	}, nil
}

// Connected reports whether a token is stored for the platform.
func Connected(db *gorm.DB, p platform.Platform) bool {
	_, err := Get(db, p)
	return err == nil
}

// Clear removes the stored connection for the platform. Clearing a
// platform that is not connected is not an error.
func Clear(db *gorm.DB, p platform.Platform) error {
	return db.Where(&models.PlatformToken{Platform: p}).Delete(&models.PlatformToken{}).Error
}
