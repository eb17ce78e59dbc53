package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the optional personal details of a user. Every user gets an
// empty one at registration.
type Profile struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FirstName     string
	LastName      string
	Phone         string
	Address       string
	AvatarURL     string
	EmailVerified bool `gorm:"not null;default:false"`
	UpdatedAt     time.Time
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// VerifyEmail marks the email as verified. Calling it again is a no-op.
func (p *Profile) VerifyEmail() bool {
	if p.EmailVerified {
		return false
	}
	p.EmailVerified = true
	return true
}
