package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID               string `gorm:"type:uuid;primaryKey" json:"id"`
	FullName         string `json:"full_name"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Phone            string `json:"phone"`
	MembershipType   string `gorm:"default:silver" json:"membership_type"`
	MembershipPoints int    `gorm:"default:0" json:"membership_points"`
	EmailVerified    bool   `gorm:"default:false" json:"email_verified"`
	IsAdmin          bool   `gorm:"default:false" json:"is_admin"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Address struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	Label      string `gorm:"not null" json:"label"`
	Country    string `gorm:"not null" json:"country"`
	City       string `gorm:"not null" json:"city"`
	Street     string `gorm:"not null" json:"street"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
