// Package domain contains the subscriber account model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// BoxStatus is the activation state of a subscriber's receiver box.
type BoxStatus string

const (
	BoxStatusInactive  BoxStatus = "INACTIVE"
	BoxStatusActive    BoxStatus = "ACTIVE"
	BoxStatusSuspended BoxStatus = "SUSPENDED"
)

// Customer is a subscription account. Balance carries forward signed
// debt (positive) or credit (negative) that is folded into the next bill.
type Customer struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	Name    string       `gorm:"type:text;not null" json:"name"`
	Email   string       `gorm:"type:text" json:"email"`
	Phone   string       `gorm:"type:text" json:"phone"`
	Address string       `gorm:"type:text" json:"address"`

	Balance      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	LastBillDate *time.Time      `gorm:"" json:"last_bill_date,omitempty"`
	NextBillDate *time.Time      `gorm:"" json:"next_bill_date,omitempty"`

	BoxNumber              string     `gorm:"type:text" json:"box_number"`
	BoxStatus              BoxStatus  `gorm:"type:text;not null;default:INACTIVE" json:"box_status"`
	BoxActivatedAt         *time.Time `gorm:"" json:"box_activated_at,omitempty"`
	LastBoxStatusChangedAt *time.Time `gorm:"" json:"last_box_status_changed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
