// Package domain contains box service actions and the status
// transitions they drive on the customer record.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
)

// ActionType is a service action applied to a subscriber's receiver box.
type ActionType string

const (
	ActionActivated   ActionType = "ACTIVATED"
	ActionReactivated ActionType = "REACTIVATED"
	ActionSuspended   ActionType = "SUSPENDED"
	ActionDeactivated ActionType = "DEACTIVATED"
)

// statusFor maps every action to the box status it leaves behind. Any
// action is accepted from any current state.
var statusFor = map[ActionType]customerdomain.BoxStatus{
	ActionActivated:   customerdomain.BoxStatusActive,
	ActionReactivated: customerdomain.BoxStatusActive,
	ActionSuspended:   customerdomain.BoxStatusSuspended,
	ActionDeactivated: customerdomain.BoxStatusInactive,
}

// ResultingStatus returns the box status an action produces, and false
// for unknown actions.
func (a ActionType) ResultingStatus() (customerdomain.BoxStatus, bool) {
	status, ok := statusFor[a]
	return status, ok
}

// StampsActivation reports whether the action records the box's first
// activation timestamp.
func (a ActionType) StampsActivation() bool { return a == ActionActivated }

// BoxActivation is the audit record of one box service action.
type BoxActivation struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`

	Action         ActionType               `gorm:"column:action_type;type:text;not null" json:"action_type"`
	ActionDate     time.Time                `gorm:"not null" json:"action_date"`
	PreviousStatus customerdomain.BoxStatus `gorm:"type:text;not null" json:"previous_status"`
	NewStatus      customerdomain.BoxStatus `gorm:"type:text;not null" json:"new_status"`
	Reason         string                   `gorm:"type:text" json:"reason,omitempty"`
	Notes          string                   `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (BoxActivation) TableName() string { return "box_activations" }
