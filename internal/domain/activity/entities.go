package activity

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionGroupCreated         Action = "GROUP_CREATED"
	ActionContributionRecorded Action = "CONTRIBUTION_RECORDED"
	ActionContributionSettled  Action = "CONTRIBUTION_SETTLED"
	ActionLoanRequested        Action = "LOAN_REQUESTED"
	ActionLoanApproved         Action = "LOAN_APPROVED"
	ActionLoanRejected         Action = "LOAN_REJECTED"
	ActionLoanDisbursed        Action = "LOAN_DISBURSED"
	ActionPenaltyApplied       Action = "PENALTY_APPLIED"
)

// Activity is an append-only audit entry. Rows are written once per mutating
// action and never updated or deleted.
type Activity struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	ActivityID  uuid.UUID `gorm:"type:char(36);uniqueIndex:ux_activities_public_id" json:"activity_id"`
	GroupID     string    `gorm:"size:32;index:idx_activities_group" json:"group_id"`
	ActorUserID string    `gorm:"size:32" json:"actor_user_id"`
	Action      Action    `gorm:"size:32" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
	Metadata    string    `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Activity) TableName() string { return "activities" }

func New(groupID, actorUserID string, action Action, description, metadata string) *Activity {
	return &Activity{
		ActivityID:  uuid.New(),
		GroupID:     groupID,
		ActorUserID: actorUserID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
	}
}
