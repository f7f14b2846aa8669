package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus values. Open is the only non-terminal state.
type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report target types
const (
	ReportTargetArticle    = "article"
	ReportTargetCollection = "collection"
	ReportTargetUser       = "user"
)

type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	TargetID   string `bson:"target_id" json:"target_id"`
	TargetType string `bson:"target_type" json:"target_type"`

	Reason      string `bson:"reason" json:"reason"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	ReporterID   primitive.ObjectID  `bson:"reporter_id" json:"reporter_id"`
	RespondentID *primitive.ObjectID `bson:"respondent_id,omitempty" json:"respondent_id,omitempty"`

	Status       ReportStatus `bson:"status" json:"status"`
	ActionedBy   string       `bson:"actioned_by,omitempty" json:"actioned_by,omitempty"`
	ActionReason string       `bson:"action_reason,omitempty" json:"action_reason,omitempty"`
	ResolvedAt   *time.Time   `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	DismissedAt  *time.Time   `bson:"dismissed_at,omitempty" json:"dismissed_at,omitempty"`
}

// ModerationAuditEntry is an append-only record of a report status transition.
type ModerationAuditEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	ReportID   primitive.ObjectID `bson:"report_id" json:"report_id"`
	FromStatus ReportStatus       `bson:"from_status" json:"from_status"`
	ToStatus   ReportStatus       `bson:"to_status" json:"to_status"`
	ActionedBy string             `bson:"actioned_by" json:"actioned_by"`
	Reason     string             `bson:"reason,omitempty" json:"reason,omitempty"`
}
