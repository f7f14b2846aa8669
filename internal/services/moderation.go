package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReportAction is a moderation action applied to an open report.
type ReportAction string

const (
	ActionResolve ReportAction = "resolve"
	ActionDismiss ReportAction = "dismiss"
)

// TransitionOutcome describes what a moderation action should do to a report.
type TransitionOutcome int

const (
	// TransitionApply: the report is open, apply the action and audit it.
	TransitionApply TransitionOutcome = iota
	// TransitionNoop: the report already reached this terminal state; return
	// the current state unchanged.
	TransitionNoop
	// TransitionConflict: the report reached the other terminal state; the
	// action is rejected with 409.
	TransitionConflict
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrReportConflict = errors.New("report is already in a conflicting terminal state")
)

// targetStatus maps an action to the terminal status it produces.
func targetStatus(action ReportAction) models.ReportStatus {
	if action == ActionDismiss {
		return models.ReportStatusDismissed
	}
	return models.ReportStatusResolved
}

// DecideTransition applies the report lifecycle rules:
// open -> resolved and open -> dismissed are the only real transitions, both
// terminal. Repeating the action that produced the current state is a no-op;
// applying the opposite action to a terminal state is a conflict.
func DecideTransition(current models.ReportStatus, action ReportAction) TransitionOutcome {
	target := targetStatus(action)

	switch current {
	case models.ReportStatusOpen:
		return TransitionApply
	case target:
		return TransitionNoop
	default:
		return TransitionConflict
	}
}

// TransitionReport loads a report, decides the transition, and when it
// applies, updates the report and appends one moderation audit entry.
// Returns the (possibly updated) report and whether the action was applied.
func TransitionReport(ctx context.Context, reportID primitive.ObjectID, action ReportAction, actionedBy, reason string) (*models.Report, bool, error) {
	reports := database.DB.Collection("reports")

	var report models.Report
	err := reports.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, false, ErrReportNotFound
	}
	if err != nil {
		return nil, false, err
	}

	switch DecideTransition(report.Status, action) {
	case TransitionNoop:
		return &report, false, nil
	case TransitionConflict:
		return &report, false, ErrReportConflict
	}

	now := time.Now()
	target := targetStatus(action)

	update := bson.M{
		"status":        target,
		"actioned_by":   actionedBy,
		"action_reason": reason,
	}
	if target == models.ReportStatusResolved {
		update["resolved_at"] = now
	} else {
		update["dismissed_at"] = now
	}

	if _, err := reports.UpdateOne(ctx, bson.M{"_id": reportID}, bson.M{"$set": update}); err != nil {
		return nil, false, err
	}

	// Append-only audit trail; one row per real transition
	audit := models.ModerationAuditEntry{
		ID:         primitive.NewObjectID(),
		CreatedAt:  now,
		ReportID:   reportID,
		FromStatus: report.Status,
		ToStatus:   target,
		ActionedBy: actionedBy,
		Reason:     reason,
	}
	if _, err := database.DB.Collection("moderation_audit").InsertOne(ctx, audit); err != nil {
		return nil, false, err
	}

	report.Status = target
	report.ActionedBy = actionedBy
	report.ActionReason = reason
	if target == models.ReportStatusResolved {
		report.ResolvedAt = &now
	} else {
		report.DismissedAt = &now
	}

	return &report, true, nil
}

// GetIPAddress extracts IP address from request
func GetIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take the first IP if there are multiple
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}
