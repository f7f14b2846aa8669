package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"github.com/nuggetsapp/nuggets-backend/internal/services"
	"github.com/nuggetsapp/nuggets-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateReportRequest represents the request to report content or a user
type CreateReportRequest struct {
	TargetID     string `json:"target_id" validate:"required,min=1,max=64"`
	TargetType   string `json:"target_type" validate:"required,oneof=article collection user"`
	Reason       string `json:"reason" validate:"required,min=3,max=100"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=2000"`
	RespondentID string `json:"respondent_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
}

// ReportActionRequest carries the optional moderator note for resolve/dismiss
type ReportActionRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// ReportResponse wraps a single report
type ReportResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Report  *models.Report `json:"report,omitempty"`
}

func writeReportError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ReportResponse{
		Success: false,
		Message: message,
	})
}

// CreateReport files a new moderation report
func CreateReport(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		writeReportError(w, http.StatusUnauthorized, "You must be signed in to report")
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReportError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	report := models.Report{
		ID:          primitive.NewObjectID(),
		CreatedAt:   time.Now(),
		TargetID:    req.TargetID,
		TargetType:  req.TargetType,
		Reason:      strings.TrimSpace(req.Reason),
		Description: strings.TrimSpace(req.Description),
		ReporterID:  *userID,
		Status:      models.ReportStatusOpen,
	}

	if req.RespondentID != "" {
		respondentID, err := primitive.ObjectIDFromHex(req.RespondentID)
		if err != nil {
			writeReportError(w, http.StatusBadRequest, "Invalid respondent ID")
			return
		}
		report.RespondentID = &respondentID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("reports").InsertOne(ctx, report); err != nil {
		writeReportError(w, http.StatusInternalServerError, "Failed to create report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ReportResponse{
		Success: true,
		Message: "Report submitted",
		Report:  &report,
	})
}

// ListReports returns reports with optional status filter. Admin only.
func ListReports(w http.ResponseWriter, r *http.Request) {
	if !isAdminRequest(r) {
		writeReportError(w, http.StatusForbidden, "Admin access required")
		return
	}

	limit, skip := parsePagination(r, 20, 100)

	filter := bson.M{}
	if status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))); status != "" {
		switch models.ReportStatus(status) {
		case models.ReportStatusOpen, models.ReportStatusResolved, models.ReportStatusDismissed:
			filter["status"] = status
		default:
			writeReportError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.DB.Collection("reports")

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		writeReportError(w, http.StatusInternalServerError, "Failed to count reports")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		writeReportError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		writeReportError(w, http.StatusInternalServerError, "Failed to decode reports")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"reports":  reports,
		"total":    total,
		"has_more": int64(skip+len(reports)) < total,
	})
}

// GetReport returns a single report. Admin only.
func GetReport(w http.ResponseWriter, r *http.Request) {
	if !isAdminRequest(r) {
		writeReportError(w, http.StatusForbidden, "Admin access required")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeReportError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var report models.Report
	if err := database.DB.Collection("reports").FindOne(ctx, bson.M{"_id": reportID}).Decode(&report); err != nil {
		writeReportError(w, http.StatusNotFound, "Report not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportResponse{
		Success: true,
		Report:  &report,
	})
}

func actionReport(w http.ResponseWriter, r *http.Request, action services.ReportAction) {
	if !isAdminRequest(r) {
		writeReportError(w, http.StatusForbidden, "Admin access required")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeReportError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	// Body is optional for these actions
	var req ReportActionRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, applied, err := services.TransitionReport(ctx, reportID, action, "admin", strings.TrimSpace(req.Reason))
	if err == services.ErrReportNotFound {
		writeReportError(w, http.StatusNotFound, "Report not found")
		return
	} else if err == services.ErrReportConflict {
		writeReportError(w, http.StatusConflict, "Report was already closed with a different outcome")
		return
	} else if err != nil {
		writeReportError(w, http.StatusInternalServerError, "Failed to update report")
		return
	}

	message := "Report updated"
	if !applied {
		message = "Report already in requested state"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportResponse{
		Success: true,
		Message: message,
		Report:  report,
	})
}

// ResolveReport marks an open report as resolved. Admin only.
func ResolveReport(w http.ResponseWriter, r *http.Request) {
	actionReport(w, r, services.ActionResolve)
}

// DismissReport marks an open report as dismissed. Admin only.
func DismissReport(w http.ResponseWriter, r *http.Request) {
	actionReport(w, r, services.ActionDismiss)
}
