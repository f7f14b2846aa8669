package services

import (
	"testing"

	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDecideTransition(t *testing.T) {
	tests := []struct {
		name    string
		current models.ReportStatus
		action  ReportAction
		want    TransitionOutcome
	}{
		{"open resolve applies", models.ReportStatusOpen, ActionResolve, TransitionApply},
		{"open dismiss applies", models.ReportStatusOpen, ActionDismiss, TransitionApply},
		{"resolve twice is noop", models.ReportStatusResolved, ActionResolve, TransitionNoop},
		{"dismiss twice is noop", models.ReportStatusDismissed, ActionDismiss, TransitionNoop},
		{"resolve after dismiss conflicts", models.ReportStatusDismissed, ActionResolve, TransitionConflict},
		{"dismiss after resolve conflicts", models.ReportStatusResolved, ActionDismiss, TransitionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideTransition(tt.current, tt.action))
		})
	}
}

func TestGetIPAddressHeaders(t *testing.T) {
	// X-Forwarded-For with multiple hops takes the first
	r := newRequestWithHeaders(map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"})
	assert.Equal(t, "203.0.113.9", GetIPAddress(r))

	// X-Real-IP is the fallback header
	r = newRequestWithHeaders(map[string]string{"X-Real-IP": "198.51.100.7"})
	assert.Equal(t, "198.51.100.7", GetIPAddress(r))

	// RemoteAddr with port is trimmed
	r = newRequestWithHeaders(nil)
	r.RemoteAddr = "192.0.2.4:51234"
	assert.Equal(t, "192.0.2.4", GetIPAddress(r))
}
