package models

import "testing"

func TestIsValidInspectionTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{InspectionStatusPending, InspectionStatusScheduled, true},
		{InspectionStatusScheduled, InspectionStatusInProgress, true},
		{InspectionStatusInProgress, InspectionStatusCompleted, true},

		// Re-assignment before the inspection starts
		{InspectionStatusScheduled, InspectionStatusScheduled, true},
		{InspectionStatusPending, InspectionStatusInProgress, false},
		{InspectionStatusInProgress, InspectionStatusScheduled, false},

		// Cancellation from any non-terminal state
		{InspectionStatusPending, InspectionStatusCancelled, true},
		{InspectionStatusScheduled, InspectionStatusCancelled, true},
		{InspectionStatusInProgress, InspectionStatusCancelled, true},
		{InspectionStatusCompleted, InspectionStatusCancelled, false},
		{InspectionStatusCancelled, InspectionStatusCancelled, false},

		// Terminal states
		{InspectionStatusCompleted, InspectionStatusInProgress, false},
		{InspectionStatusCancelled, InspectionStatusScheduled, false},

		{"nonexistent", InspectionStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidInspectionTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidInspectionTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestTerminalInspectionStatuses(t *testing.T) {
	for _, status := range []string{InspectionStatusCompleted, InspectionStatusCancelled} {
		if !IsTerminalInspectionStatus(status) {
			t.Errorf("status %q should be terminal", status)
		}
	}
	for _, status := range []string{InspectionStatusPending, InspectionStatusScheduled, InspectionStatusInProgress} {
		if IsTerminalInspectionStatus(status) {
			t.Errorf("status %q should not be terminal", status)
		}
	}
}
