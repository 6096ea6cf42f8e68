package businessflow

import (
	"testing"

	"github.com/amirphl/Kitsune/models"
	"github.com/stretchr/testify/assert"
)

func TestCanChangeStatus(t *testing.T) {
	lead := models.Lead{
		Title:      "Warehouse acquisition",
		AssignedTo: "Mr. Sumesh Paul",
		Status:     models.LeadStatusInProgress,
	}

	tests := []struct {
		name      string
		actor     string
		newStatus string
		allowed   bool
	}{
		{"assignee closes", "Mr. Sumesh Paul", models.LeadStatusClosed, true},
		{"assignee terminates", "Mr. Sumesh Paul", models.LeadStatusTerminated, true},
		{"non-assignee closes", "Mr. Prabhakaran", models.LeadStatusClosed, false},
		{"non-assignee terminates", "Mr. Prabhakaran", models.LeadStatusTerminated, false},
		{"unknown actor closes", "", models.LeadStatusClosed, false},
		{"non-assignee moves to in progress", "Mr. Prabhakaran", models.LeadStatusInProgress, true},
		{"non-assignee reopens", "Mr. Prabhakaran", models.LeadStatusNew, true},
		{"unknown actor moves to in progress", "", models.LeadStatusInProgress, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanChangeStatus(tt.actor, lead, tt.newStatus))
		})
	}
}
