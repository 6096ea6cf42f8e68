// Package businessflow contains the core business logic and use cases for lead tracking workflows
package businessflow

import (
	"github.com/amirphl/Kitsune/models"
)

// CanChangeStatus reports whether the actor may move a lead to the target
// status. Closing or terminating a lead is reserved for its current assignee;
// every other transition is open to any authenticated user.
func CanChangeStatus(actor string, lead models.Lead, newStatus string) bool {
	if !models.IsTerminalStatus(newStatus) {
		return true
	}

	return actor == lead.AssignedTo
}
