package handlers

import (
	"net/http"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput handles the JSON-based validation request. Errors block a
// generation; warnings are informational only.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	var errs, warnings []string

	// Basic validation of data structures
	if len(input.Personnel) == 0 {
		errs = append(errs, "At least one person is required")
	}
	if len(input.Shifts) == 0 {
		errs = append(errs, "At least one shift is required")
	}
	if input.Dates.Start == "" {
		errs = append(errs, "Start date is required")
	}
	if input.Dates.End == "" {
		errs = append(errs, "End date is required")
	}

	// Check for duplicate IDs and names
	personIDs := make(map[string]bool)
	personNames := make(map[string]bool)
	for _, p := range input.Personnel {
		if p.ID != "" && personIDs[p.ID] {
			errs = append(errs, "Duplicate person ID: "+p.ID)
		}
		personIDs[p.ID] = true
		if personNames[p.Name] {
			warnings = append(warnings, "Duplicate person name: "+p.Name)
		}
		personNames[p.Name] = true
	}

	shiftIDs := make(map[string]bool)
	shiftNames := make(map[string]bool)
	for _, s := range input.Shifts {
		if s.ID != "" && shiftIDs[s.ID] {
			errs = append(errs, "Duplicate shift ID: "+s.ID)
		}
		shiftIDs[s.ID] = true
		if shiftNames[s.Name] {
			warnings = append(warnings, "Duplicate shift name: "+s.Name)
		}
		shiftNames[s.Name] = true
	}

	start, errStart := time.Parse("2006-01-02", input.Dates.Start)
	end, errEnd := time.Parse("2006-01-02", input.Dates.End)
	if input.Dates.Start != "" && errStart != nil {
		warnings = append(warnings, "Start date is not in YYYY-MM-DD format")
	}
	if input.Dates.End != "" && errEnd != nil {
		warnings = append(warnings, "End date is not in YYYY-MM-DD format")
	}
	if errStart == nil && errEnd == nil && start.After(end) {
		warnings = append(warnings, "Start date is after end date")
	}

	resp := gin.H{
		"valid": len(errs) == 0,
		"stats": gin.H{
			"personnel_count": len(input.Personnel),
			"shift_count":     len(input.Shifts),
		},
	}
	if len(errs) > 0 {
		resp["error"] = errs[0]
		resp["errors"] = errs
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}
