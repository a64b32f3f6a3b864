package handlers

import (
	"net/http"

	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/arnavshah/shift-roster-ai/pkg/prompt"
	"github.com/arnavshah/shift-roster-ai/pkg/render"
	"github.com/arnavshah/shift-roster-ai/pkg/review"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"
)

// ScheduleResponse is the body of a successful /api/schedule call
type ScheduleResponse struct {
	Schedule models.Schedule `json:"schedule"`
	Table    render.View     `json:"table"`
	Review   *review.Report  `json:"review,omitempty"`
}

// PromptResponse is the body of /api/prompt
type PromptResponse struct {
	Prompt string        `json:"prompt"`
	Schema *genai.Schema `json:"schema"`
}

// Info returns the service name and version
func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Shift Roster AI",
		"version": Version,
	})
}

// ScheduleJSON generates a schedule for a form posted as JSON. The call is
// synchronous and stateless: nothing about the request is kept.
func (h *Handler) ScheduleJSON(c *gin.Context) {
	lang := langOf(c)

	var input models.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !input.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, i18n.MsgValidationMissing)})
		return
	}

	schedule, err := h.Generator.GenerateSchedule(c.Request.Context(), input, lang)
	h.RecordUsage(input, lang, schedule, err == nil)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": i18n.T(lang, i18n.MsgGenerationFailed)})
		return
	}

	resp := ScheduleResponse{
		Schedule: schedule,
		Table:    render.Project(schedule, false),
	}
	if h.Reviewer != nil {
		report := h.Reviewer.Check(schedule, input)
		resp.Review = &report
	}
	c.JSON(http.StatusOK, resp)
}

// PromptPreview returns the prompt and schema that would be sent for a form
func (h *Handler) PromptPreview(c *gin.Context) {
	var input models.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, PromptResponse{
		Prompt: prompt.Build(input, langOf(c)),
		Schema: prompt.Schema(),
	})
}
