package handler

import (
	"net/http"

	"planner/internal/model"
	"planner/internal/service"

	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	rules *service.RuleService
}

func NewRuleHandler(rules *service.RuleService) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// RuleRequest carries the editable rule fields. Range checks happen in the
// service so that they answer 422.
type RuleRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Weekdays    []string `json:"weekdays"`
	WeekGap     int      `json:"week_gap"`
	DailyQuota  int      `json:"daily_quota"`
}

type RuleResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Weekdays    []string `json:"weekdays"`
	WeekGap     int      `json:"week_gap"`
	DailyQuota  int      `json:"daily_quota"`
	AnchorDate  string   `json:"anchor_date"`
}

type RuleUpdateResponse struct {
	Rule         RuleResponse `json:"rule"`
	RemovedTasks int64        `json:"removed_tasks"`
}

func (r RuleRequest) params() model.RuleParams {
	return model.RuleParams{
		Title:       r.Title,
		Description: r.Description,
		Weekdays:    r.Weekdays,
		WeekGap:     r.WeekGap,
		DailyQuota:  r.DailyQuota,
	}
}

func toRuleResponse(rule *model.RecurrenceRule) RuleResponse {
	return RuleResponse{
		ID:          rule.ID.String(),
		Title:       rule.Title,
		Description: rule.Description,
		Weekdays:    append([]string{}, rule.Weekdays...),
		WeekGap:     rule.WeekGap,
		DailyQuota:  rule.DailyQuota,
		AnchorDate:  rule.AnchorDate,
	}
}

// List godoc
// @Summary      List recurrence rules
// @Tags         rules
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  RuleResponse
// @Router       /rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	rules, err := h.rules.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, toRuleResponse(&rules[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary      Create a recurrence rule anchored on today
// @Tags         rules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      RuleRequest  true  "Rule"
// @Success      201      {object}  RuleResponse
// @Failure      422      {object}  ErrorResponse
// @Router       /rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rule, err := h.rules.Create(c.Request.Context(), userID, req.params())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRuleResponse(rule))
}

// Get godoc
// @Summary      Get a recurrence rule
// @Tags         rules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  RuleResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rules/{id} [get]
func (h *RuleHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ruleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rule, err := h.rules.Get(c.Request.Context(), userID, ruleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRuleResponse(rule))
}

// Update godoc
// @Summary      Edit a rule and drop its future generated tasks
// @Tags         rules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "Rule ID"
// @Param        request  body      RuleRequest  true  "Rule"
// @Success      200      {object}  RuleUpdateResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Router       /rules/{id} [put]
func (h *RuleHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ruleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rule, removed, err := h.rules.Update(c.Request.Context(), userID, ruleID, req.params())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RuleUpdateResponse{Rule: toRuleResponse(rule), RemovedTasks: removed})
}

// Delete godoc
// @Summary      Stop a rule from generating tasks
// @Tags         rules
// @Security     BearerAuth
// @Param        id   path  string  true  "Rule ID"
// @Success      204
// @Router       /rules/{id} [delete]
func (h *RuleHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ruleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.rules.Delete(c.Request.Context(), userID, ruleID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
