package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/service"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

type goalService interface {
	GetGoal(ctx context.Context, id int64) (*models.Goal, error)
	GetObjective(ctx context.Context, id int64) (*models.Objective, error)
	AddGoal(ctx context.Context, studentID int64, req service.GoalRequest) (*models.GoalWithObjectives, error)
	EditGoal(ctx context.Context, id int64, description string) (*models.Goal, error)
	ArchiveGoal(ctx context.Context, id int64) (int64, error)
	AddObjective(ctx context.Context, goalID int64, req service.ObjectiveRequest) (*models.Objective, error)
	EditObjective(ctx context.Context, id int64, req service.ObjectiveRequest) (*models.Objective, error)
	ArchiveObjective(ctx context.Context, id int64) (int64, error)
}

type studentReader interface {
	Get(ctx context.Context, id int64) (*models.StudentDetail, error)
}

// GoalHandler exposes goal and objective endpoints.
type GoalHandler struct {
	goals    goalService
	students studentReader
}

// NewGoalHandler constructs GoalHandler.
func NewGoalHandler(goals goalService, students studentReader) *GoalHandler {
	return &GoalHandler{goals: goals, students: students}
}

type editGoalRequest struct {
	Description string `json:"goal_description"`
}

// AddGoalForm godoc
// @Summary Student context for the add goal form
// @Tags Goals
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /add_goal/{student_id} [get]
func (h *GoalHandler) AddGoalForm(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// AddGoal godoc
// @Summary Add a goal, optionally with its first objective
// @Tags Goals
// @Accept json
// @Produce json
// @Param student_id path int true "Student ID"
// @Param payload body service.GoalRequest true "Goal payload"
// @Success 201 {object} response.Envelope
// @Router /add_goal/{student_id} [post]
func (h *GoalHandler) AddGoal(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	var req service.GoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goals.AddGoal(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, goal, map[string]interface{}{"message": "Goal added successfully!"})
}

// GetGoal godoc
// @Summary Load a goal for editing or for the add objective form
// @Tags Goals
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {object} response.Envelope
// @Router /edit_goal/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	id, ok := goalParam(c)
	if !ok {
		return
	}
	goal, err := h.goals.GetGoal(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goal, nil)
}

// EditGoal godoc
// @Summary Edit a goal description
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {object} response.Envelope
// @Router /edit_goal/{id} [post]
func (h *GoalHandler) EditGoal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req editGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goals.EditGoal(c.Request.Context(), id, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, goal, "Goal updated successfully!")
}

// ArchiveGoal godoc
// @Summary Archive a goal and its objectives
// @Tags Goals
// @Produce json
// @Param id path int true "Goal ID"
// @Param next query string false "Redirect target"
// @Success 200 {object} response.Envelope
// @Router /archive_goal/{id} [post]
func (h *GoalHandler) ArchiveGoal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, err := h.goals.ArchiveGoal(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RedirectOr(c, nextTarget(c), func() {
		response.Message(c, gin.H{"id": id, "student_id": studentID}, "Goal archived successfully!")
	})
}

// AddObjective godoc
// @Summary Add an objective to a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param goal_id path int true "Goal ID"
// @Param payload body service.ObjectiveRequest true "Objective payload"
// @Success 201 {object} response.Envelope
// @Router /add_objective/{goal_id} [post]
func (h *GoalHandler) AddObjective(c *gin.Context) {
	goalID, ok := pathID(c, "goal_id")
	if !ok {
		return
	}
	var req service.ObjectiveRequest
	if !bindJSON(c, &req) {
		return
	}
	objective, err := h.goals.AddObjective(c.Request.Context(), goalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, objective, map[string]interface{}{"message": "Objective added successfully!"})
}

// GetObjective godoc
// @Summary Load an objective for editing
// @Tags Goals
// @Produce json
// @Param id path int true "Objective ID"
// @Success 200 {object} response.Envelope
// @Router /edit_objective/{id} [get]
func (h *GoalHandler) GetObjective(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	objective, err := h.goals.GetObjective(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, objective, nil)
}

// EditObjective godoc
// @Summary Edit an objective
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path int true "Objective ID"
// @Param payload body service.ObjectiveRequest true "Objective payload"
// @Success 200 {object} response.Envelope
// @Router /edit_objective/{id} [post]
func (h *GoalHandler) EditObjective(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ObjectiveRequest
	if !bindJSON(c, &req) {
		return
	}
	objective, err := h.goals.EditObjective(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, objective, "Objective updated successfully!")
}

// ArchiveObjective godoc
// @Summary Archive an objective
// @Tags Goals
// @Produce json
// @Param id path int true "Objective ID"
// @Param next query string false "Redirect target"
// @Success 200 {object} response.Envelope
// @Router /archive_objective/{id} [post]
func (h *GoalHandler) ArchiveObjective(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	goalID, err := h.goals.ArchiveObjective(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.RedirectOr(c, nextTarget(c), func() {
		response.Message(c, gin.H{"id": id, "goal_id": goalID}, "Objective archived successfully!")
	})
}

// goalParam accepts both /edit_goal/:id and /add_objective/:goal_id.
func goalParam(c *gin.Context) (int64, bool) {
	if c.Param("goal_id") != "" {
		return pathID(c, "goal_id")
	}
	return pathID(c, "id")
}
