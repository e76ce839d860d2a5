package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadgrid/timetable-api/internal/dto"
	"github.com/acadgrid/timetable-api/internal/models"
	"github.com/acadgrid/timetable-api/internal/scheduler"
	"github.com/acadgrid/timetable-api/internal/service"
	appErrors "github.com/acadgrid/timetable-api/pkg/errors"
	"github.com/acadgrid/timetable-api/pkg/response"
)

type timetableManager interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*models.Timetable, error)
	Combined(ctx context.Context, semesterID string) (*dto.CombinedTimetableResponse, error)
	SectionView(ctx context.Context, semesterID, section string) (*dto.FilteredTimetableResponse, error)
	TeacherView(ctx context.Context, semesterID, teacherID string) (*dto.FilteredTimetableResponse, error)
	Lookup(ctx context.Context, req dto.LookupTimetableRequest) (*dto.CombinedTimetableResponse, error)
	Delete(ctx context.Context, semesterID string) error
}

// TimetableHandler exposes timetable generation and view endpoints.
type TimetableHandler struct {
	service timetableManager
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate the weekly timetable for a semester
// @Description Runs the constraint-based placement over the semester's courses and assignments. Fails whole-run on the first unplaceable item; nothing is persisted on failure.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	timetable, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		var unassigned *models.UnassignedSectionsError
		if errors.As(err, &unassigned) {
			response.ErrorWithMeta(c, err, map[string]interface{}{"missing": unassigned.Pairs})
			return
		}
		var placement *scheduler.PlacementError
		if errors.As(err, &placement) {
			response.ErrorWithMeta(c, err, map[string]interface{}{
				"teacher":    placement.Item.Teacher,
				"perDayLoad": placement.Loads,
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, timetable)
}

// Combined godoc
// @Summary Full weekly grid with per-slot section maps
// @Tags Timetables
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{semesterId} [get]
func (h *TimetableHandler) Combined(c *gin.Context) {
	result, err := h.service.Combined(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Section godoc
// @Summary Weekly grid filtered to one section
// @Tags Timetables
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param section path string true "Section label"
// @Success 200 {object} response.Envelope
// @Router /timetables/{semesterId}/sections/{section} [get]
func (h *TimetableHandler) Section(c *gin.Context) {
	result, err := h.service.SectionView(c.Request.Context(), c.Param("semesterId"), c.Param("section"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Mine godoc
// @Summary Weekly grid filtered to the authenticated teacher
// @Tags Timetables
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{semesterId}/me [get]
func (h *TimetableHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.service.TeacherView(c.Request.Context(), c.Param("semesterId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Lookup godoc
// @Summary Resolve a timetable by stream and semester number
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.LookupTimetableRequest true "Lookup payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/lookup [post]
func (h *TimetableHandler) Lookup(c *gin.Context) {
	var req dto.LookupTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lookup payload"))
		return
	}
	result, err := h.service.Lookup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a semester's timetable, permitting regeneration
// @Tags Timetables
// @Param semesterId path string true "Semester ID"
// @Success 204
// @Router /timetables/{semesterId} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("semesterId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
