package lessons

import (
	"bytes"
	"errors"

	"lesson-reconciler/core/logger"
	"lesson-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for lesson reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the lesson routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/rosters", h.HandleListRosters)

	group := app.Group("/schools/:school")
	group.Get("/reconcile", h.HandleReconcile)
	group.Put("/roster", h.HandleUploadRoster)
	group.Post("/lessons/:lesson/conflicts", h.HandleCheckConflicts)
	group.Post("/lessons/:lesson/align", h.HandleAlign)
}

// HandleReconcile compares a school's stored lessons against its roster.
// @Summary Reconcile Lessons
// @Description Compare stored lessons against the school's roster export.
// @Tags lessons
// @Produce json
// @Param school path string true "School ID"
// @Success 200 {object} reconcile.ComparisonResult "Comparison"
// @Failure 404 {object} map[string]string "Roster Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /schools/{school}/reconcile [get]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	school := c.Params("school")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("school_id", school))

	result, err := h.service.Compare(c.UserContext(), school)
	if err != nil {
		return h.fail(c, l, "Reconciliation failed", err)
	}

	l.Info("Reconciliation completed",
		zap.Int("matched", result.Summary.Matched),
		zap.Int("mismatched", result.Summary.Mismatched),
		zap.Int("missing_in_internal", result.Summary.MissingInInternal),
		zap.Int("missing_in_external", result.Summary.MissingInExternal))
	return c.JSON(result)
}

// HandleCheckConflicts checks whether aligning a lesson to a roster row is safe.
// @Summary Check Alignment Conflicts
// @Description Resolve the roster row's teacher and subject and check the teacher's schedule for overlaps.
// @Tags lessons
// @Accept json
// @Produce json
// @Param school path string true "School ID"
// @Param lesson path string true "Lesson ID"
// @Param row body reconcile.ExternalLesson true "Roster row"
// @Success 200 {object} reconcile.ConflictReport "Safe to align"
// @Failure 409 {object} reconcile.ConflictReport "Conflict"
// @Failure 404 {object} map[string]string "Lesson Not Found"
// @Router /schools/{school}/lessons/{lesson}/conflicts [post]
func (h *Handler) HandleCheckConflicts(c *fiber.Ctx) error {
	school, lesson := c.Params("school"), c.Params("lesson")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("school_id", school), zap.String("lesson_id", lesson))

	var row reconcile.ExternalLesson
	if err := c.BodyParser(&row); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid roster row: " + err.Error()})
	}

	report, err := h.service.CheckConflicts(c.UserContext(), school, lesson, row)
	if err != nil {
		return h.fail(c, l, "Conflict check failed", err)
	}
	if !report.Success {
		return c.Status(fiber.StatusConflict).JSON(report)
	}
	return c.JSON(report)
}

// HandleAlign overwrites a lesson with a roster row after a conflict check.
// @Summary Align Lesson
// @Description Check for conflicts, then overwrite the lesson's student, duration, teacher, subject and start date.
// @Tags lessons
// @Accept json
// @Produce json
// @Param school path string true "School ID"
// @Param lesson path string true "Lesson ID"
// @Param row body reconcile.ExternalLesson true "Roster row"
// @Success 200 {object} reconcile.AlignResult "Aligned"
// @Failure 409 {object} reconcile.AlignResult "Refused"
// @Failure 404 {object} map[string]string "Lesson Not Found"
// @Router /schools/{school}/lessons/{lesson}/align [post]
func (h *Handler) HandleAlign(c *fiber.Ctx) error {
	school, lesson := c.Params("school"), c.Params("lesson")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("school_id", school), zap.String("lesson_id", lesson))

	var row reconcile.ExternalLesson
	if err := c.BodyParser(&row); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid roster row: " + err.Error()})
	}

	result, err := h.service.Align(c.UserContext(), school, lesson, row)
	if err != nil {
		return h.fail(c, l, "Alignment failed", err)
	}
	if !result.Success {
		l.Info("Alignment refused", zap.String("reason", result.Message))
		return c.Status(fiber.StatusConflict).JSON(result)
	}

	l.Info("Lesson aligned")
	return c.JSON(result)
}

// HandleUploadRoster stores a roster export for a school.
// @Summary Upload Roster
// @Description Validate and store a CSV roster export for the school.
// @Tags rosters
// @Accept text/csv
// @Produce json
// @Param school path string true "School ID"
// @Success 200 {object} map[string]int "Row count"
// @Failure 400 {object} map[string]string "Invalid Roster"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /schools/{school}/roster [put]
func (h *Handler) HandleUploadRoster(c *fiber.Ctx) error {
	school := c.Params("school")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("school_id", school))

	rows, err := h.service.UploadRoster(c.UserContext(), school, bytes.NewReader(c.Body()))
	if err != nil {
		if errors.Is(err, ErrInvalidRoster) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return h.fail(c, l, "Roster upload failed", err)
	}
	return c.JSON(fiber.Map{"rows": rows})
}

// HandleListRosters lists the schools that have a roster export.
// @Summary List Rosters
// @Tags rosters
// @Produce json
// @Success 200 {array} string "School IDs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /rosters [get]
func (h *Handler) HandleListRosters(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	schools, err := h.service.ListRosters(c.UserContext())
	if err != nil {
		return h.fail(c, l, "Roster listing failed", err)
	}
	if schools == nil {
		schools = []string{}
	}
	return c.JSON(schools)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	if IsNotFound(err) {
		l.Warn(msg, zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
