package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/diagnose"
	"github.com/campusforge/gradplan/internal/planner"
	"github.com/campusforge/gradplan/internal/programmap"
	"github.com/campusforge/gradplan/internal/timetable"
	"github.com/campusforge/gradplan/internal/transcript"
	"github.com/campusforge/gradplan/pkg/cache"
	"github.com/campusforge/gradplan/pkg/config"
	apperrors "github.com/campusforge/gradplan/pkg/errors"
	"github.com/campusforge/gradplan/pkg/logger"
	"github.com/campusforge/gradplan/pkg/response"
)

// CatalogRegistry resolves a course_map name to the catalog and program
// map it names. The core never mutates either after process start.
type CatalogRegistry interface {
	Lookup(courseMap string) (*catalog.Store, *programmap.ProgramMap, bool)
}

// Handler wires the HTTP surface to the three solvers.
type Handler struct {
	registry CatalogRegistry
	validate *validator.Validate
	log      *zap.Logger
	cfg      *config.Config
	metrics  *Metrics
	cache    *cache.SolveCache
}

// NewHandler builds a Handler. solveCache may be the always-missing
// SolveCache returned when Redis is unconfigured.
func NewHandler(registry CatalogRegistry, log *zap.Logger, cfg *config.Config, metrics *Metrics, solveCache *cache.SolveCache) *Handler {
	return &Handler{registry: registry, validate: validator.New(), log: log, cfg: cfg, metrics: metrics, cache: solveCache}
}

// PlannerGenerate handles POST /planner-generate.
func (h *Handler) PlannerGenerate(c *gin.Context) {
	var req PlannerGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, "invalid planner-generate payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}

	cat, pm, ok := h.registry.Lookup(req.CourseMap)
	if !ok {
		response.Error(c, apperrors.ErrCatalogMiss)
		return
	}

	cacheKey := cache.Key("planner", req)
	var cached PlannerGenerateResponse
	if h.cache.Get(c.Request.Context(), cacheKey, &cached) {
		response.OK(c, cached)
		return
	}

	genReq := req.toGenerateRequest(h.cfg.Solver.PlannerTimeLimit)
	if genReq.SemesterCourseLimit <= 0 {
		genReq.SemesterCourseLimit = h.cfg.Solver.SemesterCourseLimit
	}

	result, err := planner.New(cat, pm).Solve(genReq)
	if err != nil {
		// A repeated course is a violation the client renders, not a
		// request error.
		var dup *planner.ErrDuplicateCourse
		if errors.As(err, &dup) {
			response.OK(c, PlannerGenerateResponse{
				Status: "INFEASIBLE",
				Violations: []ViolationDTO{{
					Category: string(diagnose.CategoryCourseRepeated),
					Reason:   fmt.Sprintf("%s appears %d times in the provided history", dup.Code, dup.Count),
				}},
			})
			return
		}
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	h.metrics.ObserveSolve("planner", result.Status, result.Elapsed)
	logger.LogSolve(h.log, logger.SolveOutcome{Solver: "planner", Status: result.Status, Elapsed: result.Elapsed})

	if result.Plan == nil {
		// A failed plan transparently re-runs the diagnostic solver and
		// returns its violations instead of an empty plan.
		diagReq := diagnose.VerifyRequest{
			CompletedCourses: toDiagnoseCourseSemesters(req.CompletedCourses),
			TakenIn:          toDiagnoseCourseSemesters(req.TakenIn),
			SemesterLayout:   req.SemesterLayout,
			MustTake:         req.MustTake,
			MustNotTake:      req.MustNotTake,
			TimeLimit:        h.cfg.Solver.DiagnosticsTimeLimit,
		}
		diagResult, derr := diagnose.New(cat, pm).Verify(diagReq)
		if derr != nil {
			response.Error(c, apperrors.Wrap(derr, apperrors.ErrInternal.Code, http.StatusInternalServerError, derr.Error()))
			return
		}
		h.metrics.ObserveSolve("diagnose", diagResult.Status, diagResult.Elapsed)
		resp := PlannerGenerateResponse{
			Status:     result.Status,
			Violations: toViolationDTOs(diagResult.Violations),
		}
		h.cache.Set(c.Request.Context(), cacheKey, resp)
		response.OK(c, resp)
		return
	}

	resp := PlannerGenerateResponse{
		Status:         result.Status,
		Plan:           toPlanDTO(result.Plan),
		UnknownPrereqs: result.UnknownPrereqs,
	}
	h.cache.Set(c.Request.Context(), cacheKey, resp)
	response.OK(c, resp)
}

// GraduationVerification handles POST /graduation-verification.
func (h *Handler) GraduationVerification(c *gin.Context) {
	var req GraduationVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, "invalid graduation-verification payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}

	cat, pm, ok := h.registry.Lookup(req.CourseMap)
	if !ok {
		response.Error(c, apperrors.ErrCatalogMiss)
		return
	}

	result, err := diagnose.New(cat, pm).Verify(req.toVerifyRequest(h.cfg.Solver.DiagnosticsTimeLimit))
	if err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrInternal.Code, http.StatusInternalServerError, err.Error()))
		return
	}
	h.metrics.ObserveSolve("diagnose", result.Status, result.Elapsed)
	logger.LogSolve(h.log, logger.SolveOutcome{Solver: "diagnose", Status: result.Status, Elapsed: result.Elapsed})

	response.OK(c, GraduationVerificationResponse{Status: result.Status, Violations: toViolationDTOs(result.Violations)})
}

// TimeTable handles POST /time-table.
func (h *Handler) TimeTable(c *gin.Context) {
	var req TimeTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, "invalid time-table payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}

	ttReq := req.toRequest(h.cfg.Solver.TimetableTimeLimit, h.cfg.Solver.TimetableEnumCap)
	result, err := timetable.New().Solve(ttReq)
	if err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrInternal.Code, http.StatusInternalServerError, err.Error()))
		return
	}
	h.metrics.ObserveSolve("timetable", result.Status, result.Elapsed)
	logger.LogSolve(h.log, logger.SolveOutcome{Solver: "timetable", Status: result.Status, Elapsed: result.Elapsed})

	response.OK(c, TimeTableResponse{Status: result.Status, Schedule: toScheduleDTO(result.Schedule)})
}

// AllTimeTables handles POST /all-time-tables, streaming one
// "event:scheduleEvent" SSE frame per enumerated solution.
func (h *Handler) AllTimeTables(c *gin.Context) {
	var req TimeTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, "invalid all-time-tables payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}

	ttReq := req.toRequest(h.cfg.Solver.TimetableTimeLimit, h.cfg.Solver.TimetableEnumCap)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	err := timetable.New().EnumerateSchedules(ttReq, func(sched *timetable.Schedule) bool {
		c.SSEvent("scheduleEvent", toScheduleDTO(sched))
		c.Writer.Flush()
		return true
	})
	if err != nil {
		h.log.Error("all-time-tables enumeration failed", zap.Error(err))
	}
}

// ProcessPDF handles POST /process-pdf.
func (h *Handler) ProcessPDF(c *gin.Context) {
	var req ProcessPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, "invalid process-pdf payload"))
		return
	}
	response.OK(c, ProcessPDFResponse{Courses: transcript.Extract(req.Text)})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
