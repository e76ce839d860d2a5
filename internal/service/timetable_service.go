package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadgrid/timetable-api/internal/dto"
	"github.com/acadgrid/timetable-api/internal/models"
	"github.com/acadgrid/timetable-api/internal/repository"
	"github.com/acadgrid/timetable-api/internal/scheduler"
	appErrors "github.com/acadgrid/timetable-api/pkg/errors"
)

type semesterReader interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	FindByStream(ctx context.Context, stream string, semesterNum int) (*models.Semester, error)
}

type timetableStore interface {
	Create(ctx context.Context, timetable *models.Timetable) error
	FindBySemester(ctx context.Context, semesterID string) (*models.Timetable, error)
	ExistsBySemester(ctx context.Context, semesterID string) (bool, error)
	DeleteBySemester(ctx context.Context, semesterID string) error
}

type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type generationObserver interface {
	ObserveGeneration(outcome string, duration time.Duration)
	CacheHit()
	CacheMiss()
}

// TimetableService owns the generation pipeline and the read-side views.
type TimetableService struct {
	semesters  semesterReader
	timetables timetableStore
	cache      viewCache
	metrics    generationObserver
	grid       *scheduler.Grid
	engine     *scheduler.Engine
	validator  *validator.Validate
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// TimetableServiceConfig governs service behaviour.
type TimetableServiceConfig struct {
	CacheTTL time.Duration
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	semesters semesterReader,
	timetables timetableStore,
	cache viewCache,
	metrics generationObserver,
	grid *scheduler.Grid,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if grid == nil {
		grid = scheduler.NewGrid()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	return &TimetableService{
		semesters:  semesters,
		timetables: timetables,
		cache:      cache,
		metrics:    metrics,
		grid:       grid,
		engine:     scheduler.NewEngine(grid),
		validator:  validate,
		logger:     logger,
		cacheTTL:   cfg.CacheTTL,
	}
}

// Generate runs the full pipeline for one semester: precondition gates,
// item building, constraint placement, projection, and the atomic persist.
// Any failure discards the in-memory board; nothing partial is ever written.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*models.Timetable, error) {
	start := time.Now()
	outcome := OutcomeError
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveGeneration(outcome, time.Since(start))
		}
	}()

	if err := s.validator.Struct(req); err != nil {
		outcome = OutcomeValidation
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate timetable payload")
	}

	exists, err := s.timetables.ExistsBySemester(ctx, req.SemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing timetable")
	}
	if exists {
		outcome = OutcomeConflict
		return nil, appErrors.Clone(appErrors.ErrConflict, "timetable already generated for this semester")
	}

	sem, err := s.semesters.FindByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			outcome = OutcomePrecondition
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	for _, course := range sem.Courses {
		if err := course.Validate(); err != nil {
			outcome = OutcomeValidation
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}

	if missing := models.UnassignedPairs(sem); len(missing) > 0 {
		outcome = OutcomePrecondition
		return nil, appErrors.Wrap(
			&models.UnassignedSectionsError{Pairs: missing},
			appErrors.ErrPreconditionFailed.Code,
			appErrors.ErrPreconditionFailed.Status,
			"cannot generate: unassigned course-section pairs",
		)
	}

	items, err := scheduler.BuildItems(sem.Courses)
	if err != nil {
		outcome = OutcomeValidation
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if len(items) == 0 {
		outcome = OutcomeValidation
		return nil, appErrors.Clone(appErrors.ErrValidation, "no items to schedule; check assignees and course hours")
	}

	board, err := s.engine.Schedule(items)
	if err != nil {
		var placement *scheduler.PlacementError
		if errors.As(err, &placement) {
			outcome = OutcomeUnschedulable
			s.logger.Warn("timetable generation exhausted",
				zap.String("semester_id", sem.ID),
				zap.String("course_id", placement.Item.CourseID),
				zap.String("section", placement.Item.Section),
				zap.String("teacher", placement.Item.Teacher),
				zap.Any("per_day_load", placement.Loads),
			)
			return nil, appErrors.Wrap(err, appErrors.ErrUnschedulable.Code, appErrors.ErrUnschedulable.Status,
				fmt.Sprintf("could not place %s for %s (%s); try a different teacher/section distribution", placement.Item.Kind, placement.Item.CourseID, placement.Item.Section))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation failed")
	}

	timetable := &models.Timetable{
		SemesterID: sem.ID,
		Days:       scheduler.Project(board),
	}
	if err := s.timetables.Create(ctx, timetable); err != nil {
		if errors.Is(err, repository.ErrDuplicateTimetable) {
			outcome = OutcomeConflict
			return nil, appErrors.Clone(appErrors.ErrConflict, "timetable already generated for this semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable")
	}

	s.invalidateViews(ctx, sem.ID)
	s.logger.Info("timetable generated",
		zap.String("semester_id", sem.ID),
		zap.Int("items", len(items)),
		zap.Duration("took", time.Since(start)),
	)
	outcome = OutcomeCreated
	return timetable, nil
}

// Combined returns the full grid with per-slot section maps.
func (s *TimetableService) Combined(ctx context.Context, semesterID string) (*dto.CombinedTimetableResponse, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester id is required")
	}
	sem, timetable, err := s.load(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	return &dto.CombinedTimetableResponse{Semester: summarize(sem), Days: timetable.Days}, nil
}

// SectionView returns one section's weekly view; cells the section does not
// occupy come back free.
func (s *TimetableService) SectionView(ctx context.Context, semesterID, section string) (*dto.FilteredTimetableResponse, error) {
	if semesterID == "" || section == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester id and section are required")
	}

	key := repository.TimetableCacheKey(semesterID, "section:"+section)
	if cached := s.cachedView(ctx, key); cached != nil {
		return cached, nil
	}

	sem, timetable, err := s.load(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	if !containsSection(sem.Sections, section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown section %q for this semester", section))
	}

	summary := summarize(sem)
	summary.Sections = nil
	resp := &dto.FilteredTimetableResponse{
		Semester: summary,
		Days:     scheduler.SectionView(s.grid, timetable.Days, section),
	}
	s.storeView(ctx, key, resp)
	return resp, nil
}

// TeacherView returns one teacher's weekly view across all sections.
func (s *TimetableService) TeacherView(ctx context.Context, semesterID, teacherID string) (*dto.FilteredTimetableResponse, error) {
	if semesterID == "" || teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester id and teacher id are required")
	}

	key := repository.TimetableCacheKey(semesterID, "teacher:"+teacherID)
	if cached := s.cachedView(ctx, key); cached != nil {
		return cached, nil
	}

	sem, timetable, err := s.load(ctx, semesterID)
	if err != nil {
		return nil, err
	}

	summary := summarize(sem)
	summary.Sections = nil
	resp := &dto.FilteredTimetableResponse{
		Semester: summary,
		Days:     scheduler.TeacherView(s.grid, timetable.Days, teacherID),
	}
	s.storeView(ctx, key, resp)
	return resp, nil
}

// Lookup resolves a semester by stream and number, then returns its
// combined grid.
func (s *TimetableService) Lookup(ctx context.Context, req dto.LookupTimetableRequest) (*dto.CombinedTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lookup payload")
	}

	sem, err := s.semesters.FindByStream(ctx, req.Stream, req.SemesterNum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	timetable, err := s.timetables.FindBySemester(ctx, sem.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not generated for this semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	return &dto.CombinedTimetableResponse{Semester: summarize(sem), Days: timetable.Days}, nil
}

// Delete removes a persisted timetable so the semester can be regenerated.
func (s *TimetableService) Delete(ctx context.Context, semesterID string) error {
	if semesterID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "semester id is required")
	}
	if err := s.timetables.DeleteBySemester(ctx, semesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	s.invalidateViews(ctx, semesterID)
	return nil
}

func (s *TimetableService) load(ctx context.Context, semesterID string) (*models.Semester, *models.Timetable, error) {
	sem, err := s.semesters.FindByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	timetable, err := s.timetables.FindBySemester(ctx, semesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not generated for this semester")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return sem, timetable, nil
}

func (s *TimetableService) cachedView(ctx context.Context, key string) *dto.FilteredTimetableResponse {
	if s.cache == nil {
		return nil
	}
	var cached dto.FilteredTimetableResponse
	if err := s.cache.Get(ctx, key, &cached); err != nil {
		if s.metrics != nil {
			s.metrics.CacheMiss()
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("timetable cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	if s.metrics != nil {
		s.metrics.CacheHit()
	}
	return &cached
}

func (s *TimetableService) storeView(ctx context.Context, key string, resp *dto.FilteredTimetableResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Warn("timetable cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *TimetableService) invalidateViews(ctx context.Context, semesterID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, repository.TimetableCachePattern(semesterID)); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("semester_id", semesterID), zap.Error(err))
	}
}

func summarize(sem *models.Semester) dto.SemesterSummary {
	return dto.SemesterSummary{
		ID:          sem.ID,
		Stream:      sem.Stream,
		SemesterNum: sem.SemesterNum,
		Year:        sem.Year,
		Sections:    sem.Sections,
	}
}

func containsSection(sections []string, section string) bool {
	for _, s := range sections {
		if s == section {
			return true
		}
	}
	return false
}
