package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/internal/repository"
	"github.com/noah-isme/volley-vote-api/internal/week"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
	"github.com/noah-isme/volley-vote-api/pkg/export"
	"github.com/noah-isme/volley-vote-api/pkg/validation"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type attendanceRepository interface {
	InsertMark(ctx context.Context, mark *models.AttendanceMark) (bool, error)
	DeleteMark(ctx context.Context, key models.MarkKey) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	ListByWeek(ctx context.Context, weekID string) ([]models.AttendanceMark, error)
	PeopleWithoutMarks(ctx context.Context, weekID string) ([]models.Person, error)
}

type rosterReader interface {
	List(ctx context.Context) ([]models.Person, error)
}

// labelledRoster serves the roster with display labels, typically from cache.
type labelledRoster interface {
	List(ctx context.Context) ([]models.PersonView, error)
}

type tableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type eventRenderer interface {
	Render(event export.Event) ([]byte, error)
	ContentType() string
}

// AttendanceConfig tunes exports and calendar events.
type AttendanceConfig struct {
	EventDuration time.Duration
	EventSummary  string
}

// AttendanceService implements voting on the weekly grid.
type AttendanceService struct {
	repo      attendanceRepository
	roster    rosterReader
	labelled  labelledRoster
	clock     week.Clock
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	exporters map[string]tableRenderer
	calendar  eventRenderer
	config    AttendanceConfig
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, roster rosterReader, clock week.Clock, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, config AttendanceConfig) *AttendanceService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = week.SystemClock
	}
	if config.EventDuration <= 0 {
		config.EventDuration = 2 * time.Hour
	}
	if config.EventSummary == "" {
		config.EventSummary = "Volleyball"
	}
	return &AttendanceService{
		repo:      repo,
		roster:    roster,
		clock:     clock,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		exporters: map[string]tableRenderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(""),
		},
		calendar: export.NewICSRenderer(),
		config:   config,
	}
}

// WithPDFFont switches the PDF exporter to a UTF-8 TTF font.
func (s *AttendanceService) WithPDFFont(path string) *AttendanceService {
	if path != "" {
		s.exporters[ExportFormatPDF] = export.NewPDFExporter(path)
	}
	return s
}

// WithLabelledRoster makes exports read names through the cached roster.
func (s *AttendanceService) WithLabelledRoster(src labelledRoster) *AttendanceService {
	s.labelled = src
	return s
}

// Toggle flips the person's mark for the slot in the current week.
//
// The delete runs first; if nothing was removed the mark is inserted with
// ON CONFLICT DO NOTHING. An insert that loses a race against a concurrent
// toggle of the same key reports attending=true and leaves the winner's mark
// in place, so any number of simultaneous first votes converge on one mark.
// A conflict never falls back to deleting: the caller asked for the mark to
// exist, and after the race it does.
func (s *AttendanceService) Toggle(ctx context.Context, req dto.ToggleVoteRequest) (*models.ToggleResult, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "userId, day and time are required and must be valid", validation.Fields(err))
	}

	key := models.MarkKey{
		PersonID: req.UserID,
		Day:      models.Day(req.Day),
		Slot:     models.Slot(req.Time),
		WeekID:   week.Current(s.clock),
	}

	removed, err := s.repo.DeleteMark(ctx, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle vote")
	}
	if removed {
		s.metrics.RecordToggle(false)
		return &models.ToggleResult{Attending: false, WeekID: key.WeekID}, nil
	}

	mark := &models.AttendanceMark{
		PersonID:  key.PersonID,
		Day:       key.Day,
		Slot:      key.Slot,
		WeekID:    key.WeekID,
		CreatedAt: s.clock.Now().UTC(),
	}
	created, err := s.repo.InsertMark(ctx, mark)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle vote")
	}
	if !created {
		s.logger.Debug("concurrent toggle resolved",
			zap.String("person_id", key.PersonID),
			zap.String("day", string(key.Day)),
			zap.String("slot", string(key.Slot)),
			zap.String("week_id", key.WeekID),
		)
	}
	s.metrics.RecordToggle(true)
	return &models.ToggleResult{Attending: true, WeekID: key.WeekID}, nil
}

// ListForWeek returns every mark of the given week in insertion order.
func (s *AttendanceService) ListForWeek(ctx context.Context, weekID string) (*models.WeekMarks, error) {
	if _, err := week.Parse(weekID); err != nil {
		return nil, appErrors.Invalid(err, "invalid week id", map[string]string{"week": "monday"})
	}
	marks, err := s.repo.ListByWeek(ctx, weekID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list votes")
	}
	return &models.WeekMarks{WeekID: weekID, Marks: marks}, nil
}

// CurrentWeek returns the marks of the clock's present week.
func (s *AttendanceService) CurrentWeek(ctx context.Context) (*models.WeekMarks, error) {
	return s.ListForWeek(ctx, week.Current(s.clock))
}

// DeleteMark removes a single mark by id.
func (s *AttendanceService) DeleteMark(ctx context.Context, id string) (*models.DeleteResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "vote id is required")
	}
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete vote")
	}
	return &models.DeleteResult{Deleted: deleted}, nil
}

// LazyPeople returns roster members without a single mark this week.
func (s *AttendanceService) LazyPeople(ctx context.Context) ([]models.Person, error) {
	weekID := week.Current(s.clock)
	people, err := s.repo.PeopleWithoutMarks(ctx, weekID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lazy users")
	}
	return people, nil
}

// Export renders the current week as one row per person and one column per
// day and slot.
func (s *AttendanceService) Export(ctx context.Context, req dto.ExportRequest) (*models.Document, error) {
	if req.Format == "" {
		req.Format = ExportFormatCSV
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "format must be csv or pdf", validation.Fields(err))
	}
	renderer := s.exporters[req.Format]

	weekID := week.Current(s.clock)
	people, err := s.rosterViews(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list people")
	}
	marks, err := s.repo.ListByWeek(ctx, weekID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list votes")
	}

	content, err := renderer.Render(weekDataset(weekID, people, marks))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &models.Document{
		Filename:    fmt.Sprintf("votes-%s.%s", weekID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// CalendarEvent renders an .ics event for the slot in the current week.
func (s *AttendanceService) CalendarEvent(ctx context.Context, req dto.CalendarRequest) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "day and time are required and must be valid", validation.Fields(err))
	}
	now := s.clock.Now()
	monday := week.Start(now)
	hour, minute, err := parseSlot(models.Slot(req.Time))
	if err != nil {
		return nil, appErrors.Invalid(err, "invalid time", map[string]string{"time": "slot"})
	}
	day := models.Day(req.Day)
	start := time.Date(monday.Year(), monday.Month(), monday.Day()+day.Offset(), hour, minute, 0, 0, monday.Location())
	weekID := monday.Format(week.Layout)
	compact := strings.ReplaceAll(req.Time, ":", "")

	content, err := s.calendar.Render(export.Event{
		UID:     fmt.Sprintf("%s-%s-%s@volley-vote", weekID, day, compact),
		Summary: s.config.EventSummary,
		Start:   start,
		End:     start.Add(s.config.EventDuration),
		Stamp:   now,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar event")
	}
	return &models.Document{
		Filename:    fmt.Sprintf("volleyball-%s-%s-%s.ics", weekID, day, compact),
		ContentType: s.calendar.ContentType(),
		Content:     content,
	}, nil
}

func (s *AttendanceService) rosterViews(ctx context.Context) ([]models.PersonView, error) {
	if s.labelled != nil {
		return s.labelled.List(ctx)
	}
	people, err := s.roster.List(ctx)
	if err != nil {
		return nil, err
	}
	return labelled(people), nil
}

func weekDataset(weekID string, people []models.PersonView, marks []models.AttendanceMark) export.Dataset {
	headers := make([]string, 0, 1+len(models.Days)*len(models.Slots))
	headers = append(headers, "Name")
	for _, d := range models.Days {
		for _, sl := range models.Slots {
			headers = append(headers, fmt.Sprintf("%s %s", d, sl))
		}
	}

	voted := make(map[models.MarkKey]bool, len(marks))
	for _, m := range marks {
		voted[m.Key()] = true
	}

	rows := make([][]string, 0, len(people))
	for _, p := range people {
		row := make([]string, 0, len(headers))
		row = append(row, p.DisplayName)
		for _, d := range models.Days {
			for _, sl := range models.Slots {
				cell := ""
				if voted[models.MarkKey{PersonID: p.ID, Day: d, Slot: sl, WeekID: weekID}] {
					cell = "x"
				}
				row = append(row, cell)
			}
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: "Votes " + weekID, Headers: headers, Rows: rows}
}

func parseSlot(slot models.Slot) (int, int, error) {
	t, err := time.Parse("15:04", string(slot))
	if err != nil {
		return 0, 0, fmt.Errorf("parse slot %q: %w", slot, err)
	}
	return t.Hour(), t.Minute(), nil
}
