package plan

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stock-ahora/api-mod-semanal/internal/dto"
	"github.com/stock-ahora/api-mod-semanal/internal/models"
	"github.com/stock-ahora/api-mod-semanal/internal/repository"
	"github.com/stock-ahora/api-mod-semanal/internal/service/calculation"
	"github.com/stock-ahora/api-mod-semanal/internal/service/eventservice"
	"github.com/stock-ahora/api-mod-semanal/internal/service/report"
	"github.com/stock-ahora/api-mod-semanal/internal/service/s3"
)

const reportTimestampLayout = "20060102150405"

type PlanService interface {
	Create(ctx context.Context, request dto.WeeklyPlanDto) (dto.WeeklyPlanResponse, error)
	Update(ctx context.Context, weekNumber int, request dto.WeeklyPlanDto) (dto.WeeklyPlanResponse, error)
	List(ctx context.Context) ([]dto.WeeklyPlanSummary, error)
	GetByWeek(ctx context.Context, weekNumber int) (dto.WeeklyPlanFullResponse, error)
	GenerateReport(ctx context.Context, weekNumber int) (ReportFile, error)
}

type ReportFile struct {
	FileName string
	Content  []byte
}

type planService struct {
	repo      repository.PlanRepository
	publisher eventservice.EventPublisher
	archiver  s3.ReportArchiver
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*planService)

// WithArchiver guarda cada reporte generado en S3.
func WithArchiver(a s3.ReportArchiver) Option {
	return func(s *planService) { s.archiver = a }
}

func WithPublisher(p eventservice.EventPublisher) Option {
	return func(s *planService) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *planService) { s.now = now }
}

func NewPlanService(repo repository.PlanRepository, logger *zap.Logger, opts ...Option) PlanService {
	s := &planService{
		repo:      repo,
		publisher: eventservice.NoopPublisher{},
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var materials = []models.MaterialType{models.MaterialCU, models.MaterialAL}

func (s *planService) Create(ctx context.Context, request dto.WeeklyPlanDto) (dto.WeeklyPlanResponse, error) {
	if err := validateRequest(request); err != nil {
		return dto.WeeklyPlanResponse{}, err
	}

	plans := make([]models.WeeklyPlan, 0, len(materials))
	for _, m := range materials {
		plans = append(plans, calculation.ComputePlan(request.WeekNumber, m, toInputs(request.Data(m))))
	}

	var distributions []models.ExcessHoursDistribution
	err := s.repo.WithinTransaction(ctx, func(tx repository.PlanRepository) error {
		if err := tx.InsertPlans(ctx, plans); err != nil {
			return err
		}

		// las distribuciones necesitan el id generado de cada plan
		distributions = make([]models.ExcessHoursDistribution, 0, len(plans))
		for _, p := range plans {
			distributions = append(distributions, calculation.ComputeDistribution(p))
		}
		return tx.InsertDistributions(ctx, distributions)
	})
	if err != nil {
		return dto.WeeklyPlanResponse{}, errors.Wrapf(err, "creando plan de la semana %d", request.WeekNumber)
	}

	s.logger.Info("Plan semanal creado",
		zap.Int("week_number", request.WeekNumber),
		zap.Int("plans", len(plans)),
		zap.Int("distributions", len(distributions)),
	)
	s.publish(ctx, eventservice.PlanCreatedTopic, request.WeekNumber, plans, distributions)

	return dto.WeeklyPlanResponse{
		Success:              true,
		WeekNumber:           request.WeekNumber,
		PlansCreated:         len(plans),
		DistributionsCreated: len(distributions),
	}, nil
}

func (s *planService) Update(ctx context.Context, weekNumber int, request dto.WeeklyPlanDto) (dto.WeeklyPlanResponse, error) {
	if weekNumber != request.WeekNumber {
		return dto.WeeklyPlanResponse{}, httperror.NewHTTPError(http.StatusBadRequest,
			"El número de semana en la ruta no coincide con el del cuerpo de la solicitud")
	}

	var updated []models.WeeklyPlan
	var distributions []models.ExcessHoursDistribution

	err := s.repo.WithinTransaction(ctx, func(tx repository.PlanRepository) error {
		existing, err := tx.FindPlansByWeek(ctx, request.WeekNumber, true)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return notFound(request.WeekNumber)
		}

		if err := validateRequest(request); err != nil {
			return err
		}

		for _, m := range materials {
			idx := findPlan(existing, m)
			if idx < 0 {
				continue
			}
			plan := &existing[idx]
			calculation.ApplyPlan(plan, toInputs(request.Data(m)))
			if err := tx.UpdatePlan(ctx, plan); err != nil {
				return err
			}
			updated = append(updated, *plan)
		}

		for i := range existing {
			plan := &existing[i]
			d := plan.Distribution()
			if d == nil {
				continue
			}
			calculation.ApplyDistribution(d, plan.ExcessPersonHours, plan.Mod)
			if err := tx.UpdateDistribution(ctx, d); err != nil {
				return err
			}
			distributions = append(distributions, *d)
		}
		return nil
	})
	if err != nil {
		if httperror.IsHTTPError(err) {
			return dto.WeeklyPlanResponse{}, err
		}
		return dto.WeeklyPlanResponse{}, errors.Wrapf(err, "actualizando plan de la semana %d", request.WeekNumber)
	}

	s.logger.Info("Plan semanal actualizado",
		zap.Int("week_number", request.WeekNumber),
		zap.Int("plans", len(updated)),
		zap.Int("distributions", len(distributions)),
	)
	s.publish(ctx, eventservice.PlanUpdatedTopic, request.WeekNumber, updated, distributions)

	// el conteo se mantiene fijo aunque solo exista uno de los dos materiales
	return dto.WeeklyPlanResponse{
		Success:              true,
		WeekNumber:           request.WeekNumber,
		PlansUpdated:         len(materials),
		DistributionsUpdated: len(materials),
	}, nil
}

func (s *planService) List(ctx context.Context) ([]dto.WeeklyPlanSummary, error) {
	plans, err := s.repo.FindAllPlans(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.WeeklyPlanSummary, 0, len(plans))
	for _, p := range plans {
		items = append(items, dto.ToWeeklyPlanSummary(p))
	}
	return items, nil
}

func (s *planService) GetByWeek(ctx context.Context, weekNumber int) (dto.WeeklyPlanFullResponse, error) {
	plans, err := s.repo.FindPlansByWeek(ctx, weekNumber, true)
	if err != nil {
		return dto.WeeklyPlanFullResponse{}, err
	}
	if len(plans) == 0 {
		return dto.WeeklyPlanFullResponse{}, notFound(weekNumber)
	}

	items := make([]dto.WeeklyPlanWithDistribution, 0, len(plans))
	for _, p := range plans {
		items = append(items, dto.ToWeeklyPlanWithDistribution(p))
	}

	return dto.WeeklyPlanFullResponse{
		WeekNumber: weekNumber,
		Plans:      items,
	}, nil
}

func (s *planService) GenerateReport(ctx context.Context, weekNumber int) (ReportFile, error) {
	full, err := s.GetByWeek(ctx, weekNumber)
	if err != nil {
		return ReportFile{}, err
	}

	generatedAt := s.now()
	f, err := report.Render(full, generatedAt)
	if err != nil {
		return ReportFile{}, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return ReportFile{}, errors.Wrap(err, "escribiendo el libro")
	}

	file := ReportFile{
		FileName: fmt.Sprintf("Reporte_Semana_%d_%s.xlsx", weekNumber, generatedAt.Format(reportTimestampLayout)),
		Content:  buf.Bytes(),
	}

	if s.archiver != nil {
		prefix := fmt.Sprintf("reports/semana-%d", weekNumber)
		url, err := s.archiver.Archive(ctx, prefix, file.FileName, file.Content)
		if err != nil {
			s.logger.Warn("No se pudo archivar el reporte", zap.Int("week_number", weekNumber), zap.Error(err))
		} else {
			s.logger.Info("Reporte archivado", zap.Int("week_number", weekNumber), zap.String("url", url))
		}
	}

	return file, nil
}

func (s *planService) publish(ctx context.Context, topic string, weekNumber int, plans []models.WeeklyPlan, distributions []models.ExcessHoursDistribution) {
	available := make(map[int]int, len(distributions))
	for _, d := range distributions {
		available[d.WeeklyPlanID] = d.TotalAvailableHours
	}

	entries := make([]eventservice.PlanEventEntry, 0, len(plans))
	for _, p := range plans {
		entries = append(entries, eventservice.PlanEventEntry{
			PlanID:              p.ID,
			MaterialType:        string(p.MaterialType),
			ExcessPersonHours:   p.ExcessPersonHours,
			TotalAvailableHours: available[p.ID],
		})
	}
	event := eventservice.WeeklyPlanEvent{WeekNumber: weekNumber, Plans: entries}

	var err error
	switch topic {
	case eventservice.PlanCreatedTopic:
		err = s.publisher.PublishPlanCreated(ctx, event)
	case eventservice.PlanUpdatedTopic:
		err = s.publisher.PublishPlanUpdated(ctx, event)
	}
	if err != nil {
		s.logger.Warn("Error al publicar el evento del plan", zap.String("topic", topic), zap.Error(err))
	}
}

func findPlan(plans []models.WeeklyPlan, material models.MaterialType) int {
	for i := range plans {
		if plans[i].MaterialType == material {
			return i
		}
	}
	return -1
}

func toInputs(d dto.MaterialData) calculation.Inputs {
	return calculation.Inputs{
		ProductionVolume:   d.ProductionVolume,
		Mod:                d.Mod,
		ProductivityTarget: d.ProductivityTarget,
	}
}

func notFound(weekNumber int) error {
	return httperror.NewHTTPErrorf(http.StatusNotFound, "No se encontraron planes para la semana %d", weekNumber)
}
