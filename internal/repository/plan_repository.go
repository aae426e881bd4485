package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stock-ahora/api-mod-semanal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository interface {
	// InsertPlans inserta los planes en un solo lote y les asigna su id.
	InsertPlans(ctx context.Context, plans []models.WeeklyPlan) error
	// InsertDistributions inserta las distribuciones junto con sus filas de detalle.
	InsertDistributions(ctx context.Context, distributions []models.ExcessHoursDistribution) error
	FindPlansByWeek(ctx context.Context, weekNumber int, includeDistribution bool) ([]models.WeeklyPlan, error)
	FindAllPlans(ctx context.Context) ([]models.WeeklyPlan, error)
	UpdatePlan(ctx context.Context, plan *models.WeeklyPlan) error
	// UpdateDistribution actualiza la distribución y las horas de sus detalles existentes.
	UpdateDistribution(ctx context.Context, distribution *models.ExcessHoursDistribution) error
	// WithinTransaction ejecuta fn con un repositorio atado a una sola transacción.
	WithinTransaction(ctx context.Context, fn func(repo PlanRepository) error) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) InsertPlans(ctx context.Context, plans []models.WeeklyPlan) error {
	if len(plans) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&plans).Error; err != nil {
		return errors.Wrap(err, "insertando planes semanales")
	}
	return nil
}

func (r *planRepository) InsertDistributions(ctx context.Context, distributions []models.ExcessHoursDistribution) error {
	if len(distributions) == 0 {
		return nil
	}
	// gorm crea las filas de HoursDistributionDetail como asociación has-many
	if err := r.db.WithContext(ctx).Create(&distributions).Error; err != nil {
		return errors.Wrap(err, "insertando distribuciones de horas")
	}
	return nil
}

func (r *planRepository) FindPlansByWeek(ctx context.Context, weekNumber int, includeDistribution bool) ([]models.WeeklyPlan, error) {
	query := r.db.WithContext(ctx).
		Where("week_number = ?", weekNumber).
		Order("id ASC")

	if includeDistribution {
		query = query.
			Preload("ExcessHoursDistribution", func(db *gorm.DB) *gorm.DB {
				return db.Order("id ASC")
			}).
			Preload("ExcessHoursDistribution.HoursDistributionDetail", func(db *gorm.DB) *gorm.DB {
				return db.Order("id ASC")
			})
	}

	var plans []models.WeeklyPlan
	if err := query.Find(&plans).Error; err != nil {
		return nil, errors.Wrapf(err, "buscando planes de la semana %d", weekNumber)
	}
	return plans, nil
}

func (r *planRepository) FindAllPlans(ctx context.Context) ([]models.WeeklyPlan, error) {
	var plans []models.WeeklyPlan
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&plans).Error; err != nil {
		return nil, errors.Wrap(err, "listando planes semanales")
	}
	return plans, nil
}

func (r *planRepository) UpdatePlan(ctx context.Context, plan *models.WeeklyPlan) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(plan).Error; err != nil {
		return errors.Wrapf(err, "actualizando plan %d", plan.ID)
	}
	return nil
}

func (r *planRepository) UpdateDistribution(ctx context.Context, distribution *models.ExcessHoursDistribution) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(distribution).Error; err != nil {
		return errors.Wrapf(err, "actualizando distribución %d", distribution.ID)
	}

	for i := range distribution.HoursDistributionDetail {
		detail := &distribution.HoursDistributionDetail[i]
		err := db.Model(detail).
			Update("hours_assigned", detail.HoursAssigned).Error
		if err != nil {
			return errors.Wrapf(err, "actualizando detalle %d", detail.ID)
		}
	}
	return nil
}

func (r *planRepository) WithinTransaction(ctx context.Context, fn func(repo PlanRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&planRepository{db: tx})
	})
}
