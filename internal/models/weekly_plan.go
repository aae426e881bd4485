package models

import (
	"github.com/shopspring/decimal"
)

type MaterialType string

const (
	MaterialCU MaterialType = "CU"
	MaterialAL MaterialType = "AL"
)

func (m MaterialType) IsValid() bool {
	switch m {
	case MaterialCU, MaterialAL:
		return true
	}
	return false
}

// Nombre legible del material, usado en mensajes y en el reporte
func (m MaterialType) DisplayName() string {
	switch m {
	case MaterialCU:
		return "Cobre"
	case MaterialAL:
		return "Aluminio"
	default:
		return string(m)
	}
}

type DistributionType string

const (
	DistributionVacations       DistributionType = "Vacaciones"
	DistributionBankHours       DistributionType = "Banco de Horas"
	DistributionTraining        DistributionType = "Capacitación"
	DistributionGeneralServices DistributionType = "Servicios Generales"
)

// DistributionTypes lista las cuatro categorías fijas, en el orden en que se insertan.
var DistributionTypes = []DistributionType{
	DistributionVacations,
	DistributionBankHours,
	DistributionTraining,
	DistributionGeneralServices,
}

type WeeklyPlan struct {
	ID                   int             `gorm:"column:id;primaryKey;autoIncrement"`
	WeekNumber           int             `gorm:"column:week_number;index"`
	MaterialType         MaterialType    `gorm:"column:material_type;type:varchar(10)"`
	ProductivityTarget   decimal.Decimal `gorm:"column:productivity_target;type:decimal(10,2)"`
	ProductionVolume     int             `gorm:"column:production_volume"`
	HoursNeed            int             `gorm:"column:hours_need"`
	Mod                  int             `gorm:"column:mod"`
	HoursPersonAvailable int             `gorm:"column:hours_person_available"`
	ExcessPersonHours    int             `gorm:"column:excess_person_hours"`
	ExcessHoursPerPerson decimal.Decimal `gorm:"column:excess_hours_per_person;type:decimal(10,2)"`

	ExcessHoursDistribution []ExcessHoursDistribution `gorm:"foreignKey:WeeklyPlanID;constraint:OnDelete:CASCADE"`
}

type ExcessHoursDistribution struct {
	ID                  int          `gorm:"column:id;primaryKey;autoIncrement"`
	WeeklyPlanID        int          `gorm:"column:weekly_plan_id"`
	MaterialType        MaterialType `gorm:"column:material_type;type:varchar(10)"`
	TotalExcessHours    int          `gorm:"column:total_excess_hours"`
	Mod                 int          `gorm:"column:mod"`
	TotalAvailableHours int          `gorm:"column:total_available_hours"`

	HoursDistributionDetail []HoursDistributionDetail `gorm:"foreignKey:DistributionID;constraint:OnDelete:CASCADE"`
}

type HoursDistributionDetail struct {
	ID               int              `gorm:"column:id;primaryKey;autoIncrement"`
	DistributionID   int              `gorm:"column:distribution_id"`
	DistributionType DistributionType `gorm:"column:distribution_type;type:varchar(50)"`
	HoursAssigned    int              `gorm:"column:hours_assigned"`
}

// Distribution devuelve la primera distribución del plan; en la práctica la relación es 1:1.
func (p WeeklyPlan) Distribution() *ExcessHoursDistribution {
	if len(p.ExcessHoursDistribution) == 0 {
		return nil
	}
	return &p.ExcessHoursDistribution[0]
}

// HoursFor devuelve las horas asignadas a una categoría, 0 si la fila no existe.
func (d ExcessHoursDistribution) HoursFor(t DistributionType) int {
	for _, detail := range d.HoursDistributionDetail {
		if detail.DistributionType == t {
			return detail.HoursAssigned
		}
	}
	return 0
}

func (WeeklyPlan) TableName() string {
	return "weekly_plan"
}

func (ExcessHoursDistribution) TableName() string {
	return "excess_hours_distribution"
}

func (HoursDistributionDetail) TableName() string { return "hours_distribution_detail" }
