// Package calculation contiene las fórmulas del plan semanal de MOD y de la
// distribución del excedente de horas. Todas las funciones son puras.
package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/stock-ahora/api-mod-semanal/internal/models"
)

var (
	// horas disponibles por persona a la semana
	HoursPerPerson = decimal.RequireFromString("46.5")
	// asignación al banco de horas por persona
	BankHoursPerPerson = decimal.RequireFromString("6.5")
)

const (
	excessPerPersonPlaces = 2
	divisionPrecision     = 16
)

// Inputs son los tres valores capturados por material. Se asume que el llamador
// ya validó que todos son mayores a cero.
type Inputs struct {
	ProductionVolume   int
	Mod                int
	ProductivityTarget decimal.Decimal
}

type PlanFields struct {
	HoursNeed            int
	HoursPersonAvailable int
	ExcessPersonHours    int
	ExcessHoursPerPerson decimal.Decimal
}

type DistributionFields struct {
	BankHours            int
	VacationHours        int
	TrainingHours        int
	GeneralServicesHours int
	TotalAvailableHours  int
}

// ComputePlanFields aplica las cuatro fórmulas del plan.
// hoursNeed y hoursPersonAvailable se truncan hacia cero; excessHoursPerPerson
// se redondea a 2 decimales con redondeo bancario (mitad al par).
func ComputePlanFields(in Inputs) PlanFields {
	volume := decimal.NewFromInt(int64(in.ProductionVolume))
	mod := decimal.NewFromInt(int64(in.Mod))

	quotient, _ := volume.QuoRem(in.ProductivityTarget, 0)
	hoursNeed := int(quotient.IntPart())
	hoursAvailable := int(mod.Mul(HoursPerPerson).IntPart())
	excess := hoursAvailable - hoursNeed

	perPerson := decimal.NewFromInt(int64(excess)).
		DivRound(mod, divisionPrecision).
		RoundBank(excessPerPersonPlaces)

	return PlanFields{
		HoursNeed:            hoursNeed,
		HoursPersonAvailable: hoursAvailable,
		ExcessPersonHours:    excess,
		ExcessHoursPerPerson: perPerson,
	}
}

// ComputeDistributionFields reparte el excedente entre las categorías fijas.
// Solo el banco de horas depende de la entrada; el resto es política actual (0).
func ComputeDistributionFields(totalExcessHours, mod int) DistributionFields {
	f := DistributionFields{
		BankHours:            int(decimal.NewFromInt(int64(mod)).Mul(BankHoursPerPerson).IntPart()),
		VacationHours:        0,
		TrainingHours:        0,
		GeneralServicesHours: 0,
	}
	f.TotalAvailableHours = totalExcessHours - (f.BankHours + f.VacationHours + f.TrainingHours + f.GeneralServicesHours)
	return f
}

// HoursFor devuelve las horas de una categoría.
func (f DistributionFields) HoursFor(t models.DistributionType) int {
	switch t {
	case models.DistributionBankHours:
		return f.BankHours
	case models.DistributionVacations:
		return f.VacationHours
	case models.DistributionTraining:
		return f.TrainingHours
	case models.DistributionGeneralServices:
		return f.GeneralServicesHours
	}
	return 0
}

// ComputePlan arma una fila nueva de WeeklyPlan (sin id).
func ComputePlan(weekNumber int, material models.MaterialType, in Inputs) models.WeeklyPlan {
	plan := models.WeeklyPlan{
		WeekNumber:   weekNumber,
		MaterialType: material,
	}
	ApplyPlan(&plan, in)
	return plan
}

// ApplyPlan sobrescribe las entradas del plan y recalcula los derivados en sitio.
func ApplyPlan(plan *models.WeeklyPlan, in Inputs) {
	f := ComputePlanFields(in)
	plan.ProductivityTarget = in.ProductivityTarget
	plan.ProductionVolume = in.ProductionVolume
	plan.Mod = in.Mod
	plan.HoursNeed = f.HoursNeed
	plan.HoursPersonAvailable = f.HoursPersonAvailable
	plan.ExcessPersonHours = f.ExcessPersonHours
	plan.ExcessHoursPerPerson = f.ExcessHoursPerPerson
}

// ComputeDistribution arma la distribución de un plan ya persistido junto con
// sus cuatro filas de detalle.
func ComputeDistribution(plan models.WeeklyPlan) models.ExcessHoursDistribution {
	f := ComputeDistributionFields(plan.ExcessPersonHours, plan.Mod)

	details := make([]models.HoursDistributionDetail, 0, len(models.DistributionTypes))
	for _, t := range models.DistributionTypes {
		details = append(details, models.HoursDistributionDetail{
			DistributionType: t,
			HoursAssigned:    f.HoursFor(t),
		})
	}

	return models.ExcessHoursDistribution{
		WeeklyPlanID:            plan.ID,
		MaterialType:            plan.MaterialType,
		TotalExcessHours:        plan.ExcessPersonHours,
		Mod:                     plan.Mod,
		TotalAvailableHours:     f.TotalAvailableHours,
		HoursDistributionDetail: details,
	}
}

// ApplyDistribution recalcula una distribución existente y reescribe las horas
// de sus filas de detalle por tipo. Las filas nunca se recrean.
func ApplyDistribution(d *models.ExcessHoursDistribution, totalExcessHours, mod int) {
	f := ComputeDistributionFields(totalExcessHours, mod)

	d.TotalExcessHours = totalExcessHours
	d.Mod = mod
	d.TotalAvailableHours = f.TotalAvailableHours

	for i := range d.HoursDistributionDetail {
		detail := &d.HoursDistributionDetail[i]
		switch detail.DistributionType {
		case models.DistributionBankHours, models.DistributionVacations,
			models.DistributionTraining, models.DistributionGeneralServices:
			detail.HoursAssigned = f.HoursFor(detail.DistributionType)
		}
	}
}
