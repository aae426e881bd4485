package dto

import (
	"github.com/shopspring/decimal"
	"github.com/stock-ahora/api-mod-semanal/internal/models"
)

func init() {
	// los decimales viajan como números JSON, no como strings
	decimal.MarshalJSONWithoutQuotes = true
}

type MaterialData struct {
	ProductionVolume   int             `json:"productionVolume" validate:"gt=0"`
	Mod                int             `json:"mod" validate:"gt=0"`
	ProductivityTarget decimal.Decimal `json:"productivityTarget" validate:"gt=0"`
}

type WeeklyPlanDto struct {
	WeekNumber int          `json:"weekNumber"`
	CuData     MaterialData `json:"cuData"`
	AlData     MaterialData `json:"alData"`
}

// Data devuelve los datos capturados para un material.
func (r WeeklyPlanDto) Data(material models.MaterialType) MaterialData {
	if material == models.MaterialAL {
		return r.AlData
	}
	return r.CuData
}

type WeeklyPlanResponse struct {
	Success              bool `json:"success"`
	WeekNumber           int  `json:"weekNumber"`
	PlansCreated         int  `json:"plansCreated"`
	DistributionsCreated int  `json:"distributionsCreated"`
	PlansUpdated         int  `json:"plansUpdated"`
	DistributionsUpdated int  `json:"distributionsUpdated"`
}

type WeeklyPlanSummary struct {
	ID                   int                 `json:"id"`
	WeekNumber           int                 `json:"weekNumber"`
	MaterialType         models.MaterialType `json:"materialType"`
	ProductivityTarget   decimal.Decimal     `json:"productivityTarget"`
	ProductionVolume     int                 `json:"productionVolume"`
	HoursNeed            int                 `json:"hoursNeed"`
	Mod                  int                 `json:"mod"`
	HoursPersonAvailable int                 `json:"hoursPersonAvailable"`
	ExcessPersonHours    int                 `json:"excessPersonHours"`
	ExcessHoursPerPerson decimal.Decimal     `json:"excessHoursPerPerson"`
}

type DistributionDetailSummary struct {
	Type          models.DistributionType `json:"type"`
	HoursAssigned int                     `json:"hoursAssigned"`
}

type DistributionSummary struct {
	ID                  int                         `json:"id"`
	TotalExcessHours    int                         `json:"totalExcessHours"`
	Mod                 int                         `json:"mod"`
	TotalAvailableHours int                         `json:"totalAvailableHours"`
	DistributionDetails []DistributionDetailSummary `json:"distributionDetails"`
}

type WeeklyPlanWithDistribution struct {
	WeeklyPlanSummary
	Distribution *DistributionSummary `json:"distribution"`
}

type WeeklyPlanFullResponse struct {
	WeekNumber int                          `json:"weekNumber"`
	Plans      []WeeklyPlanWithDistribution `json:"plans"`
}

// Plan busca el plan de un material; nil si la semana no lo tiene.
func (r WeeklyPlanFullResponse) Plan(material models.MaterialType) *WeeklyPlanWithDistribution {
	for i := range r.Plans {
		if r.Plans[i].MaterialType == material {
			return &r.Plans[i]
		}
	}
	return nil
}

/// mapping objects

func ToWeeklyPlanSummary(p models.WeeklyPlan) WeeklyPlanSummary {
	return WeeklyPlanSummary{
		ID:                   p.ID,
		WeekNumber:           p.WeekNumber,
		MaterialType:         p.MaterialType,
		ProductivityTarget:   p.ProductivityTarget,
		ProductionVolume:     p.ProductionVolume,
		HoursNeed:            p.HoursNeed,
		Mod:                  p.Mod,
		HoursPersonAvailable: p.HoursPersonAvailable,
		ExcessPersonHours:    p.ExcessPersonHours,
		ExcessHoursPerPerson: p.ExcessHoursPerPerson,
	}
}

func ToWeeklyPlanWithDistribution(p models.WeeklyPlan) WeeklyPlanWithDistribution {
	out := WeeklyPlanWithDistribution{WeeklyPlanSummary: ToWeeklyPlanSummary(p)}

	d := p.Distribution()
	if d == nil {
		return out
	}

	details := make([]DistributionDetailSummary, 0, len(d.HoursDistributionDetail))
	for _, detail := range d.HoursDistributionDetail {
		details = append(details, DistributionDetailSummary{
			Type:          detail.DistributionType,
			HoursAssigned: detail.HoursAssigned,
		})
	}

	out.Distribution = &DistributionSummary{
		ID:                  d.ID,
		TotalExcessHours:    d.TotalExcessHours,
		Mod:                 d.Mod,
		TotalAvailableHours: d.TotalAvailableHours,
		DistributionDetails: details,
	}
	return out
}

// HoursFor devuelve las horas de una categoría del resumen, 0 si no existe.
func (d DistributionSummary) HoursFor(t models.DistributionType) int {
	for _, detail := range d.DistributionDetails {
		if detail.Type == t {
			return detail.HoursAssigned
		}
	}
	return 0
}
