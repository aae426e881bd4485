package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stock-ahora/api-mod-semanal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePlanFields(t *testing.T) {
	tests := []struct {
		name           string
		in             Inputs
		hoursNeed      int
		hoursAvailable int
		excess         int
		perPerson      string
	}{
		{
			name:           "reference week",
			in:             Inputs{ProductionVolume: 1000, Mod: 5, ProductivityTarget: decimal.NewFromInt(10)},
			hoursNeed:      100,
			hoursAvailable: 232,
			excess:         132,
			perPerson:      "26.40",
		},
		{
			name:           "hours need truncates instead of rounding",
			in:             Inputs{ProductionVolume: 1000, Mod: 10, ProductivityTarget: decimal.RequireFromString("3")},
			hoursNeed:      333,
			hoursAvailable: 465,
			excess:         132,
			perPerson:      "13.20",
		},
		{
			name:           "fractional productivity target",
			in:             Inputs{ProductionVolume: 999, Mod: 3, ProductivityTarget: decimal.RequireFromString("2.5")},
			hoursNeed:      399,
			hoursAvailable: 139,
			excess:         -260,
			perPerson:      "-86.67",
		},
		{
			name:           "odd mod truncates available hours",
			in:             Inputs{ProductionVolume: 10, Mod: 1, ProductivityTarget: decimal.NewFromInt(1)},
			hoursNeed:      10,
			hoursAvailable: 46,
			excess:         36,
			perPerson:      "36.00",
		},
		{
			name:           "demand above availability yields negative excess",
			in:             Inputs{ProductionVolume: 5000, Mod: 2, ProductivityTarget: decimal.NewFromInt(10)},
			hoursNeed:      500,
			hoursAvailable: 93,
			excess:         -407,
			perPerson:      "-203.50",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := ComputePlanFields(test.in)
			assert.Equal(t, test.hoursNeed, f.HoursNeed)
			assert.Equal(t, test.hoursAvailable, f.HoursPersonAvailable)
			assert.Equal(t, test.excess, f.ExcessPersonHours)
			assert.Equal(t, test.perPerson, f.ExcessHoursPerPerson.StringFixed(2))
		})
	}
}

func TestComputePlanFields_BankersRounding(t *testing.T) {
	// 8 personas: 372 horas disponibles
	// hoursNeed 371 -> 1/8 = 0.125 -> 0.12 (mitad al par)
	f := ComputePlanFields(Inputs{ProductionVolume: 371, Mod: 8, ProductivityTarget: decimal.NewFromInt(1)})
	assert.Equal(t, 1, f.ExcessPersonHours)
	assert.Equal(t, "0.12", f.ExcessHoursPerPerson.StringFixed(2))

	// hoursNeed 369 -> 3/8 = 0.375 -> 0.38
	f = ComputePlanFields(Inputs{ProductionVolume: 369, Mod: 8, ProductivityTarget: decimal.NewFromInt(1)})
	assert.Equal(t, 3, f.ExcessPersonHours)
	assert.Equal(t, "0.38", f.ExcessHoursPerPerson.StringFixed(2))
}

func TestComputePlanFields_Identities(t *testing.T) {
	targets := []string{"0.5", "1", "3.33", "7.25", "12.75", "100"}
	for volume := 1; volume <= 5000; volume += 367 {
		for mod := 1; mod <= 40; mod += 7 {
			for _, target := range targets {
				in := Inputs{ProductionVolume: volume, Mod: mod, ProductivityTarget: decimal.RequireFromString(target)}
				f := ComputePlanFields(in)

				expectedNeed := decimal.NewFromInt(int64(volume)).Div(in.ProductivityTarget).Floor().IntPart()
				assert.Equal(t, int(expectedNeed), f.HoursNeed, "volume=%d target=%s", volume, target)
				assert.Equal(t, mod*93/2, f.HoursPersonAvailable, "mod=%d", mod)
				assert.Equal(t, f.HoursPersonAvailable-f.HoursNeed, f.ExcessPersonHours)
			}
		}
	}
}

func TestComputeDistributionFields(t *testing.T) {
	tests := []struct {
		name      string
		excess    int
		mod       int
		bank      int
		available int
	}{
		{name: "reference week", excess: 132, mod: 5, bank: 32, available: 100},
		{name: "even mod", excess: 200, mod: 4, bank: 26, available: 174},
		{name: "negative excess", excess: -407, mod: 2, bank: 13, available: -420},
		{name: "single person", excess: 0, mod: 1, bank: 6, available: -6},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := ComputeDistributionFields(test.excess, test.mod)
			assert.Equal(t, test.bank, f.BankHours)
			assert.Zero(t, f.VacationHours)
			assert.Zero(t, f.TrainingHours)
			assert.Zero(t, f.GeneralServicesHours)
			assert.Equal(t, test.available, f.TotalAvailableHours)
		})
	}
}

func TestComputeDistribution_EmitsFourCategories(t *testing.T) {
	plan := ComputePlan(12, models.MaterialCU, Inputs{ProductionVolume: 1000, Mod: 5, ProductivityTarget: decimal.NewFromInt(10)})
	plan.ID = 41

	d := ComputeDistribution(plan)
	assert.Equal(t, 41, d.WeeklyPlanID)
	assert.Equal(t, models.MaterialCU, d.MaterialType)
	assert.Equal(t, 132, d.TotalExcessHours)
	assert.Equal(t, 5, d.Mod)
	assert.Equal(t, 100, d.TotalAvailableHours)

	require.Len(t, d.HoursDistributionDetail, 4)
	seen := map[models.DistributionType]int{}
	for _, detail := range d.HoursDistributionDetail {
		seen[detail.DistributionType] = detail.HoursAssigned
	}
	assert.Equal(t, map[models.DistributionType]int{
		models.DistributionVacations:       0,
		models.DistributionBankHours:       32,
		models.DistributionTraining:        0,
		models.DistributionGeneralServices: 0,
	}, seen)
}

func TestApplyPlan_KeepsIdentity(t *testing.T) {
	plan := ComputePlan(3, models.MaterialAL, Inputs{ProductionVolume: 1000, Mod: 5, ProductivityTarget: decimal.NewFromInt(10)})
	plan.ID = 7

	ApplyPlan(&plan, Inputs{ProductionVolume: 400, Mod: 4, ProductivityTarget: decimal.NewFromInt(8)})

	assert.Equal(t, 7, plan.ID)
	assert.Equal(t, 3, plan.WeekNumber)
	assert.Equal(t, models.MaterialAL, plan.MaterialType)
	assert.Equal(t, 50, plan.HoursNeed)
	assert.Equal(t, 186, plan.HoursPersonAvailable)
	assert.Equal(t, 136, plan.ExcessPersonHours)
	assert.Equal(t, "34.00", plan.ExcessHoursPerPerson.StringFixed(2))
}

func TestApplyDistribution_RewritesDetailsByType(t *testing.T) {
	d := models.ExcessHoursDistribution{
		ID:           9,
		WeeklyPlanID: 7,
		HoursDistributionDetail: []models.HoursDistributionDetail{
			{ID: 1, DistributionType: models.DistributionGeneralServices, HoursAssigned: 4},
			{ID: 2, DistributionType: models.DistributionBankHours, HoursAssigned: 1},
			{ID: 3, DistributionType: "Otro", HoursAssigned: 5},
			{ID: 4, DistributionType: models.DistributionVacations, HoursAssigned: 2},
			{ID: 5, DistributionType: models.DistributionTraining, HoursAssigned: 3},
		},
	}

	ApplyDistribution(&d, 136, 4)

	assert.Equal(t, 136, d.TotalExcessHours)
	assert.Equal(t, 4, d.Mod)
	assert.Equal(t, 110, d.TotalAvailableHours)
	assert.Equal(t, 0, d.HoursFor(models.DistributionGeneralServices))
	assert.Equal(t, 26, d.HoursFor(models.DistributionBankHours))
	assert.Equal(t, 0, d.HoursFor(models.DistributionVacations))
	assert.Equal(t, 0, d.HoursFor(models.DistributionTraining))
	// categorías desconocidas no se tocan
	assert.Equal(t, 5, d.HoursFor("Otro"))
	assert.Len(t, d.HoursDistributionDetail, 5)
}
