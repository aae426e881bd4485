package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stock-ahora/api-mod-semanal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// setupTestDB abre una conexión a Postgres sobre un schema aislado que se
// elimina al terminar la prueba. Sin DB_HOST la prueba se omite.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST no definido, se omite la prueba de integración")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "127.0.0.1"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "mod_semanal"),
		getEnv("DB_SSLMODE", "disable"),
	)
	schema := fmt.Sprintf("test_mod_%d", time.Now().UnixNano()%1000000)

	admin, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, admin.Exec("CREATE SCHEMA "+schema).Error)

	db, err := gorm.Open(postgres.Open(dsn+" search_path="+schema), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WeeklyPlan{}, &models.ExcessHoursDistribution{}, &models.HoursDistributionDetail{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		if sqlDB, err := admin.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedWeek(t *testing.T, repo PlanRepository, week int) []models.WeeklyPlan {
	t.Helper()
	ctx := context.Background()

	plans := []models.WeeklyPlan{
		{WeekNumber: week, MaterialType: models.MaterialCU, ProductivityTarget: decimal.NewFromInt(10), ProductionVolume: 1000, Mod: 5, HoursNeed: 100, HoursPersonAvailable: 232, ExcessPersonHours: 132, ExcessHoursPerPerson: decimal.RequireFromString("26.40")},
		{WeekNumber: week, MaterialType: models.MaterialAL, ProductivityTarget: decimal.NewFromInt(8), ProductionVolume: 400, Mod: 4, HoursNeed: 50, HoursPersonAvailable: 186, ExcessPersonHours: 136, ExcessHoursPerPerson: decimal.RequireFromString("34.00")},
	}
	require.NoError(t, repo.InsertPlans(ctx, plans))

	distributions := make([]models.ExcessHoursDistribution, 0, len(plans))
	for _, p := range plans {
		require.NotZero(t, p.ID)
		details := make([]models.HoursDistributionDetail, 0, 4)
		for _, dt := range models.DistributionTypes {
			hours := 0
			if dt == models.DistributionBankHours {
				hours = p.Mod * 13 / 2
			}
			details = append(details, models.HoursDistributionDetail{DistributionType: dt, HoursAssigned: hours})
		}
		distributions = append(distributions, models.ExcessHoursDistribution{
			WeeklyPlanID:            p.ID,
			MaterialType:            p.MaterialType,
			TotalExcessHours:        p.ExcessPersonHours,
			Mod:                     p.Mod,
			TotalAvailableHours:     p.ExcessPersonHours - p.Mod*13/2,
			HoursDistributionDetail: details,
		})
	}
	require.NoError(t, repo.InsertDistributions(ctx, distributions))
	return plans
}

func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) PlanRepository) {
	t.Run("find by week eager loads distribution and details", func(t *testing.T) {
		repo := newRepo(t)
		seeded := seedWeek(t, repo, 14)

		plans, err := repo.FindPlansByWeek(context.Background(), 14, true)
		require.NoError(t, err)
		require.Len(t, plans, 2)
		for i, p := range plans {
			assert.Equal(t, seeded[i].ID, p.ID)
			assert.True(t, seeded[i].ExcessHoursPerPerson.Equal(p.ExcessHoursPerPerson))
			require.Len(t, p.ExcessHoursDistribution, 1)
			d := p.ExcessHoursDistribution[0]
			assert.Equal(t, p.ID, d.WeeklyPlanID)
			assert.Len(t, d.HoursDistributionDetail, 4)
			assert.Equal(t, p.Mod*13/2, d.HoursFor(models.DistributionBankHours))
		}

		flat, err := repo.FindPlansByWeek(context.Background(), 14, false)
		require.NoError(t, err)
		require.Len(t, flat, 2)
		assert.Empty(t, flat[0].ExcessHoursDistribution)
	})

	t.Run("find by week without rows", func(t *testing.T) {
		repo := newRepo(t)
		plans, err := repo.FindPlansByWeek(context.Background(), 99, true)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})

	t.Run("find all orders by id descending", func(t *testing.T) {
		repo := newRepo(t)
		seedWeek(t, repo, 1)
		seedWeek(t, repo, 2)

		plans, err := repo.FindAllPlans(context.Background())
		require.NoError(t, err)
		require.Len(t, plans, 4)
		for i := 1; i < len(plans); i++ {
			assert.Greater(t, plans[i-1].ID, plans[i].ID)
		}
		assert.Equal(t, 2, plans[0].WeekNumber)
	})

	t.Run("update plan and distribution in place", func(t *testing.T) {
		repo := newRepo(t)
		seedWeek(t, repo, 20)
		ctx := context.Background()

		plans, err := repo.FindPlansByWeek(ctx, 20, true)
		require.NoError(t, err)
		plan := plans[0]
		plan.Mod = 10
		plan.ExcessPersonHours = 365
		require.NoError(t, repo.UpdatePlan(ctx, &plan))

		d := plan.ExcessHoursDistribution[0]
		d.TotalExcessHours = 365
		d.Mod = 10
		d.TotalAvailableHours = 300
		for i := range d.HoursDistributionDetail {
			if d.HoursDistributionDetail[i].DistributionType == models.DistributionBankHours {
				d.HoursDistributionDetail[i].HoursAssigned = 65
			}
		}
		require.NoError(t, repo.UpdateDistribution(ctx, &d))

		reloaded, err := repo.FindPlansByWeek(ctx, 20, true)
		require.NoError(t, err)
		require.Len(t, reloaded, 2)
		assert.Equal(t, plan.ID, reloaded[0].ID)
		assert.Equal(t, 10, reloaded[0].Mod)
		assert.Equal(t, 365, reloaded[0].ExcessPersonHours)
		rd := reloaded[0].ExcessHoursDistribution[0]
		assert.Equal(t, d.ID, rd.ID)
		assert.Equal(t, 300, rd.TotalAvailableHours)
		assert.Equal(t, 65, rd.HoursFor(models.DistributionBankHours))
		assert.Len(t, rd.HoursDistributionDetail, 4)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.WithinTransaction(ctx, func(tx PlanRepository) error {
			plans := []models.WeeklyPlan{{WeekNumber: 30, MaterialType: models.MaterialCU, Mod: 1}}
			require.NoError(t, tx.InsertPlans(ctx, plans))
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		plans, err := repo.FindPlansByWeek(ctx, 30, false)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})
}

func TestMemoryPlanRepo(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) PlanRepository {
		return NewMemoryPlanRepo()
	})
}

func TestMemoryPlanRepo_ConcurrentTransactionsKeepAllRows(t *testing.T) {
	repo := NewMemoryPlanRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.WithinTransaction(ctx, func(tx PlanRepository) error {
				plans := []models.WeeklyPlan{{WeekNumber: i + 1, MaterialType: models.MaterialCU, Mod: 1}}
				if err := tx.InsertPlans(ctx, plans); err != nil {
					return err
				}
				time.Sleep(50 * time.Millisecond)
				return nil
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	plans, err := repo.FindAllPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.NotEqual(t, plans[0].ID, plans[1].ID)

	weeks := []int{plans[0].WeekNumber, plans[1].WeekNumber}
	assert.ElementsMatch(t, []int{1, 2}, weeks)
}

func TestPlanRepository_Postgres(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) PlanRepository {
		return NewPlanRepository(setupTestDB(t))
	})
}
