package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/stock-ahora/api-mod-semanal/internal/models"
)

// memoryPlanRepo guarda los planes en memoria. Lo usan las pruebas y el modo
// local sin base de datos.
type memoryPlanRepo struct {
	// txMu serializa las escrituras: una transacción lo retiene hasta publicar
	// su copia del estado.
	txMu  sync.Mutex
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	plans         []models.WeeklyPlan
	distributions []models.ExcessHoursDistribution
	nextPlanID    int
	nextDistID    int
	nextDetailID  int
}

func NewMemoryPlanRepo() PlanRepository {
	return &memoryPlanRepo{state: &memoryState{nextPlanID: 1, nextDistID: 1, nextDetailID: 1}}
}

func (m *memoryPlanRepo) InsertPlans(_ context.Context, plans []models.WeeklyPlan) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range plans {
		plans[i].ID = m.state.nextPlanID
		m.state.nextPlanID++
		stored := plans[i]
		stored.ExcessHoursDistribution = nil
		m.state.plans = append(m.state.plans, stored)
	}
	return nil
}

func (m *memoryPlanRepo) InsertDistributions(_ context.Context, distributions []models.ExcessHoursDistribution) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range distributions {
		d := &distributions[i]
		d.ID = m.state.nextDistID
		m.state.nextDistID++
		for j := range d.HoursDistributionDetail {
			d.HoursDistributionDetail[j].ID = m.state.nextDetailID
			d.HoursDistributionDetail[j].DistributionID = d.ID
			m.state.nextDetailID++
		}
		m.state.distributions = append(m.state.distributions, cloneDistribution(*d))
	}
	return nil
}

func (m *memoryPlanRepo) FindPlansByWeek(_ context.Context, weekNumber int, includeDistribution bool) ([]models.WeeklyPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.WeeklyPlan, 0)
	for _, p := range m.state.plans {
		if p.WeekNumber != weekNumber {
			continue
		}
		if includeDistribution {
			for _, d := range m.state.distributions {
				if d.WeeklyPlanID == p.ID {
					p.ExcessHoursDistribution = append(p.ExcessHoursDistribution, cloneDistribution(d))
				}
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryPlanRepo) FindAllPlans(_ context.Context) ([]models.WeeklyPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.WeeklyPlan, len(m.state.plans))
	copy(out, m.state.plans)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryPlanRepo) UpdatePlan(_ context.Context, plan *models.WeeklyPlan) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.plans {
		if m.state.plans[i].ID == plan.ID {
			stored := *plan
			stored.ExcessHoursDistribution = nil
			m.state.plans[i] = stored
			return nil
		}
	}
	return ErrRecordNotFound
}

func (m *memoryPlanRepo) UpdateDistribution(_ context.Context, distribution *models.ExcessHoursDistribution) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.distributions {
		stored := &m.state.distributions[i]
		if stored.ID != distribution.ID {
			continue
		}
		stored.TotalExcessHours = distribution.TotalExcessHours
		stored.Mod = distribution.Mod
		stored.TotalAvailableHours = distribution.TotalAvailableHours
		stored.MaterialType = distribution.MaterialType
		for _, detail := range distribution.HoursDistributionDetail {
			for j := range stored.HoursDistributionDetail {
				if stored.HoursDistributionDetail[j].ID == detail.ID {
					stored.HoursDistributionDetail[j].HoursAssigned = detail.HoursAssigned
				}
			}
		}
		return nil
	}
	return ErrRecordNotFound
}

// WithinTransaction trabaja sobre una copia del estado y solo la publica si fn
// no devuelve error. Las transacciones se ejecutan de a una.
func (m *memoryPlanRepo) WithinTransaction(ctx context.Context, fn func(repo PlanRepository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	tx := &memoryPlanRepo{state: m.state.clone()}
	m.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = tx.state
	m.mu.Unlock()
	return nil
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		plans:         make([]models.WeeklyPlan, len(s.plans)),
		distributions: make([]models.ExcessHoursDistribution, 0, len(s.distributions)),
		nextPlanID:    s.nextPlanID,
		nextDistID:    s.nextDistID,
		nextDetailID:  s.nextDetailID,
	}
	copy(c.plans, s.plans)
	for _, d := range s.distributions {
		c.distributions = append(c.distributions, cloneDistribution(d))
	}
	return c
}

func cloneDistribution(d models.ExcessHoursDistribution) models.ExcessHoursDistribution {
	details := make([]models.HoursDistributionDetail, len(d.HoursDistributionDetail))
	copy(details, d.HoursDistributionDetail)
	d.HoursDistributionDetail = details
	return d
}
