package eventservice

import (
	"time"
)

type BaseEvent struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Version       string            `json:"version"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Source        string            `json:"source,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
}

// ---- Plan semanal creado / actualizado ----
type WeeklyPlanEvent struct {
	BaseEvent
	WeekNumber int              `json:"week_number"`
	Plans      []PlanEventEntry `json:"plans"`
}

type PlanEventEntry struct {
	PlanID              int    `json:"id"`
	MaterialType        string `json:"material_type"`
	ExcessPersonHours   int    `json:"excess_person_hours"`
	TotalAvailableHours int    `json:"total_available_hours"`
}
