package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola única del worker.
	QueueDefault = "default"
	// TaskInventoryRevaluation recalcula las valorizaciones en caché de todos los insumos activos.
	TaskInventoryRevaluation = "inventario:revaluacion"
)

// RevaluationPayload datos de la tarea. ItemIDs vacío significa todos los insumos activos.
type RevaluationPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	ItemIDs      []string  `json:"item_ids,omitempty"`
}

// NewRevaluationTask construye la tarea de revaluación programada para at.
func NewRevaluationTask(at time.Time, itemIDs ...string) (*asynq.Task, error) {
	body, err := json.Marshal(RevaluationPayload{ScheduledFor: at, ItemIDs: itemIDs})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryRevaluation, body, asynq.Queue(QueueDefault)), nil
}
