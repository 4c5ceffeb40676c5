package seeder

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskSeedPostalCode = "seeding.postal_code"

// SeedPostalCodePayload identifies one postal code to warm. City is carried
// for logging only.
type SeedPostalCodePayload struct {
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
}

func NewSeedPostalCodeTask(payload SeedPostalCodePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSeedPostalCode, data), nil
}

func ParseSeedPostalCodePayload(task *asynq.Task) (SeedPostalCodePayload, error) {
	var payload SeedPostalCodePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SeedPostalCodePayload{}, err
	}
	return payload, nil
}
