package service

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/smartenergy/metering/internal/repository"
)

// Services aggregates the entity repositories behind one handle. It owns no
// state beyond the injected connection pool.
type Services struct {
	Repos    *repository.Repos
	Readings *ReadingService
	Reports  *ReportService
}

func New(db *sqlx.DB) *Services {
	repos := repository.New(db)
	return &Services{
		Repos:    repos,
		Readings: &ReadingService{repos: repos},
	}
}

type ReadingService struct {
	repos *repository.Repos
}

// FromMQTT ingests a reading payload published by field devices. The payload
// carries the same natural keys as the REST surface and goes through the same
// resolve-then-insert path.
func (s *ReadingService) FromMQTT(topic string, payload []byte) error {
	var r struct {
		Value       float64 `json:"value"`
		ReadingDate string  `json:"reading_date"`
		MeterSerial string  `json:"meter_serial_number"`
		Email       string  `json:"email"`
	}
	if err := json.Unmarshal(payload, &r); err != nil {
		return err
	}
	return s.repos.CreateReading(context.Background(), r.Value, r.ReadingDate, r.MeterSerial, r.Email)
}
