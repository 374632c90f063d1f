package models

import (
	"time"

	"github.com/google/uuid"
)

type Status struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
