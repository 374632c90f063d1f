package models

import (
	"time"

	"github.com/google/uuid"
)

type Label struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
