package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID
	Name        string
	Description string
	StatusID    uuid.UUID
	AuthorID    uuid.UUID
	ExecutorID  uuid.NullUUID
	CreatedAt   time.Time

	// filled by list/detail queries, not stored on the tasks row
	StatusName   string
	AuthorName   string
	ExecutorName string
	Labels       []*Label
}
