package models

import (
	"time"
)

// Record is a row of the local media cache.
type Record interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time // last time the record was written or played
	Validate() error
}

// Repository is the CRUD surface shared by cache stores.
//
// List criteria are store-specific; unknown keys are ignored.
type Repository[T Record] interface {
	Create(record T) error
	Get(id string) (T, error)
	Update(record T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
