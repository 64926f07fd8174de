package storage

import "nearActivity/internal/model"

// Sink receives batches of activity elements.
type Sink interface {
	PutElements(elements []model.ActivityElement) error
}
