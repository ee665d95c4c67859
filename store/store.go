// store is the data-access layer: one method per entity operation,
// calling the relational store through gorm and mapping rows to view
// models. Failures come back as tagged errors (ErrNotFound,
// ErrConflict, or a wrapped store error) so callers can branch on the
// kind instead of guessing from a nil sentinel.
//
// Every operation takes a context.Context and is cancelled
// cooperatively with it. The store itself makes no ordering guarantee
// across overlapping requests: a caller that issues two list reloads
// in quick succession must cancel the superseded one, late results of
// an uncancelled request will be delivered as usual. No operation
// retries or backs off.
package store

import (
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}
