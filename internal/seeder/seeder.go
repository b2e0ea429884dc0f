// Package seeder fills a store with the demo data the login page advertises.
// Every seeder is keyed on natural identifiers so repeated runs are no-ops.
package seeder

import (
	"context"

	"campus-recruit/internal/repository"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, store repository.Store) error
}
