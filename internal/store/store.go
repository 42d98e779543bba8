// Package store persists the achievement catalog and the squad's match
// history. Two implementations exist: a JSON file store for single-box
// deployments and a SQLite store for anything that outgrows it.
package store

import (
	"context"
	"errors"

	"github.com/Starman965/mongoose-sub000/internal/achievement"
	"github.com/Starman965/mongoose-sub000/internal/match"
)

// ErrUnknownRule is returned when progress or a delete references a rule
// that is not in the catalog.
var ErrUnknownRule = errors.New("unknown rule")

// Store is the full persistence surface. The achievement tracker depends
// only on the CatalogStore subset it declares for itself; the server also
// reads match history through here.
type Store interface {
	LoadCatalog(ctx context.Context) ([]achievement.Entry, error)
	SaveRule(ctx context.Context, rule achievement.Rule) error
	SaveProgress(ctx context.Context, prog achievement.Progress) error
	DeleteRule(ctx context.Context, id string) error
	AddMatch(ctx context.Context, rec *match.Record) error
	ListMatches(ctx context.Context, limit int) ([]match.Record, error)
	Close() error
}
