package local

import (
	"github.com/viniciusgf/organza/pkg/types"
)

// New creates the local store selected by cfg.LocalBackend. The config
// must already be validated.
func New(cfg types.Config) (types.RecordStore, error) {
	switch cfg.LocalBackend {
	case types.BackendSQLite:
		return NewSQLite(cfg.DataDir)
	default:
		return NewMemory(), nil
	}
}
