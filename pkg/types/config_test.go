package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     error
		wantBackend string
	}{
		{
			name:        "empty backend normalized to memory",
			config:      Config{},
			wantBackend: BackendMemory,
		},
		{
			name:        "memory backend accepted",
			config:      Config{LocalBackend: BackendMemory},
			wantBackend: BackendMemory,
		},
		{
			name:        "sqlite backend with data dir accepted",
			config:      Config{LocalBackend: BackendSQLite, DataDir: "/tmp/organza"},
			wantBackend: BackendSQLite,
		},
		{
			name:    "sqlite backend without data dir rejected",
			config:  Config{LocalBackend: BackendSQLite},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "unknown backend rejected",
			config:  Config{LocalBackend: "redis"},
			wantErr: ErrBackendUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantBackend, tt.config.LocalBackend)
		})
	}
}
