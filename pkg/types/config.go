package types

import "errors"

// Supported local-tier backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the connection and backend parameters for one session.
type Config struct {
	// ProjectID is the Firestore project. Empty disables the remote
	// tier entirely; the session starts local-only.
	ProjectID string `json:"project_id" yaml:"project_id"`

	// CredentialsFile is the path to a service-account credential
	// file. A missing or unreadable file forces local-only operation;
	// it is never a fatal error.
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`

	// LocalBackend selects the local-tier implementation. Defaults to
	// memory; sqlite keeps local records across process restarts.
	LocalBackend string `json:"local_backend" yaml:"local_backend"`

	// DataDir holds the sqlite database when LocalBackend is sqlite.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Config validation errors.
var (
	ErrBackendUnknown = errors.New("unknown local backend")
	ErrDataDirEmpty   = errors.New("data_dir required for sqlite backend")
)

// knownBackends lists the local backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. An empty LocalBackend
// is normalized to memory.
func (c *Config) Validate() error {
	if c.LocalBackend == "" {
		c.LocalBackend = BackendMemory
	}
	if !knownBackends[c.LocalBackend] {
		return ErrBackendUnknown
	}
	if c.LocalBackend == BackendSQLite && c.DataDir == "" {
		return ErrDataDirEmpty
	}
	return nil
}
