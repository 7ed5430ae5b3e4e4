package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/roon-community/rooncore-go/pkg/connection"
)

// DefaultFileName is the credentials file name inside the config dir.
const DefaultFileName = "config.json"

// Patch is a partial update: nil fields keep their current value.
type Patch struct {
	CoreID   *string
	CoreName *string
	Token    *string
	Host     *string
	Port     *int
}

// FileStore manages persistence of connection credentials to a JSON
// file. It is safe for concurrent use.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the conventional credentials path,
// ~/.config/rooncore/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rooncore", DefaultFileName), nil
}

// Load reads the stored credentials. A missing or corrupted file yields
// an empty record, not an error.
func (s *FileStore) Load() (connection.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() (connection.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return connection.Credentials{}, nil
	}
	if err != nil {
		return connection.Credentials{}, err
	}

	var creds connection.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupted file: start over rather than wedge the caller.
		return connection.Credentials{}, nil
	}
	return creds, nil
}

// Save writes the credentials, creating the parent directory as needed.
// The file is written with 0600: it holds an authorization token.
func (s *FileStore) Save(creds connection.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(creds)
}

func (s *FileStore) save(creds connection.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Update applies a partial change to the stored record and saves it,
// returning the updated credentials.
func (s *FileStore) Update(patch Patch) (connection.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return connection.Credentials{}, err
	}

	if patch.CoreID != nil {
		creds.CoreID = *patch.CoreID
	}
	if patch.CoreName != nil {
		creds.CoreName = *patch.CoreName
	}
	if patch.Token != nil {
		creds.Token = *patch.Token
	}
	if patch.Host != nil {
		creds.Host = *patch.Host
	}
	if patch.Port != nil {
		creds.Port = *patch.Port
	}

	if err := s.save(creds); err != nil {
		return connection.Credentials{}, err
	}
	return creds, nil
}

// Clear removes the credentials file. Clearing an absent file is not an
// error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Compile-time interface satisfaction check.
var _ connection.CredentialStore = (*FileStore)(nil)
