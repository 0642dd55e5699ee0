package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Known-weak defaults used on first run; operators are expected to change them.
const (
	defaultUsername = "admin"
	defaultPassword = "admin123"
)

// Credentials are the operator identity fields persisted across sessions.
// There is no schema versioning; absent fields fall back to the defaults.
type Credentials struct {
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`
	APIKey        string `json:"api_key"`
}

// Store owns the durable credential file. All writes go through the setters so
// a validation failure never leaves a partially updated file.
type Store struct {
	path  string
	creds Credentials
}

// DefaultPath returns the credential file location under the user home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".vdpcore", "credentials.json"), nil
}

// Open reads the credential file, falling back to defaults when the file or
// individual fields are absent.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		creds: Credentials{
			AdminUsername: defaultUsername,
			AdminPassword: defaultPassword,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	if creds.AdminUsername != "" {
		s.creds.AdminUsername = creds.AdminUsername
	}
	if creds.AdminPassword != "" {
		s.creds.AdminPassword = creds.AdminPassword
	}
	s.creds.APIKey = creds.APIKey

	return s, nil
}

// Credentials returns a copy of the stored identity fields.
func (s *Store) Credentials() Credentials {
	return s.creds
}

// SetUsername persists a new admin username.
func (s *Store) SetUsername(username string) error {
	prev := s.creds.AdminUsername
	s.creds.AdminUsername = username
	if err := s.save(); err != nil {
		s.creds.AdminUsername = prev
		return err
	}
	return nil
}

// SetPassword persists a new admin password.
func (s *Store) SetPassword(password string) error {
	prev := s.creds.AdminPassword
	s.creds.AdminPassword = password
	if err := s.save(); err != nil {
		s.creds.AdminPassword = prev
		return err
	}
	return nil
}

// SetAPIKey persists a new API key.
func (s *Store) SetAPIKey(key string) error {
	prev := s.creds.APIKey
	s.creds.APIKey = key
	if err := s.save(); err != nil {
		s.creds.APIKey = prev
		return err
	}
	return nil
}

func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(s.creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	// The password is stored in plaintext; restrict the file to the owner
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	return nil
}
