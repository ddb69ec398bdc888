package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// MaxRecent is the number of recently browsed roots kept in user data
const MaxRecent = 20

// UserData holds user-specific settings that are stored locally. Storage
// backs the key/value store the terminal host offers in place of browser
// local storage.
type UserData struct {
	LastRoot  string            `json:"last_root"`
	Recent    []string          `json:"recent"`
	Storage   map[string]string `json:"storage"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	mu   sync.Mutex
	path string
}

// LoadUserData loads user data from ~/.fpick/user.data
func LoadUserData() (*UserData, error) {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(""), nil
	}
	return LoadUserDataFile(userDataPath)
}

// LoadUserDataFile loads user data from an explicit path. A missing or
// unreadable file yields defaults bound to that path.
func LoadUserDataFile(path string) (*UserData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return createDefaultUserData(path), nil
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		// Invalid JSON, return default
		return createDefaultUserData(path), nil
	}
	if userData.Storage == nil {
		userData.Storage = map[string]string{}
	}
	userData.path = path

	return &userData, nil
}

// SaveUserData saves user data to the file it was loaded from
func (ud *UserData) SaveUserData() error {
	ud.mu.Lock()
	defer ud.mu.Unlock()
	return ud.save()
}

func (ud *UserData) save() error {
	if ud.path == "" {
		userDataPath, err := getUserDataPath()
		if err != nil {
			return err
		}
		ud.path = userDataPath
	}

	// Update timestamp
	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(ud.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(ud.path, data, 0600)
}

// SetLastRoot records root as the last browsed root, moves it to the front
// of the recent list and saves to file
func (ud *UserData) SetLastRoot(root string) error {
	ud.mu.Lock()
	defer ud.mu.Unlock()

	ud.LastRoot = root
	if idx := slices.Index(ud.Recent, root); idx >= 0 {
		ud.Recent = slices.Delete(ud.Recent, idx, idx+1)
	}
	ud.Recent = append([]string{root}, ud.Recent...)
	if len(ud.Recent) > MaxRecent {
		ud.Recent = ud.Recent[:MaxRecent]
	}
	return ud.save()
}

// GetItem returns a stored value and whether it was present
func (ud *UserData) GetItem(key string) (string, bool) {
	ud.mu.Lock()
	defer ud.mu.Unlock()
	v, ok := ud.Storage[key]
	return v, ok
}

// SetItem stores a value and saves to file
func (ud *UserData) SetItem(key, value string) error {
	ud.mu.Lock()
	defer ud.mu.Unlock()
	ud.Storage[key] = value
	return ud.save()
}

// RemoveItem deletes a stored value and saves to file
func (ud *UserData) RemoveItem(key string) error {
	ud.mu.Lock()
	defer ud.mu.Unlock()
	if _, ok := ud.Storage[key]; !ok {
		return nil
	}
	delete(ud.Storage, key)
	return ud.save()
}

// createDefaultUserData creates a new UserData with default values
func createDefaultUserData(path string) *UserData {
	now := time.Now()
	return &UserData{
		Storage:   map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
		path:      path,
	}
}

// getUserDataPath returns the path to the user.data file
func getUserDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// Use the same directory as config file
	return filepath.Join(homeDir, ".fpick", "user.data"), nil
}
