package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store persists the profile and resources documents as JSON files. A single
// mutex serializes every read-merge-write so concurrent chat requests cannot
// interleave partial updates on the shared record.
type Store struct {
	profilePath   string
	resourcesPath string
	logger        *slog.Logger

	mu sync.Mutex
}

func NewStore(profilePath, resourcesPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, p := range []string{profilePath, resourcesPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &Store{
		profilePath:   profilePath,
		resourcesPath: resourcesPath,
		logger:        logger,
	}, nil
}

// Get returns the current profile, synthesizing (and persisting) the default
// one on first access. Read errors degrade to the default profile.
func (s *Store) Get() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Update merges patch into the stored profile and persists the result.
func (s *Store) Update(patch Patch) (Profile, error) {
	return s.updateAt(patch, time.Now())
}

func (s *Store) updateAt(patch Patch, now time.Time) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.loadLocked()
	merged := Merge(current, patch, now)
	if err := s.writeLocked(s.profilePath, merged); err != nil {
		return current, fmt.Errorf("persist profile: %w", err)
	}
	return merged, nil
}

// RecordConcern adds a concern tag to the stored profile. Failures are
// logged, not returned: concern tagging is best-effort bookkeeping on the
// chat path.
func (s *Store) RecordConcern(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.loadLocked()
	tagged := AddConcern(current, tag)
	if len(tagged.IdentifiedConcerns) == len(current.IdentifiedConcerns) {
		return
	}
	if err := s.writeLocked(s.profilePath, tagged); err != nil {
		s.logger.Error("failed to record concern", "tag", tag, "error", err)
	}
}

// Resources returns the categorized resource lists, seeding the default
// document when none exists yet. Never returns an empty structure.
func (s *Store) Resources() Resources {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.resourcesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to read resources", "error", err)
			return DefaultResources()
		}
		defaults := DefaultResources()
		if err := s.writeLocked(s.resourcesPath, defaults); err != nil {
			s.logger.Error("failed to seed resources", "error", err)
		}
		return defaults
	}

	var res Resources
	if err := json.Unmarshal(data, &res); err != nil {
		s.logger.Error("failed to decode resources", "error", err)
		return DefaultResources()
	}
	if len(res.Crisis) == 0 && len(res.SelfHelp) == 0 && len(res.Professional) == 0 {
		return DefaultResources()
	}
	return res
}

func (s *Store) loadLocked() Profile {
	data, err := os.ReadFile(s.profilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to read profile", "error", err)
			return DefaultProfile()
		}
		defaults := DefaultProfile()
		if err := s.writeLocked(s.profilePath, defaults); err != nil {
			s.logger.Error("failed to seed profile", "error", err)
		}
		return defaults
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Error("failed to decode profile", "error", err)
		return DefaultProfile()
	}
	if p.ConversationHistory == nil {
		p.ConversationHistory = []ConversationTurn{}
	}
	if p.IdentifiedConcerns == nil {
		p.IdentifiedConcerns = []string{}
	}
	if p.RecommendedResources == nil {
		p.RecommendedResources = []string{}
	}
	return p
}

func (s *Store) writeLocked(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
