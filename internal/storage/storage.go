// Package storage provides storage operations for the Ascendry secrets engine.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/vault/sdk/logical"

	"github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/internal/model"
)

const (
	// ConfigKey is the storage key of the engine configuration.
	ConfigKey = "config"
	// submissionPrefix is the storage prefix for relayed transaction records.
	submissionPrefix = "submissions/"
)

// Storage provides storage operations for engine state.
type Storage struct {
	storage logical.Storage
}

// New creates a new Storage instance.
func New(s logical.Storage) *Storage {
	return &Storage{storage: s}
}

// SaveConfig stores the configuration with SealWrap enabled.
func (s *Storage) SaveConfig(ctx context.Context, cfg *model.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	entry := &logical.StorageEntry{
		Key:      ConfigKey,
		Value:    data,
		SealWrap: true,
	}
	if err := s.storage.Put(ctx, entry); err != nil {
		return fmt.Errorf("failed to store config: %w", err)
	}
	return nil
}

// GetConfig retrieves the configuration.
// Returns nil if the engine has not been configured.
func (s *Storage) GetConfig(ctx context.Context) (*model.Config, error) {
	entry, err := s.storage.Get(ctx, ConfigKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if entry == nil {
		return nil, nil
	}

	var cfg model.Config
	if err := json.Unmarshal(entry.Value, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// DeleteConfig removes the configuration.
func (s *Storage) DeleteConfig(ctx context.Context) error {
	if err := s.storage.Delete(ctx, ConfigKey); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	return nil
}

// SaveSubmission records a relayed transaction keyed by its signature.
func (s *Storage) SaveSubmission(ctx context.Context, sub *model.Submission) error {
	if sub.Signature == "" {
		return fmt.Errorf("submission signature is required")
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	entry := &logical.StorageEntry{
		Key:   submissionPrefix + sub.Signature,
		Value: data,
	}
	if err := s.storage.Put(ctx, entry); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a relayed transaction record.
// Returns nil if not found.
func (s *Storage) GetSubmission(ctx context.Context, signature string) (*model.Submission, error) {
	entry, err := s.storage.Get(ctx, submissionPrefix+signature)
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}
	if entry == nil {
		return nil, nil
	}

	var sub model.Submission
	if err := json.Unmarshal(entry.Value, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &sub, nil
}

// ListSubmissions returns the signatures of all relayed transactions.
func (s *Storage) ListSubmissions(ctx context.Context) ([]string, error) {
	entries, err := s.storage.List(ctx, submissionPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return entries, nil
}
