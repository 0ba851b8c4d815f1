// Package model defines the data structures used in the Ascendry secrets engine.
package model

import (
	"time"
)

// Config is the engine configuration stored in Vault.
type Config struct {
	// APIKey is the Ascendry API credential (encrypted by Vault storage).
	// This field is NEVER returned to clients.
	APIKey string `json:"api_key"`

	// BaseURL overrides the Ascendry API address. Empty means the SDK default.
	BaseURL string `json:"base_url,omitempty"`

	// UpdatedAt is the timestamp of the last configuration write.
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigInfo is the configuration returned to clients (without the API key).
type ConfigInfo struct {
	BaseURL   string    `json:"base_url"`
	APIKeySet bool      `json:"api_key_set"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToInfo converts a Config to ConfigInfo (strips the API key).
func (c *Config) ToInfo() *ConfigInfo {
	return &ConfigInfo{
		BaseURL:   c.BaseURL,
		APIKeySet: c.APIKey != "",
		UpdatedAt: c.UpdatedAt,
	}
}

// ToResponseData converts ConfigInfo to a map for API response.
func (ci *ConfigInfo) ToResponseData() map[string]interface{} {
	return map[string]interface{}{
		"base_url":    ci.BaseURL,
		"api_key_set": ci.APIKeySet,
		"updated_at":  ci.UpdatedAt.Format(time.RFC3339),
	}
}

// Submission records a transaction relayed through the engine.
type Submission struct {
	Signature   string    `json:"signature"`
	Kind        string    `json:"kind"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ToResponseData converts a Submission to a map for API response.
func (s *Submission) ToResponseData() map[string]interface{} {
	return map[string]interface{}{
		"signature":    s.Signature,
		"kind":         s.Kind,
		"submitted_at": s.SubmittedAt.Format(time.RFC3339),
	}
}
