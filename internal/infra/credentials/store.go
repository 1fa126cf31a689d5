// Package credentials keeps provider API keys in the integration_tokens table
// so deployments can rotate them without touching the environment.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"poster-server/internal/infra"
	"poster-server/internal/sqlinline"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

func (s *Store) OpenAIAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderOpenAI)
}

// Token returns the stored token of provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// Resolve prefers the configured key and falls back to the stored one.
func (s *Store) Resolve(ctx context.Context, provider, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}
	return s.Token(ctx, provider)
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string) error {
	return s.SetAPIKey(ctx, ProviderGemini, key)
}

func (s *Store) SetOpenAIAPIKey(ctx context.Context, key string) error {
	return s.SetAPIKey(ctx, ProviderOpenAI, key)
}

// SetAPIKey stores key for one of the supported providers.
func (s *Store) SetAPIKey(ctx context.Context, provider, key string) error {
	switch provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	return s.upsert(ctx, provider, key, map[string]any{"rotated_at": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
