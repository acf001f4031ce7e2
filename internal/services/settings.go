package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/abrezinsky/classbet/internal/logger"
	"github.com/abrezinsky/classbet/internal/models"
	"github.com/abrezinsky/classbet/internal/repository"
)

// Setting keys
const (
	SettingBaseURL   = "base_url"
	SettingLastRound = "last_round"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // No default - setting not yet configured
		}
		return "", err // Propagate database errors
	}
	return value, nil
}

// SetBaseURL saves the application base URL without a trailing slash
func (s *SettingsService) SetBaseURL(ctx context.Context, raw string) error {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if err := s.repo.SetSetting(ctx, SettingBaseURL, raw); err != nil {
		return err
	}
	s.log.Info("Base URL updated", "url", raw)
	return nil
}

// LastRound returns the most recently settled round, or ErrNoRound
func (s *SettingsService) LastRound(ctx context.Context) (*models.RoundSummary, error) {
	value, err := s.repo.GetSetting(ctx, SettingLastRound)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNoRound
		}
		return nil, err
	}

	var round models.RoundSummary
	if err := json.Unmarshal([]byte(value), &round); err != nil {
		return nil, fmt.Errorf("decoding last round: %w", err)
	}
	return &round, nil
}

// RecordRound replaces the stored round summary
func (s *SettingsService) RecordRound(ctx context.Context, round models.RoundSummary) error {
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}
	return s.repo.SetSetting(ctx, SettingLastRound, string(data))
}
