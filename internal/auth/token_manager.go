package auth

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultTokenLifetime = 12 * time.Hour

// TokenManager obtains the portal token from a credential helper command
// and keeps it fresh in the background
type TokenManager struct {
	mu              sync.RWMutex
	schoolID        string
	token           string
	expiresAt       time.Time
	tokenLifetime   time.Duration
	refreshInterval time.Duration
	command         string
	logger          *zap.Logger
	ctx             context.Context
	cancel          context.CancelFunc
}

// NewTokenManager creates a new token manager for schoolID
func NewTokenManager(schoolID, command string, refreshInterval time.Duration, logger *zap.Logger) *TokenManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &TokenManager{
		schoolID:        strings.TrimSpace(schoolID),
		tokenLifetime:   defaultTokenLifetime,
		refreshInterval: refreshInterval,
		command:         command,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start fetches the first token and starts automatic refresh
func (tm *TokenManager) Start() error {
	if tm.schoolID == "" {
		return ErrNoSchool
	}

	if err := tm.Refresh(); err != nil {
		return fmt.Errorf("failed to get initial token: %w", err)
	}

	if tm.refreshInterval > 0 {
		go tm.refreshLoop()
	}

	tm.logger.Info("Token manager started",
		zap.String("school_id", tm.schoolID),
		zap.Duration("refresh_interval", tm.refreshInterval))

	return nil
}

// Stop stops the refresh loop
func (tm *TokenManager) Stop() {
	tm.cancel()
	tm.logger.Info("Token manager stopped")
}

// Session returns the school and current token
func (tm *TokenManager) Session(ctx context.Context) (Session, error) {
	if tm.schoolID == "" {
		return Session{}, ErrNoSchool
	}

	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if tm.token == "" {
		return Session{}, fmt.Errorf("token not available")
	}
	return Session{SchoolID: tm.schoolID, Token: tm.token}, nil
}

// IsTokenValid reports whether the token has more than an hour left
func (tm *TokenManager) IsTokenValid() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if tm.token == "" {
		return false
	}
	return time.Until(tm.expiresAt) > time.Hour
}

// Refresh runs the credential helper unless the current token is still valid.
// A failed refresh keeps an existing token.
func (tm *TokenManager) Refresh() error {
	if tm.IsTokenValid() {
		tm.logger.Debug("Token is still valid, skipping refresh",
			zap.Time("expires_at", tm.expiresAt))
		return nil
	}

	token, err := tm.runCommand()
	if err != nil {
		tm.mu.RLock()
		hasExistingToken := tm.token != ""
		tm.mu.RUnlock()

		if hasExistingToken {
			tm.logger.Warn("Continuing with existing token despite refresh failure", zap.Error(err))
			return nil
		}
		return err
	}

	now := time.Now()
	tm.mu.Lock()
	tm.token = token
	tm.expiresAt = now.Add(tm.tokenLifetime)
	tm.mu.Unlock()

	tm.logger.Info("Portal token refreshed",
		zap.Time("last_refresh", now),
		zap.Duration("lifetime", tm.tokenLifetime))

	return nil
}

func (tm *TokenManager) refreshLoop() {
	ticker := time.NewTicker(tm.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			if err := tm.Refresh(); err != nil {
				tm.logger.Error("Failed to refresh token in background", zap.Error(err))
			}
		}
	}
}

func (tm *TokenManager) runCommand() (string, error) {
	parts := strings.Fields(tm.command)
	if len(parts) == 0 {
		return "", fmt.Errorf("empty credential command")
	}

	cmd := exec.CommandContext(tm.ctx, parts[0], parts[1:]...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("credential command failed: %s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("failed to execute credential command: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("empty token received from credential command")
	}
	return token, nil
}
