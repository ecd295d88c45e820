package session

import (
	"context"
	"errors"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
	"entrance-client/prometheus"

	"go.uber.org/zap"
)

// Credentials is the login request payload. RememberMe is forwarded to the
// backend, which decides the credential cookie's lifetime.
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// RegisterRequest is the registration payload. Residents join an existing
// building by access code; managers may register their building in the same
// flow.
type RegisterRequest struct {
	FullName        string     `json:"fullName"`
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"-"`
	Role            model.Role `json:"role"`
	RememberMe      bool       `json:"rememberMe"`

	// Resident fields
	UnitNumber   string `json:"unitNumber,omitempty"`
	BuildingCode string `json:"buildingCode,omitempty"`

	// Manager building registration, performed after the account is created
	BuildingName    string `json:"-"`
	BuildingAddress string `json:"-"`
	TotalUnits      int    `json:"-"`
}

// RegisterResult carries the populated profile and, for managers who
// registered a building, the generated access code
type RegisterResult struct {
	User       *model.User
	AccessCode string
}

// BuildingRegistrar registers a manager's building during sign-up
type BuildingRegistrar interface {
	Register(ctx context.Context, name, address string, totalUnits int) (*model.Building, error)
}

// Manager owns the session cache and every transition on it. The cache is
// only ever populated from a backend response and is cleared whenever the
// backend says the credential is gone.
type Manager struct {
	client    *api.Client
	store     Store
	buildings BuildingRegistrar
	logger    *zap.Logger
}

// NewManager creates a session manager over the given cache store
func NewManager(client *api.Client, store Store, buildings BuildingRegistrar, logger *zap.Logger) *Manager {
	return &Manager{
		client:    client,
		store:     store,
		buildings: buildings,
		logger:    logger,
	}
}

// Login authenticates against the backend. The credential cookie is set by
// the backend as a side effect; on success the returned profile is cached.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*model.User, error) {
	prometheus.LoginCounter.Inc()

	var user model.User
	if err := m.client.Post(ctx, "/auth/login", creds, &user); err != nil {
		prometheus.RecordAuthError("login_failure")
		m.logger.Warn("Login rejected", zap.String("email", creds.Email), zap.Error(err))
		return nil, err
	}

	if err := m.store.Set(&user); err != nil {
		return nil, fmt.Errorf("failed to cache profile: %w", err)
	}
	prometheus.SetSessionState(true)

	m.logger.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return &user, nil
}

// Register creates an account and immediately runs the authoritative probe to
// populate the cache, since the registration response is not guaranteed to
// carry the full profile. Managers who supplied building details get their
// building registered and the generated access code returned.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	prometheus.RegisterCounter.Inc()

	if err := validateRegister(req); err != nil {
		prometheus.RecordAuthError("validation")
		return nil, err
	}

	if err := m.client.Post(ctx, "/auth/register", req, nil); err != nil {
		prometheus.RecordAuthError("register_failure")
		return nil, err
	}

	user, err := m.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("registration succeeded but profile read failed: %w", err)
	}

	result := &RegisterResult{User: user}

	if req.Role == model.RoleBuildingManager && req.BuildingName != "" {
		building, err := m.buildings.Register(ctx, req.BuildingName, req.BuildingAddress, req.TotalUnits)
		if err != nil {
			return nil, fmt.Errorf("account created but building registration failed: %w", err)
		}
		result.AccessCode = building.AccessCode
	}

	return result, nil
}

// Logout invalidates the server-side session on a best-effort basis and
// always clears the local cache, even when the backend is unreachable.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		m.logger.Warn("Logout request failed, clearing local session anyway", zap.Error(err))
	}

	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session cache: %w", err)
	}
	prometheus.SetSessionState(false)

	m.logger.Info("User logged out")
	return nil
}

// Me is the only authoritative session liveness check. It must run once at
// startup before any routing decision trusts the cache. A failed probe clears
// the cache so the UI can never stay authenticated after the server dropped
// the session.
func (m *Manager) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := m.client.Get(ctx, "/auth/me", &user); err != nil {
		prometheus.RecordSessionProbe(false)
		prometheus.SetSessionState(false)
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Error("Failed to clear session cache after rejected probe", zap.Error(clearErr))
		}
		if !errors.Is(err, api.ErrUnreachable) {
			prometheus.RecordAuthError("probe_failure")
		}
		return nil, err
	}

	if err := m.store.Set(&user); err != nil {
		return nil, fmt.Errorf("failed to cache profile: %w", err)
	}
	prometheus.RecordSessionProbe(true)
	prometheus.SetSessionState(true)
	return &user, nil
}

// IsAuthenticated is a cheap, local-only check. It must never gate sensitive
// data fetches, only initial UI routing.
func (m *Manager) IsAuthenticated() bool {
	return m.store.Get() != nil
}

// CurrentUser returns the cached profile, or nil when anonymous
func (m *Manager) CurrentUser() *model.User {
	return m.store.Get()
}

func validateRegister(req RegisterRequest) error {
	if req.Email == "" || req.Password == "" {
		return errors.New("email and password are required")
	}
	if req.Password != req.ConfirmPassword {
		return errors.New("passwords do not match")
	}

	switch req.Role {
	case model.RoleResident:
		if req.BuildingCode == "" {
			return errors.New("building access code is required for residents")
		}
	case model.RoleBuildingManager:
		if req.BuildingName != "" && req.BuildingAddress == "" {
			return errors.New("building address is required")
		}
		if req.BuildingName != "" && req.TotalUnits <= 0 {
			return errors.New("total units must be positive")
		}
	default:
		return fmt.Errorf("unknown role %q", req.Role)
	}

	return nil
}
