package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"entrance-client/internal/model"
	"entrance-client/internal/session"
	"entrance-client/pkg/api"
)

func newManager(t *testing.T, handler http.HandlerFunc) (*session.Manager, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL+"/api", 5*time.Second, zap.NewNop())
	store := session.NewMemoryStore()
	return session.NewManager(client, store, &mockRegistrar{}, zap.NewNop()), store
}

func writeUser(w http.ResponseWriter, user model.User) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func TestLoginCachesProfileOnSuccess(t *testing.T) {
	mgr, store := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var creds session.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "resident@test.com", creds.Email)
		writeUser(w, model.User{ID: 1, Email: creds.Email, Role: model.RoleResident})
	})

	user, err := mgr.Login(context.Background(), session.Credentials{
		Email:    "resident@test.com",
		Password: "password",
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleResident, user.Role)

	require.True(t, mgr.IsAuthenticated())
	require.Equal(t, user, store.Get())
}

func TestLoginFailureLeavesCacheUntouched(t *testing.T) {
	mgr, store := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid credentials"}`))
	})

	// Seed an existing profile; a rejected login must not disturb it
	existing := &model.User{ID: 1, Email: "resident@test.com", Role: model.RoleResident}
	require.NoError(t, store.Set(existing))

	_, err := mgr.Login(context.Background(), session.Credentials{Email: "x", Password: "y"})
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid credentials", apiErr.Message)
	require.Equal(t, existing, store.Get())
}

func TestMeRefreshesCache(t *testing.T) {
	mgr, store := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/me", r.URL.Path)
		writeUser(w, model.User{ID: 2, Email: "admin@test.com", Role: model.RoleBuildingManager})
	})

	user, err := mgr.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.RoleBuildingManager, user.Role)
	require.Equal(t, user, store.Get())
}

func TestMeClearsCacheOnRejectedProbe(t *testing.T) {
	mgr, store := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "session expired"}`))
	})
	require.NoError(t, store.Set(&model.User{ID: 1}))

	_, err := mgr.Me(context.Background())
	require.Error(t, err)
	require.Nil(t, store.Get())
	require.False(t, mgr.IsAuthenticated())
}

func TestMeClearsCacheWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := api.NewClient(url+"/api", time.Second, zap.NewNop())
	store := session.NewMemoryStore()
	mgr := session.NewManager(client, store, &mockRegistrar{}, zap.NewNop())
	require.NoError(t, store.Set(&model.User{ID: 1}))

	_, err := mgr.Me(context.Background())
	require.ErrorIs(t, err, api.ErrUnreachable)
	require.Nil(t, store.Get())
}

func TestLogoutAlwaysClearsCache(t *testing.T) {
	mgr, store := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, store.Set(&model.User{ID: 1}))

	require.NoError(t, mgr.Logout(context.Background()))
	require.Nil(t, store.Get())
}

func TestLogoutClearsCacheWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := api.NewClient(url+"/api", time.Second, zap.NewNop())
	store := session.NewMemoryStore()
	mgr := session.NewManager(client, store, &mockRegistrar{}, zap.NewNop())
	require.NoError(t, store.Set(&model.User{ID: 1}))

	require.NoError(t, mgr.Logout(context.Background()))
	require.Nil(t, store.Get())
}

func TestRegisterValidation(t *testing.T) {
	var calls int
	mgr, _ := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	base := session.RegisterRequest{
		FullName:        "Иван Петров",
		Email:           "new@test.com",
		Password:        "password",
		ConfirmPassword: "password",
		Role:            model.RoleResident,
		BuildingCode:    "482913",
	}

	mismatch := base
	mismatch.ConfirmPassword = "different"
	_, err := mgr.Register(context.Background(), mismatch)
	require.ErrorContains(t, err, "passwords do not match")

	noCode := base
	noCode.BuildingCode = ""
	_, err = mgr.Register(context.Background(), noCode)
	require.ErrorContains(t, err, "access code")

	badRole := base
	badRole.Role = "SUPERUSER"
	_, err = mgr.Register(context.Background(), badRole)
	require.ErrorContains(t, err, "unknown role")

	// Client-side rejections never reach the backend
	require.Zero(t, calls)
}

func TestRegisterManagerReturnsAccessCode(t *testing.T) {
	registrar := &mockRegistrar{code: "135790"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/register":
			w.WriteHeader(http.StatusCreated)
		case "/api/auth/me":
			writeUser(w, model.User{ID: 5, Email: "mgr@test.com", Role: model.RoleBuildingManager})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL+"/api", 5*time.Second, zap.NewNop())
	store := session.NewMemoryStore()
	mgr := session.NewManager(client, store, registrar, zap.NewNop())

	result, err := mgr.Register(context.Background(), session.RegisterRequest{
		FullName:        "Мария Георгиева",
		Email:           "mgr@test.com",
		Password:        "password",
		ConfirmPassword: "password",
		Role:            model.RoleBuildingManager,
		BuildingName:    "Вход А",
		BuildingAddress: "ул. Витоша 15, София",
		TotalUnits:      24,
	})
	require.NoError(t, err)
	require.Equal(t, "135790", result.AccessCode)
	require.Equal(t, model.RoleBuildingManager, result.User.Role)
	require.Equal(t, "Вход А", registrar.gotName)
	require.Equal(t, 24, registrar.gotUnits)

	// The probe after registration populates the cache
	require.True(t, mgr.IsAuthenticated())
}

type mockRegistrar struct {
	code     string
	gotName  string
	gotUnits int
}

func (m *mockRegistrar) Register(ctx context.Context, name, address string, totalUnits int) (*model.Building, error) {
	m.gotName = name
	m.gotUnits = totalUnits
	return &model.Building{ID: 1, Name: name, Address: address, TotalUnits: totalUnits, AccessCode: m.code}, nil
}
