package demo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"entrance-client/internal/demo"
	"entrance-client/internal/guard"
	"entrance-client/internal/model"
	"entrance-client/internal/service"
	"entrance-client/internal/session"
	"entrance-client/pkg/api"
	"entrance-client/pkg/jwtutil"
)

// newBackend spins up a freshly seeded demo backend and a client pointed at
// it. Each call gets its own data set, so tests cannot interfere.
func newBackend(t *testing.T) *api.Client {
	t.Helper()
	jwtutil.Initialize("test-signing-key")

	srv := httptest.NewServer(demo.NewServer(zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/api", 5*time.Second, zap.NewNop())
}

func login(t *testing.T, client *api.Client, email string) (*session.Manager, *model.User) {
	t.Helper()
	mgr := session.NewManager(client, session.NewMemoryStore(), service.NewBuildings(client), zap.NewNop())
	user, err := mgr.Login(context.Background(), session.Credentials{Email: email, Password: "password"})
	require.NoError(t, err)
	return mgr, user
}

func TestSeededResidentFlow(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	mgr, user := login(t, client, "resident@test.com")

	require.Equal(t, model.RoleResident, user.Role)
	require.True(t, guard.RequireAuthenticated(user, model.RoleResident).Allow)

	// The credential cookie set by login authenticates the probe
	probed, err := mgr.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, probed.ID)

	// Seeded dashboard data
	board, err := service.NewAnnouncements(client).List(ctx)
	require.NoError(t, err)
	require.Len(t, board, 3)

	unread, err := service.NewMessages(client).Unread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	fees, err := service.NewFees(client).Mine(ctx)
	require.NoError(t, err)
	require.Len(t, fees, 2)
}

func TestInvalidCredentialsRejected(t *testing.T) {
	client := newBackend(t)
	mgr := session.NewManager(client, session.NewMemoryStore(), service.NewBuildings(client), zap.NewNop())

	_, err := mgr.Login(context.Background(), session.Credentials{
		Email:    "resident@test.com",
		Password: "wrong",
	})
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "invalid credentials", apiErr.Message)
	require.False(t, mgr.IsAuthenticated())
}

func TestResidentCannotReachManagerEndpoints(t *testing.T) {
	client := newBackend(t)
	login(t, client, "resident@test.com")

	_, err := service.NewFees(client).List(context.Background())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestCashPaymentApprovalMovesBalance(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	_, resident := login(t, client, "resident@test.com")
	require.NotNil(t, resident.UnitID)
	unitID := *resident.UnitID

	units := service.NewUnits(client)
	before, err := units.Balance(ctx, unitID)
	require.NoError(t, err)

	payments := service.NewPayments(client)
	err = payments.CreateCashPayment(ctx, unitID, service.OfflinePaymentRequest{
		Amount: 45,
		Note:   "платено на касата",
		Fund:   model.FundGeneral,
	})
	require.NoError(t, err)

	// The manager sees the pending transaction through its own session
	managerClient := api.NewClient(client.BaseURL, 5*time.Second, zap.NewNop())
	login(t, managerClient, "admin@test.com")
	managerPayments := service.NewPayments(managerClient)

	transactions, err := managerPayments.UnitPayments(ctx, unitID)
	require.NoError(t, err)

	var pending *model.Transaction
	for i := range transactions {
		if transactions[i].Status == model.StatusPending {
			pending = &transactions[i]
		}
	}
	require.NotNil(t, pending)
	require.Equal(t, model.MethodCash, pending.Method)

	require.NoError(t, managerPayments.Approve(ctx, pending.ID))

	after, err := units.Balance(ctx, unitID)
	require.NoError(t, err)
	require.InDelta(t, before.Balance+45, after.Balance, 0.001)

	// Approved transactions produce a receipt
	receipt, err := managerPayments.ReceiptDetails(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, pending.ID, receipt.TransactionID)
	require.InDelta(t, 45, receipt.Amount, 0.001)
}

func TestManagerRegistrationGeneratesDistinctCodes(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)

	codes := make(map[string]bool)
	for _, email := range []string{"mgr-a@test.com", "mgr-b@test.com"} {
		c := api.NewClient(client.BaseURL, 5*time.Second, zap.NewNop())
		mgr := session.NewManager(c, session.NewMemoryStore(), service.NewBuildings(c), zap.NewNop())

		result, err := mgr.Register(ctx, session.RegisterRequest{
			FullName:        "Нов Домоуправител",
			Email:           email,
			Password:        "password",
			ConfirmPassword: "password",
			Role:            model.RoleBuildingManager,
			BuildingName:    "Вход А",
			BuildingAddress: "ул. Витоша 15, София",
			TotalUnits:      24,
		})
		require.NoError(t, err)
		require.Len(t, result.AccessCode, 6)
		require.NotEqual(t, "482913", result.AccessCode)
		codes[result.AccessCode] = true
	}
	require.Len(t, codes, 2)
}

func TestResidentRegistrationJoinsByAccessCode(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	mgr := session.NewManager(client, session.NewMemoryStore(), service.NewBuildings(client), zap.NewNop())

	result, err := mgr.Register(ctx, session.RegisterRequest{
		FullName:        "Нов Живущ",
		Email:           "new-resident@test.com",
		Password:        "password",
		ConfirmPassword: "password",
		Role:            model.RoleResident,
		UnitNumber:      "14",
		BuildingCode:    "482913",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.UnitID)

	unit, err := service.NewUnits(client).MyUnit(ctx)
	require.NoError(t, err)
	require.Equal(t, "14", unit.UnitNumber)
}

func TestResidentRegistrationRejectsUnknownCode(t *testing.T) {
	client := newBackend(t)
	mgr := session.NewManager(client, session.NewMemoryStore(), service.NewBuildings(client), zap.NewNop())

	_, err := mgr.Register(context.Background(), session.RegisterRequest{
		FullName:        "Нов Живущ",
		Email:           "lost@test.com",
		Password:        "password",
		ConfirmPassword: "password",
		Role:            model.RoleResident,
		UnitNumber:      "14",
		BuildingCode:    "000000",
	})

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	mgr, _ := login(t, client, "resident@test.com")

	require.NoError(t, mgr.Logout(ctx))
	require.False(t, mgr.IsAuthenticated())

	// The cleared cookie no longer authenticates the probe
	_, err := mgr.Me(ctx)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
