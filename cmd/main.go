package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"entrance-client/internal/demo"
	"entrance-client/internal/guard"
	"entrance-client/internal/model"
	"entrance-client/internal/service"
	"entrance-client/internal/session"
	"entrance-client/pkg/api"
	"entrance-client/pkg/config"
	"entrance-client/pkg/jwtutil"
	"entrance-client/pkg/logger"
	"entrance-client/prometheus"

	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting entrance client...", cfg.LogFields()...)

	// Initialize JWT utility (demo backend session tokens)
	jwtutil.Initialize(cfg.Demo.SigningKey)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg.Metrics.Prefix, version, cfg.Demo.Enabled)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", cfg.Metrics.Prefix))

	ctx := context.Background()

	// Demo mode runs an in-process backend seeded with placeholder data so
	// the client can be exercised without the real service
	if cfg.Demo.Enabled {
		demoServer := demo.NewServer(log)
		go func() {
			if err := demoServer.Start(cfg.Demo.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("Demo backend error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			demoServer.Shutdown(shutdownCtx)
		}()
		waitForBackend(log, "http://localhost:"+cfg.Demo.Port+"/health")
		log.Info("Demo backend ready", zap.String("port", cfg.Demo.Port))
	}

	// Initialize the HTTP client; the cookie jar carries the credential
	client := api.NewClient(cfg.API.BaseURL, cfg.API.RequestTimeout, log)
	if cfg.API.LegacyToken != "" {
		client.SetLegacyToken(cfg.API.LegacyToken)
	}

	// Session cache: persistent across runs only when the user opted into
	// remember-me
	var store session.Store
	if cfg.Session.RememberMe {
		store = session.NewFileStore(cfg.Session.FilePath)
	} else {
		store = session.NewMemoryStore()
	}

	// Domain services
	buildings := service.NewBuildings(client)
	units := service.NewUnits(client)
	fees := service.NewFees(client)
	payments := service.NewPayments(client)
	messages := service.NewMessages(client)
	announcements := service.NewAnnouncements(client)

	sessions := session.NewManager(client, store, buildings, log)

	// Startup probe: ask the backend who we are before any guard verdict
	user, err := sessions.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnreachable) {
			log.Warn("Backend unreachable during session probe", zap.Error(err))
		} else {
			log.Info("No active session", zap.Error(err))
		}
	}

	if decision := guard.RequireAuthenticated(user, ""); !decision.Allow {
		log.Info("Guard verdict: authentication required", zap.String("redirect", decision.RedirectTo))
		if !cfg.Demo.Enabled {
			log.Info("Set DEMO_MODE=true or sign in against a real backend")
			return
		}
		// Demo walkthrough signs in with the seeded resident account
		user, err = sessions.Login(ctx, session.Credentials{
			Email:      "resident@test.com",
			Password:   "password",
			RememberMe: cfg.Session.RememberMe,
		})
		if err != nil {
			log.Fatal("Demo login failed", zap.Error(err))
		}
	}

	log.Info("Signed in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("dashboard", guard.DashboardFor(user.Role)))

	// Dashboard data the SPA loads on entry
	if board, err := announcements.List(ctx); err == nil {
		log.Info("Announcements", zap.Int("count", len(board)))
	}
	if unread, err := messages.Unread(ctx); err == nil {
		log.Info("Unread messages", zap.Int("count", len(unread)))
	}

	if user.Role == model.RoleResident {
		runResidentWalkthrough(ctx, log, units, fees, payments)
	}

	if cfg.Session.RememberMe {
		log.Info("Session cached for next run", zap.String("file", cfg.Session.FilePath))
		return
	}
	if err := sessions.Logout(ctx); err != nil {
		log.Warn("Logout failed", zap.Error(err))
	}
	log.Info("Signed out")
}

// runResidentWalkthrough exercises the resident-facing operations against
// whichever backend the client is pointed at
func runResidentWalkthrough(ctx context.Context, log *zap.Logger, units *service.Units, fees *service.Fees, payments *service.Payments) {
	unit, err := units.MyUnit(ctx)
	if err != nil {
		log.Warn("No unit assigned", zap.Error(err))
		return
	}
	log.Info("My unit", zap.String("number", unit.UnitNumber), zap.Int("unit_id", unit.ID))

	if balance, err := units.Balance(ctx, unit.ID); err == nil {
		log.Info("Unit balance", zap.Float64("balance", balance.Balance))
	}

	mine, err := fees.Mine(ctx)
	if err != nil {
		log.Warn("Failed to load fees", zap.Error(err))
		return
	}
	for _, fee := range mine {
		if fee.IsPaid {
			continue
		}
		log.Info("Open fee",
			zap.String("month", fee.Month),
			zap.Float64("amount", fee.Amount),
			zap.String("due_to", fee.DueTo))

		// Report a bank transfer against the first open fee; it stays
		// pending until the manager approves it
		err := payments.CreateBankPayment(ctx, unit.ID, service.OfflinePaymentRequest{
			Amount: fee.Amount,
			Note:   "превод за " + fee.Month,
			Fund:   model.FundGeneral,
		})
		if err != nil {
			log.Warn("Payment rejected", zap.Error(err))
			return
		}
		log.Info("Payment reported, pending approval", zap.Float64("amount", fee.Amount))
		return
	}
	log.Info("No open fees")
}

// waitForBackend polls the health endpoint until the in-process backend
// accepts connections
func waitForBackend(log *zap.Logger, healthURL string) {
	for i := 0; i < 50; i++ {
		resp, err := http.Get(healthURL)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Fatal("Demo backend did not become ready", zap.String("url", healthURL))
}
