package demo

import (
	"net/http"
	"time"

	"entrance-client/internal/model"
	"entrance-client/pkg/jwtutil"
	"entrance-client/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Copy the account out under the lock; other sessions may be mutating it
	s.state.mu.Lock()
	acc, ok := s.state.accounts[req.Email]
	var user model.User
	var passwordHash []byte
	if ok {
		user = acc.user
		passwordHash = acc.passwordHash
	}
	s.state.mu.Unlock()
	if !ok {
		log.Debug("Unknown demo account", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword(passwordHash, []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ttl := sessionTTL
	if req.RememberMe {
		ttl = rememberMeTTL
	}
	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.FullName, string(user.Role), ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	setSessionCookie(c, token, req.RememberMe)

	log.Info("Demo login", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, user)
}

func (s *Server) register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		FullName     string     `json:"fullName"`
		Email        string     `json:"email"`
		Password     string     `json:"password"`
		Role         model.Role `json:"role"`
		RememberMe   bool       `json:"rememberMe"`
		UnitNumber   string     `json:"unitNumber"`
		BuildingCode string     `json:"buildingCode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, exists := s.state.accounts[req.Email]; exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	user := model.User{
		ID:        s.state.id(),
		FullName:  req.FullName,
		Email:     req.Email,
		Role:      req.Role,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if req.Role == model.RoleResident {
		buildingID, ok := s.state.codes[req.BuildingCode]
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found for this access code"})
		}
		unit := &model.Unit{
			ID:         s.state.id(),
			BuildingID: buildingID,
			UnitNumber: req.UnitNumber,
			Residents:  1,
			CreatedAt:  user.CreatedAt,
		}
		s.state.units[unit.ID] = unit
		user.UnitID = intPtr(unit.ID)
	}

	s.state.accounts[req.Email] = &account{user: user, passwordHash: hash(req.Password)}

	ttl := sessionTTL
	if req.RememberMe {
		ttl = rememberMeTTL
	}
	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.FullName, string(user.Role), ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	setSessionCookie(c, token, req.RememberMe)

	log.Info("Demo registration", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (s *Server) logout(c echo.Context) error {
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) me(c echo.Context) error {
	user, ok := s.currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) updateProfile(c echo.Context) error {
	var req struct {
		FullName *string `json:"fullName"`
		Email    *string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	email, _ := c.Get("email").(string)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	acc, ok := s.state.accounts[email]
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	if req.FullName != nil {
		acc.user.FullName = *req.FullName
	}
	if req.Email != nil && *req.Email != acc.user.Email {
		if _, exists := s.state.accounts[*req.Email]; exists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		delete(s.state.accounts, acc.user.Email)
		acc.user.Email = *req.Email
		s.state.accounts[acc.user.Email] = acc
	}
	acc.user.UpdatedAt = time.Now().Format(time.RFC3339)
	return c.JSON(http.StatusOK, acc.user)
}

func (s *Server) changePassword(c echo.Context) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	email, _ := c.Get("email").(string)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	acc, ok := s.state.accounts[email]
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.CurrentPassword)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	acc.passwordHash = hash(req.NewPassword)
	return c.NoContent(http.StatusNoContent)
}

// currentUser resolves the session claims to a copy of the live profile, so
// callers never read account state outside the lock
func (s *Server) currentUser(c echo.Context) (model.User, bool) {
	email, _ := c.Get("email").(string)
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	acc, ok := s.state.accounts[email]
	if !ok {
		return model.User{}, false
	}
	return acc.user, true
}
