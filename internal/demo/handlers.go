package demo

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"entrance-client/internal/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}

// --- buildings ---

func (s *Server) registerBuilding(c echo.Context) error {
	var req struct {
		Name       string `json:"name"`
		Address    string `json:"address"`
		TotalUnits int    `json:"totalUnits"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}

	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, exists := s.state.managerBuilding[userID]; exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "building already registered"})
	}

	building := &model.Building{
		ID:         s.state.id(),
		Name:       req.Name,
		Address:    req.Address,
		TotalUnits: req.TotalUnits,
		AccessCode: s.state.accessCode(),
		CreatedAt:  nowStamp(),
		UpdatedAt:  nowStamp(),
	}
	s.state.buildings[building.ID] = building
	s.state.codes[building.AccessCode] = building.ID
	s.state.managerBuilding[userID] = building.ID

	return c.JSON(http.StatusCreated, building)
}

func (s *Server) buildingByCode(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	buildingID, ok := s.state.codes[c.Param("code")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
	}
	return c.JSON(http.StatusOK, s.state.buildings[buildingID])
}

func (s *Server) myBuilding(c echo.Context) error {
	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	buildingID, ok := s.state.managerBuilding[userID]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no building registered"})
	}
	return c.JSON(http.StatusOK, s.state.buildings[buildingID])
}

func (s *Server) myBuildingStatus(c echo.Context) error {
	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	_, ok := s.state.managerBuilding[userID]
	s.state.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"hasBuilding": ok})
}

// --- units ---

func (s *Server) listUnits(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	units := make([]model.Unit, 0, len(s.state.units))
	for _, u := range s.state.units {
		units = append(units, *u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return c.JSON(http.StatusOK, units)
}

func (s *Server) getUnit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	unit, ok := s.state.units[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
	}
	return c.JSON(http.StatusOK, unit)
}

func (s *Server) myUnit(c echo.Context) error {
	user, ok := s.currentUser(c)
	if !ok || user.UnitID == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no unit assigned"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	unit, ok := s.state.units[*user.UnitID]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
	}
	return c.JSON(http.StatusOK, unit)
}

func (s *Server) createUnit(c echo.Context) error {
	var req struct {
		BuildingID int     `json:"buildingId"`
		UnitNumber string  `json:"unitNumber"`
		Area       float64 `json:"area"`
		Residents  int     `json:"residents"`
		Floor      *int    `json:"floor"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	unit := &model.Unit{
		ID:         s.state.id(),
		BuildingID: req.BuildingID,
		UnitNumber: req.UnitNumber,
		Area:       req.Area,
		Residents:  req.Residents,
		Floor:      req.Floor,
		CreatedAt:  nowStamp(),
		UpdatedAt:  nowStamp(),
	}
	s.state.units[unit.ID] = unit
	return c.JSON(http.StatusCreated, unit)
}

func (s *Server) updateUnit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}

	var req struct {
		UnitNumber *string  `json:"unitNumber"`
		Area       *float64 `json:"area"`
		Residents  *int     `json:"residents"`
		Floor      *int     `json:"floor"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	unit, ok := s.state.units[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
	}
	if req.UnitNumber != nil {
		unit.UnitNumber = *req.UnitNumber
	}
	if req.Area != nil {
		unit.Area = *req.Area
	}
	if req.Residents != nil {
		unit.Residents = *req.Residents
	}
	if req.Floor != nil {
		unit.Floor = req.Floor
	}
	unit.UpdatedAt = nowStamp()
	return c.JSON(http.StatusOK, unit)
}

func (s *Server) deleteUnit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}

	s.state.mu.Lock()
	delete(s.state.units, id)
	s.state.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) unitBalance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	unit, ok := s.state.units[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
	}
	if unit.Balance == nil {
		unit.Balance = &model.UnitBalance{ID: s.state.id(), UnitID: unit.ID}
	}
	return c.JSON(http.StatusOK, unit.Balance)
}

func (s *Server) unitFees(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return c.JSON(http.StatusOK, s.feesForUnitLocked(id))
}

func (s *Server) feesForUnitLocked(unitID int) []model.UnitFee {
	fees := make([]model.UnitFee, 0)
	for _, f := range s.state.fees {
		if f.UnitID == unitID {
			fees = append(fees, *f)
		}
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].ID < fees[j].ID })
	return fees
}

// --- payments and transactions ---

func (s *Server) unitTransactions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}
	filter := model.TransactionType(c.QueryParam("type"))

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	transactions := make([]model.Transaction, 0)
	for _, t := range s.state.transactions {
		if t.UnitID == id && (filter == "" || t.Type == filter) {
			transactions = append(transactions, *t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID < transactions[j].ID })
	return c.JSON(http.StatusOK, transactions)
}

func (s *Server) cardPayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}
	var req struct {
		Amount float64        `json:"amount"`
		Fund   model.FundType `json:"fund"`
	}
	if err := c.Bind(&req); err != nil || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}

	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	tx := &model.Transaction{
		ID:        s.state.id(),
		UnitID:    id,
		UserID:    intPtr(userID),
		Amount:    req.Amount,
		Method:    model.MethodCard,
		Type:      model.TypePayment,
		Status:    model.StatusPending,
		Fund:      req.Fund,
		CreatedAt: nowStamp(),
	}
	s.state.transactions[tx.ID] = tx

	// The gateway callback would confirm this server-side; demo mode just
	// hands back a placeholder secret.
	return c.JSON(http.StatusOK, echo.Map{
		"clientSecret":  "demo_secret_" + uuid.New().String(),
		"transactionId": tx.ID,
	})
}

func (s *Server) offlinePayment(method model.PaymentMethod) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
		}
		var req struct {
			Amount float64        `json:"amount"`
			Note   string         `json:"note"`
			Fund   model.FundType `json:"fund"`
		}
		if err := c.Bind(&req); err != nil || req.Amount <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
		}
		if req.Note == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "a reference note is required"})
		}

		userID, _ := c.Get("user_id").(int)

		s.state.mu.Lock()
		defer s.state.mu.Unlock()

		tx := &model.Transaction{
			ID:        s.state.id(),
			UnitID:    id,
			UserID:    intPtr(userID),
			Amount:    req.Amount,
			Method:    method,
			Type:      model.TypePayment,
			Status:    model.StatusPending,
			Fund:      req.Fund,
			Note:      req.Note,
			CreatedAt: nowStamp(),
		}
		s.state.transactions[tx.ID] = tx
		return c.JSON(http.StatusCreated, tx)
	}
}

func (s *Server) approveTransaction(c echo.Context) error {
	return s.settleTransaction(c, model.StatusConfirmed)
}

func (s *Server) rejectTransaction(c echo.Context) error {
	return s.settleTransaction(c, model.StatusRejected)
}

func (s *Server) settleTransaction(c echo.Context, status model.TransactionStatus) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	tx, ok := s.state.transactions[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
	}
	if tx.Status != model.StatusPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "transaction already settled"})
	}

	tx.Status = status
	tx.UpdatedAt = nowStamp()

	// Only confirmed payments move the unit balance
	if status == model.StatusConfirmed {
		if unit, ok := s.state.units[tx.UnitID]; ok {
			if unit.Balance == nil {
				unit.Balance = &model.UnitBalance{ID: s.state.id(), UnitID: unit.ID}
			}
			unit.Balance.Balance += tx.Amount
			unit.Balance.UpdatedAt = nowStamp()
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) receiptDetails(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	tx, ok := s.state.transactions[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
	}
	if tx.Status != model.StatusConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "transaction not confirmed"})
	}

	unitNumber := ""
	if unit, ok := s.state.units[tx.UnitID]; ok {
		unitNumber = unit.UnitNumber
	}
	paidBy := ""
	if tx.UserID != nil {
		for _, acc := range s.state.accounts {
			if acc.user.ID == *tx.UserID {
				paidBy = acc.user.FullName
				break
			}
		}
	}

	return c.JSON(http.StatusOK, model.ReceiptDetails{
		TransactionID: tx.ID,
		ReceiptNumber: strconv.Itoa(100000 + tx.ID),
		Amount:        tx.Amount,
		UnitNumber:    unitNumber,
		PaidBy:        paidBy,
		GeneratedAt:   nowStamp(),
	})
}

// --- fees ---

func (s *Server) listFees(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	fees := make([]model.UnitFee, 0, len(s.state.fees))
	for _, f := range s.state.fees {
		fees = append(fees, *f)
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].ID < fees[j].ID })
	return c.JSON(http.StatusOK, fees)
}

func (s *Server) myFees(c echo.Context) error {
	user, ok := s.currentUser(c)
	if !ok || user.UnitID == nil {
		return c.JSON(http.StatusOK, []model.UnitFee{})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return c.JSON(http.StatusOK, s.feesForUnitLocked(*user.UnitID))
}

func (s *Server) unpaidFees(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	fees := make([]model.UnitFee, 0)
	for _, f := range s.state.fees {
		if !f.IsPaid {
			fees = append(fees, *f)
		}
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].ID < fees[j].ID })
	return c.JSON(http.StatusOK, fees)
}

func (s *Server) createFee(c echo.Context) error {
	var req struct {
		UnitID  int     `json:"unitId"`
		Month   string  `json:"month"`
		Amount  float64 `json:"amount"`
		DueFrom string  `json:"dueFrom"`
		DueTo   string  `json:"dueTo"`
	}
	if err := c.Bind(&req); err != nil || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, ok := s.state.units[req.UnitID]; !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
	}

	fee := s.newFeeLocked(req.UnitID, req.Month, req.Amount, req.DueFrom, req.DueTo)
	return c.JSON(http.StatusCreated, fee)
}

func (s *Server) createBulkFees(c echo.Context) error {
	var req struct {
		Month   string  `json:"month"`
		Amount  float64 `json:"amount"`
		DueFrom string  `json:"dueFrom"`
		DueTo   string  `json:"dueTo"`
	}
	if err := c.Bind(&req); err != nil || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	unitIDs := make([]int, 0, len(s.state.units))
	for id := range s.state.units {
		unitIDs = append(unitIDs, id)
	}
	sort.Ints(unitIDs)

	fees := make([]model.UnitFee, 0, len(unitIDs))
	for _, unitID := range unitIDs {
		fees = append(fees, *s.newFeeLocked(unitID, req.Month, req.Amount, req.DueFrom, req.DueTo))
	}
	return c.JSON(http.StatusCreated, fees)
}

func (s *Server) newFeeLocked(unitID int, month string, amount float64, dueFrom, dueTo string) *model.UnitFee {
	fee := &model.UnitFee{
		ID:        s.state.id(),
		UnitID:    unitID,
		Month:     month,
		Amount:    amount,
		DueFrom:   dueFrom,
		DueTo:     dueTo,
		CreatedAt: nowStamp(),
	}
	s.state.fees[fee.ID] = fee

	// Fees also land on the unit ledger
	txID := s.state.id()
	s.state.transactions[txID] = &model.Transaction{
		ID:        txID,
		UnitID:    unitID,
		Amount:    amount,
		Type:      model.TypeFee,
		Status:    model.StatusConfirmed,
		CreatedAt: fee.CreatedAt,
	}
	return fee
}

func (s *Server) markFeePaid(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fee id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	fee, ok := s.state.fees[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "fee not found"})
	}
	fee.IsPaid = true
	fee.UpdatedAt = nowStamp()
	return c.JSON(http.StatusOK, fee)
}

func (s *Server) deleteFee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fee id"})
	}

	s.state.mu.Lock()
	delete(s.state.fees, id)
	s.state.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

// --- residents ---

func (s *Server) listResidents(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	residents := make([]model.User, 0)
	for _, acc := range s.state.accounts {
		if acc.user.Role == model.RoleResident {
			residents = append(residents, acc.user)
		}
	}
	sort.Slice(residents, func(i, j int) bool { return residents[i].ID < residents[j].ID })
	return c.JSON(http.StatusOK, residents)
}

func (s *Server) getResident(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resident id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if acc := s.accountByIDLocked(id); acc != nil && acc.user.Role == model.RoleResident {
		return c.JSON(http.StatusOK, acc.user)
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "resident not found"})
}

func (s *Server) createResident(c echo.Context) error {
	var req struct {
		FullName   string `json:"fullName"`
		Email      string `json:"email"`
		UnitNumber string `json:"unitNumber"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
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
		Role:      model.RoleResident,
		CreatedAt: nowStamp(),
	}
	// Residents added by the manager activate their account later; until
	// then the password is an unguessable placeholder.
	s.state.accounts[user.Email] = &account{user: user, passwordHash: hash(uuid.New().String())}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) updateResident(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resident id"})
	}
	var req struct {
		FullName string `json:"fullName"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	acc := s.accountByIDLocked(id)
	if acc == nil || acc.user.Role != model.RoleResident {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "resident not found"})
	}
	if req.FullName != "" {
		acc.user.FullName = req.FullName
	}
	acc.user.UpdatedAt = nowStamp()
	return c.JSON(http.StatusOK, acc.user)
}

func (s *Server) deleteResident(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resident id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	acc := s.accountByIDLocked(id)
	if acc == nil || acc.user.Role != model.RoleResident {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "resident not found"})
	}
	delete(s.state.accounts, acc.user.Email)
	return c.NoContent(http.StatusNoContent)
}

// --- users (administration) ---

func (s *Server) listUsers(c echo.Context) error {
	roleFilter := model.Role(c.QueryParam("role"))

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	users := make([]model.User, 0, len(s.state.accounts))
	for _, acc := range s.state.accounts {
		if roleFilter == "" || acc.user.Role == roleFilter {
			users = append(users, acc.user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if acc := s.accountByIDLocked(id); acc != nil {
		return c.JSON(http.StatusOK, acc.user)
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	acc := s.accountByIDLocked(id)
	if acc == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	delete(s.state.accounts, acc.user.Email)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) changeUserRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req struct {
		Role model.Role `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Role != model.RoleResident && req.Role != model.RoleBuildingManager {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	acc := s.accountByIDLocked(id)
	if acc == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	acc.user.Role = req.Role
	acc.user.UpdatedAt = nowStamp()
	return c.JSON(http.StatusOK, acc.user)
}

func (s *Server) accountByIDLocked(id int) *account {
	for _, acc := range s.state.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

// --- messages ---

func (s *Server) myMessages(c echo.Context) error {
	return s.messagesFor(c, false)
}

func (s *Server) unreadMessages(c echo.Context) error {
	return s.messagesFor(c, true)
}

func (s *Server) messagesFor(c echo.Context, unreadOnly bool) error {
	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	messages := make([]model.Message, 0)
	for _, m := range s.state.messages {
		mine := m.SenderID == userID || (m.RecipientID != nil && *m.RecipientID == userID)
		if mine && (!unreadOnly || !m.IsRead) {
			messages = append(messages, *m)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return c.JSON(http.StatusOK, messages)
}

func (s *Server) markMessageRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	message, ok := s.state.messages[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
	}
	message.IsRead = true
	message.UpdatedAt = nowStamp()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) sendMessage(c echo.Context) error {
	var req struct {
		RecipientID *int   `json:"recipientId"`
		Subject     string `json:"subject"`
		Content     string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || req.Subject == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject is required"})
	}

	user, ok := s.currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	message := &model.Message{
		ID:          s.state.id(),
		SenderID:    user.ID,
		SenderName:  user.FullName,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Content:     req.Content,
		CreatedAt:   nowStamp(),
	}
	s.state.messages[message.ID] = message
	return c.JSON(http.StatusCreated, message)
}

func (s *Server) deleteMessage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}

	s.state.mu.Lock()
	delete(s.state.messages, id)
	s.state.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

// --- announcements ---

func (s *Server) listAnnouncements(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	announcements := make([]model.Announcement, 0, len(s.state.announcements))
	for _, a := range s.state.announcements {
		announcements = append(announcements, *a)
	}
	sort.Slice(announcements, func(i, j int) bool { return announcements[i].ID > announcements[j].ID })
	return c.JSON(http.StatusOK, announcements)
}

func (s *Server) createAnnouncement(c echo.Context) error {
	var req struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		IsImportant bool   `json:"isImportant"`
	}
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	user, ok := s.currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	announcement := &model.Announcement{
		ID:            s.state.id(),
		Title:         req.Title,
		Content:       req.Content,
		CreatedBy:     user.ID,
		CreatedByName: user.FullName,
		IsImportant:   req.IsImportant,
		CreatedAt:     nowStamp(),
	}
	s.state.announcements[announcement.ID] = announcement
	return c.JSON(http.StatusCreated, announcement)
}

func (s *Server) updateAnnouncement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid announcement id"})
	}
	var req struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		IsImportant bool   `json:"isImportant"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	announcement, ok := s.state.announcements[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "announcement not found"})
	}
	if req.Title != "" {
		announcement.Title = req.Title
	}
	if req.Content != "" {
		announcement.Content = req.Content
	}
	announcement.IsImportant = req.IsImportant
	announcement.UpdatedAt = nowStamp()
	return c.JSON(http.StatusOK, announcement)
}

func (s *Server) deleteAnnouncement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid announcement id"})
	}

	s.state.mu.Lock()
	delete(s.state.announcements, id)
	s.state.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

// --- polls ---

func (s *Server) listPolls(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	polls := make([]model.Poll, 0, len(s.state.polls))
	for _, p := range s.state.polls {
		polls = append(polls, *p)
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].ID > polls[j].ID })
	return c.JSON(http.StatusOK, polls)
}

func (s *Server) getPoll(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poll id"})
	}
	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	poll, ok := s.state.polls[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "poll not found"})
	}

	// Attach vote counts and the caller's own vote
	result := *poll
	result.Options = make([]model.PollOption, len(poll.Options))
	copy(result.Options, poll.Options)
	votes := s.state.votes[poll.ID]
	result.TotalVotes = len(votes)
	for i := range result.Options {
		count := 0
		for _, optionID := range votes {
			if optionID == result.Options[i].ID {
				count++
			}
		}
		result.Options[i].VoteCount = count
	}
	if optionID, voted := votes[userID]; voted {
		result.UserVote = &model.Vote{PollID: poll.ID, UserID: userID, OptionID: optionID}
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) createPoll(c echo.Context) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		StartAt     string   `json:"startAt"`
		EndAt       string   `json:"endAt"`
		Options     []string `json:"options"`
	}
	if err := c.Bind(&req); err != nil || req.Title == "" || len(req.Options) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and at least two options are required"})
	}

	user, ok := s.currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	poll := &model.Poll{
		ID:          s.state.id(),
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		IsActive:    true,
		CreatedBy:   &user,
		CreatedAt:   nowStamp(),
	}
	for _, text := range req.Options {
		poll.Options = append(poll.Options, model.PollOption{
			ID:         s.state.id(),
			PollID:     poll.ID,
			OptionText: text,
		})
	}
	s.state.polls[poll.ID] = poll
	s.state.votes[poll.ID] = make(map[int]int)
	return c.JSON(http.StatusCreated, poll)
}

func (s *Server) votePoll(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poll id"})
	}
	var req struct {
		OptionID int `json:"optionId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	poll, ok := s.state.polls[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "poll not found"})
	}
	if !poll.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "poll is closed"})
	}
	validOption := false
	for _, opt := range poll.Options {
		if opt.ID == req.OptionID {
			validOption = true
			break
		}
	}
	if !validOption {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown option"})
	}
	if _, voted := s.state.votes[id][userID]; voted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already voted"})
	}

	s.state.votes[id][userID] = req.OptionID
	return c.JSON(http.StatusCreated, model.Vote{
		ID:       s.state.id(),
		PollID:   id,
		UserID:   userID,
		OptionID: req.OptionID,
		VotedAt:  nowStamp(),
	})
}

func (s *Server) closePoll(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poll id"})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	poll, ok := s.state.polls[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "poll not found"})
	}
	poll.IsActive = false
	poll.UpdatedAt = nowStamp()
	return c.NoContent(http.StatusNoContent)
}

// --- documents ---

func (s *Server) listDocuments(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	documents := make([]model.Document, 0, len(s.state.documents))
	for _, d := range s.state.documents {
		documents = append(documents, *d)
	}
	sort.Slice(documents, func(i, j int) bool { return documents[i].ID < documents[j].ID })
	return c.JSON(http.StatusOK, documents)
}

func (s *Server) createDocument(c echo.Context) error {
	var req struct {
		Title    string `json:"title"`
		FileName string `json:"fileName"`
	}
	if err := c.Bind(&req); err != nil || req.Title == "" || req.FileName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and file name are required"})
	}

	userID, _ := c.Get("user_id").(int)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	buildingID := 0
	if id, ok := s.state.managerBuilding[userID]; ok {
		buildingID = id
	}

	document := &model.Document{
		ID:         s.state.id(),
		BuildingID: buildingID,
		Title:      req.Title,
		FileName:   req.FileName,
		UploadedBy: userID,
		CreatedAt:  nowStamp(),
	}
	s.state.documents[document.ID] = document
	return c.JSON(http.StatusCreated, document)
}

func (s *Server) deleteDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid document id"})
	}

	s.state.mu.Lock()
	delete(s.state.documents, id)
	s.state.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}
