package demo

import (
	"fmt"
	"math/rand"
	"sync"

	"entrance-client/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// account is a demo login with its bcrypt-hashed password
type account struct {
	user         model.User
	passwordHash []byte
}

// state is the demo backend's in-memory data set. It only exists so the
// client can be exercised with no real backend; nothing here is business
// logic the real system relies on.
type state struct {
	mu     sync.Mutex
	nextID int

	accounts        map[string]*account // by email
	buildings       map[int]*model.Building
	codes           map[string]int // access code -> building id
	managerBuilding map[int]int    // manager user id -> building id
	units           map[int]*model.Unit
	fees            map[int]*model.UnitFee
	transactions    map[int]*model.Transaction
	messages        map[int]*model.Message
	announcements   map[int]*model.Announcement
	polls           map[int]*model.Poll
	votes           map[int]map[int]int // poll id -> user id -> option id
	documents       map[int]*model.Document
}

func (s *state) id() int {
	s.nextID++
	return s.nextID
}

// accessCode generates a distinct 6-digit building access code
func (s *state) accessCode() string {
	for {
		code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
		if _, taken := s.codes[code]; !taken {
			return code
		}
	}
}

func hash(password string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic("failed to hash demo password: " + err.Error())
	}
	return h
}

func intPtr(v int) *int { return &v }

// newState seeds the demo data set: a managed building with one resident,
// open fees, and the announcement/message boards the dashboard shows.
func newState() *state {
	s := &state{
		accounts:        make(map[string]*account),
		buildings:       make(map[int]*model.Building),
		codes:           make(map[string]int),
		managerBuilding: make(map[int]int),
		units:           make(map[int]*model.Unit),
		fees:            make(map[int]*model.UnitFee),
		transactions:    make(map[int]*model.Transaction),
		messages:        make(map[int]*model.Message),
		announcements:   make(map[int]*model.Announcement),
		polls:           make(map[int]*model.Poll),
		votes:           make(map[int]map[int]int),
		documents:       make(map[int]*model.Document),
	}

	demoPassword := hash("password")

	building := &model.Building{
		ID:         1,
		Name:       "Вход А",
		Address:    "ул. Витоша 15, София",
		TotalUnits: 24,
		AccessCode: "482913",
		CreatedAt:  "2024-01-10T09:00:00",
		UpdatedAt:  "2024-01-10T09:00:00",
	}
	s.buildings[building.ID] = building
	s.codes[building.AccessCode] = building.ID

	manager := model.User{
		ID:         2,
		FullName:   "Мария Георгиева",
		Email:      "admin@test.com",
		Role:       model.RoleBuildingManager,
		BuildingID: intPtr(building.ID),
		CreatedAt:  "2024-01-10T09:00:00",
	}
	s.accounts[manager.Email] = &account{user: manager, passwordHash: demoPassword}
	s.managerBuilding[manager.ID] = building.ID

	unit := &model.Unit{
		ID:         1,
		BuildingID: building.ID,
		UnitNumber: "12",
		Area:       74.5,
		Residents:  2,
		Floor:      intPtr(3),
		CreatedAt:  "2024-01-15T10:00:00",
		Balance:    &model.UnitBalance{ID: 1, UnitID: 1, Balance: -45},
	}
	s.units[unit.ID] = unit

	resident := model.User{
		ID:        1,
		FullName:  "Иван Петров",
		Email:     "resident@test.com",
		Role:      model.RoleResident,
		UnitID:    intPtr(unit.ID),
		CreatedAt: "2024-01-15T10:00:00",
	}
	s.accounts[resident.Email] = &account{user: resident, passwordHash: demoPassword}

	s.fees[1] = &model.UnitFee{
		ID: 1, UnitID: unit.ID, Month: "2024-12-01", Amount: 45,
		DueFrom: "2024-12-01", DueTo: "2024-12-31",
		CreatedAt: "2024-12-01T00:00:00",
	}
	s.fees[2] = &model.UnitFee{
		ID: 2, UnitID: unit.ID, Month: "2024-11-01", Amount: 45,
		DueFrom: "2024-11-01", DueTo: "2024-11-30", IsPaid: true,
		CreatedAt: "2024-11-01T00:00:00",
	}

	s.transactions[1] = &model.Transaction{
		ID: 1, UnitID: unit.ID, UserID: intPtr(resident.ID), Amount: 45,
		Method: model.MethodBank, Type: model.TypePayment,
		Status: model.StatusConfirmed, Fund: model.FundGeneral,
		Note: "такса ноември", CreatedAt: "2024-11-20T12:00:00",
	}

	s.announcements[1] = &model.Announcement{
		ID: 1, Title: "Планирана поддръжка на асансьора",
		Content:     "На 15-ти декември ще бъде извършена поддръжка на асансьора от 9:00 до 15:00 часа.",
		CreatedBy:   manager.ID, CreatedByName: manager.FullName,
		IsImportant: true, CreatedAt: "2024-12-03T10:00:00",
	}
	s.announcements[2] = &model.Announcement{
		ID: 2, Title: "Зимно почистване",
		Content:   "Напомняме ви, че зимното почистване на общите части ще започне от следващата седмица.",
		CreatedBy: manager.ID, CreatedByName: manager.FullName,
		CreatedAt: "2024-12-01T14:30:00",
	}
	s.announcements[3] = &model.Announcement{
		ID: 3, Title: "Нови правила за паркиране",
		Content:   "Моля спазвайте новите правила за паркиране в гаража. Детайли са поставени на таблото.",
		CreatedBy: manager.ID, CreatedByName: manager.FullName,
		CreatedAt: "2024-11-28T09:15:00",
	}

	s.messages[1] = &model.Message{
		ID: 1, SenderID: manager.ID, SenderName: manager.FullName,
		RecipientID: intPtr(resident.ID),
		Subject:     "Относно таксата за декември",
		Content:     "Здравейте, напомняме ви че таксата за декември е до 31-ви.",
		CreatedAt:   "2024-12-03T09:00:00",
	}
	s.messages[2] = &model.Message{
		ID: 2, SenderID: manager.ID, SenderName: manager.FullName,
		RecipientID: intPtr(resident.ID),
		Subject:     "Покана за събрание",
		Content:     "Каним ви на годишното общо събрание на 20-ти декември.",
		IsRead:      true, CreatedAt: "2024-11-28T14:30:00",
	}

	s.polls[1] = &model.Poll{
		ID: 1, Title: "Ремонт на покрива",
		Description: "Да започнем ли ремонт на покрива през пролетта?",
		StartAt:     "2024-12-01T00:00:00", EndAt: "2024-12-20T23:59:59",
		IsActive: true,
		Options: []model.PollOption{
			{ID: 1, PollID: 1, OptionText: "Да, през пролетта"},
			{ID: 2, PollID: 1, OptionText: "Не, да изчакаме"},
		},
		CreatedAt: "2024-12-01T00:00:00",
	}
	s.votes[1] = make(map[int]int)

	s.documents[1] = &model.Document{
		ID: 1, BuildingID: building.ID,
		Title:    "Протокол от общо събрание",
		FileName: "protokol-2024-11.pdf",
		UploadedBy: manager.ID, CreatedAt: "2024-11-25T16:00:00",
	}

	s.nextID = 100

	return s
}
