package model

// Unit represents an apartment inside a building
type Unit struct {
	ID         int          `json:"id"`
	BuildingID int          `json:"buildingId"`
	UnitNumber string       `json:"unitNumber"`
	Area       float64      `json:"area,omitempty"`
	Residents  int          `json:"residents"`
	Floor      *int         `json:"floor,omitempty"`
	CreatedAt  string       `json:"createdAt,omitempty"`
	UpdatedAt  string       `json:"updatedAt,omitempty"`
	Building   *Building    `json:"building,omitempty"`
	Balance    *UnitBalance `json:"balance,omitempty"`
	Fees       []UnitFee    `json:"fees,omitempty"`
}

// UnitBalance is the backend-computed balance of a unit
type UnitBalance struct {
	ID        int     `json:"id"`
	UnitID    int     `json:"unitId"`
	Balance   float64 `json:"balance"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// UnitFee is a monthly obligation attached to a unit
type UnitFee struct {
	ID        int     `json:"id"`
	UnitID    int     `json:"unitId"`
	Month     string  `json:"month"`
	Amount    float64 `json:"amount"`
	DueFrom   string  `json:"dueFrom"`
	DueTo     string  `json:"dueTo"`
	IsPaid    bool    `json:"isPaid"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
	Unit      *Unit   `json:"unit,omitempty"`
}
