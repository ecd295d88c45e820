package model

// Building represents an apartment building managed through the system.
// AccessCode is only present on responses the manager is allowed to see.
type Building struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	TotalUnits int    `json:"totalUnits,omitempty"`
	AccessCode string `json:"accessCode,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
	Units      []Unit `json:"units,omitempty"`
}
