package model

// Poll is a vote opened by a manager for the building's residents
type Poll struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	StartAt     string       `json:"startAt"`
	EndAt       string       `json:"endAt"`
	IsActive    bool         `json:"isActive"`
	CreatedBy   *User        `json:"createdBy,omitempty"`
	Options     []PollOption `json:"options,omitempty"`
	TotalVotes  int          `json:"totalVotes,omitempty"`
	UserVote    *Vote        `json:"userVote,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}

// PollOption is one selectable answer; VoteCount is only populated on
// results views
type PollOption struct {
	ID         int    `json:"id"`
	PollID     int    `json:"pollId"`
	OptionText string `json:"optionText"`
	VoteCount  int    `json:"voteCount,omitempty"`
}

// Vote records a single user's choice on a poll
type Vote struct {
	ID       int    `json:"id"`
	PollID   int    `json:"pollId"`
	UserID   int    `json:"userId"`
	OptionID int    `json:"optionId"`
	VotedAt  string `json:"votedAt,omitempty"`
}

// Document is a building document stored in the archive
type Document struct {
	ID         int    `json:"id"`
	BuildingID int    `json:"buildingId"`
	Title      string `json:"title"`
	FileName   string `json:"fileName"`
	URL        string `json:"url,omitempty"`
	UploadedBy int    `json:"uploadedBy,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}
