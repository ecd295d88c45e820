package model

// Message is a direct message between a manager and a resident
type Message struct {
	ID            int    `json:"id"`
	SenderID      int    `json:"senderId"`
	SenderName    string `json:"senderName,omitempty"`
	RecipientID   *int   `json:"recipientId,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`
	Subject       string `json:"subject"`
	Content       string `json:"content"`
	IsRead        bool   `json:"isRead"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// Announcement is a building-wide notice posted by a manager
type Announcement struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	CreatedBy     int    `json:"createdBy"`
	CreatedByName string `json:"createdByName,omitempty"`
	IsImportant   bool   `json:"isImportant"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}
