package service

import (
	"context"
	"errors"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Announcements wraps the /announcements endpoints
type Announcements struct {
	client *api.Client
}

// NewAnnouncements creates the announcements service
func NewAnnouncements(client *api.Client) *Announcements {
	return &Announcements{client: client}
}

// AnnouncementRequest is the create/update payload
type AnnouncementRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsImportant bool   `json:"isImportant"`
}

// List returns the building's announcements
func (s *Announcements) List(ctx context.Context) ([]model.Announcement, error) {
	var announcements []model.Announcement
	if err := s.client.Get(ctx, "/announcements", &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// Create posts an announcement (manager only)
func (s *Announcements) Create(ctx context.Context, req AnnouncementRequest) (*model.Announcement, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	var announcement model.Announcement
	if err := s.client.Post(ctx, "/announcements", req, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Update edits an announcement
func (s *Announcements) Update(ctx context.Context, id int, req AnnouncementRequest) (*model.Announcement, error) {
	var announcement model.Announcement
	if err := s.client.Put(ctx, fmt.Sprintf("/announcements/%d", id), req, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Delete removes an announcement
func (s *Announcements) Delete(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/announcements/%d", id))
}
