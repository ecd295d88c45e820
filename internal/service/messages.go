package service

import (
	"context"
	"errors"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Messages wraps the /messages endpoints
type Messages struct {
	client *api.Client
}

// NewMessages creates the messages service
func NewMessages(client *api.Client) *Messages {
	return &Messages{client: client}
}

// SendMessageRequest is the payload for sending a direct message. A nil
// recipient broadcasts to the whole building (manager only).
type SendMessageRequest struct {
	RecipientID *int   `json:"recipientId,omitempty"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
}

// Mine returns the current user's inbox
func (s *Messages) Mine(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := s.client.Get(ctx, "/messages/my", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Unread returns only unread messages
func (s *Messages) Unread(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := s.client.Get(ctx, "/messages/unread", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags a message as read
func (s *Messages) MarkRead(ctx context.Context, id int) error {
	return s.client.Patch(ctx, fmt.Sprintf("/messages/%d/read", id), struct{}{}, nil)
}

// Send delivers a message
func (s *Messages) Send(ctx context.Context, req SendMessageRequest) (*model.Message, error) {
	if req.Subject == "" || req.Content == "" {
		return nil, errors.New("subject and content are required")
	}
	var message model.Message
	if err := s.client.Post(ctx, "/messages", req, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// Delete removes a message from the inbox
func (s *Messages) Delete(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/messages/%d", id))
}
