package service

import (
	"context"
	"errors"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Polls wraps the /polls endpoints
type Polls struct {
	client *api.Client
}

// NewPolls creates the polls service
func NewPolls(client *api.Client) *Polls {
	return &Polls{client: client}
}

// CreatePollRequest opens a vote for the building
type CreatePollRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	StartAt     string   `json:"startAt"`
	EndAt       string   `json:"endAt"`
	Options     []string `json:"options"`
}

// List returns the building's polls
func (s *Polls) List(ctx context.Context) ([]model.Poll, error) {
	var polls []model.Poll
	if err := s.client.Get(ctx, "/polls", &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// Get returns one poll with per-option vote counts
func (s *Polls) Get(ctx context.Context, id int) (*model.Poll, error) {
	var poll model.Poll
	if err := s.client.Get(ctx, fmt.Sprintf("/polls/%d", id), &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// Create opens a poll (manager only)
func (s *Polls) Create(ctx context.Context, req CreatePollRequest) (*model.Poll, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	if len(req.Options) < 2 {
		return nil, errors.New("a poll needs at least two options")
	}
	var poll model.Poll
	if err := s.client.Post(ctx, "/polls", req, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// Vote records the current user's choice
func (s *Polls) Vote(ctx context.Context, pollID, optionID int) (*model.Vote, error) {
	body := struct {
		OptionID int `json:"optionId"`
	}{OptionID: optionID}
	var vote model.Vote
	if err := s.client.Post(ctx, fmt.Sprintf("/polls/%d/votes", pollID), body, &vote); err != nil {
		return nil, err
	}
	return &vote, nil
}

// Close ends a poll early (manager only)
func (s *Polls) Close(ctx context.Context, pollID int) error {
	return s.client.Post(ctx, fmt.Sprintf("/polls/%d/close", pollID), nil, nil)
}
