package service

import (
	"context"
	"errors"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Documents wraps the /documents endpoints of the building archive
type Documents struct {
	client *api.Client
}

// NewDocuments creates the documents service
func NewDocuments(client *api.Client) *Documents {
	return &Documents{client: client}
}

// DocumentUpload registers a document's metadata; the file itself is stored
// by the backend
type DocumentUpload struct {
	Title    string `json:"title"`
	FileName string `json:"fileName"`
}

// List returns the building's documents
func (s *Documents) List(ctx context.Context) ([]model.Document, error) {
	var documents []model.Document
	if err := s.client.Get(ctx, "/documents", &documents); err != nil {
		return nil, err
	}
	return documents, nil
}

// Upload registers a document (manager only)
func (s *Documents) Upload(ctx context.Context, req DocumentUpload) (*model.Document, error) {
	if req.Title == "" || req.FileName == "" {
		return nil, errors.New("title and file name are required")
	}
	var document model.Document
	if err := s.client.Post(ctx, "/documents", req, &document); err != nil {
		return nil, err
	}
	return &document, nil
}

// Delete removes a document from the archive
func (s *Documents) Delete(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/documents/%d", id))
}
