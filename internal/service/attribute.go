package service

import (
	"context"
	"strings"

	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/repository"
	"github.com/recipebox/recipebox-api/internal/validation"
)

// AttributeService manages one attribute kind (tags or ingredients) for its owner.
type AttributeService struct {
	repo     *repository.AttributeRepository
	validate *validation.Validator
}

func NewAttributeService(repo *repository.AttributeRepository, validate *validation.Validator) *AttributeService {
	return &AttributeService{repo: repo, validate: validate}
}

// List returns the caller's attributes ordered by name descending.
func (s *AttributeService) List(ctx context.Context, userID int64, assignedOnly bool) ([]model.Attribute, error) {
	return s.repo.ListByUser(ctx, userID, assignedOnly)
}

// Create stores a new attribute owned by the caller.
func (s *AttributeService) Create(ctx context.Context, userID int64, req model.CreateAttributeRequest) (*model.Attribute, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	attr := &model.Attribute{UserID: userID, Name: req.Name}
	if err := s.repo.Create(ctx, attr); err != nil {
		return nil, err
	}
	return attr, nil
}

// ParseAssignedOnly interprets the assigned_only query flag: "1" enables it,
// "" and "0" disable it.
func ParseAssignedOnly(v string) (bool, error) {
	switch strings.TrimSpace(v) {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, validation.Field("assigned_only", "must be 0 or 1", nil)
	}
}
