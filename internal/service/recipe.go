package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/recipebox/recipebox-api/internal/metrics"
	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/repository"
	"github.com/recipebox/recipebox-api/internal/storage"
	"github.com/recipebox/recipebox-api/internal/validation"
)

var (
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrUnknownAttribute  = errors.New("linked object does not exist")
	ErrInvalidFilterList = errors.New("invalid id list")
)

// RecipeService handles recipe business logic. Every operation is scoped to
// the calling user.
type RecipeService struct {
	recipes     *repository.RecipeRepository
	tags        *repository.AttributeRepository
	ingredients *repository.AttributeRepository
	disk        storage.Disk
	validate    *validation.Validator
	metrics     *metrics.Metrics
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	recipes *repository.RecipeRepository,
	tags, ingredients *repository.AttributeRepository,
	disk storage.Disk,
	validate *validation.Validator,
	m *metrics.Metrics,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		disk:        disk,
		validate:    validate,
		metrics:     m,
	}
}

// ImageURL resolves a stored image path to its public URL.
func (s *RecipeService) ImageURL(path string) string {
	return s.disk.URL(path)
}

// ParseRecipeFilter parses the comma separated tags and ingredients query values.
func ParseRecipeFilter(tags, ingredients string) (model.RecipeFilter, error) {
	var filter model.RecipeFilter
	var err error
	if filter.TagIDs, err = parseIDList("tags", tags); err != nil {
		return model.RecipeFilter{}, err
	}
	if filter.IngredientIDs, err = parseIDList("ingredients", ingredients); err != nil {
		return model.RecipeFilter{}, err
	}
	return filter, nil
}

func parseIDList(field, raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, validation.Field(field, fmt.Sprintf("%q is not a valid id", part), ErrInvalidFilterList)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List returns the caller's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, userID int64, filter model.RecipeFilter) ([]model.Recipe, error) {
	return s.recipes.List(ctx, userID, filter)
}

// Get returns one of the caller's recipes with tags and ingredients resolved.
func (s *RecipeService) Get(ctx context.Context, userID, id int64) (*model.RecipeDetail, error) {
	detail, err := s.recipes.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return detail, nil
}

// Create stores a new recipe for the caller. Title, time and price are required.
func (s *RecipeService) Create(ctx context.Context, userID int64, req model.RecipeRequest) (*model.RecipeDetail, error) {
	rec := &model.Recipe{UserID: userID}
	if err := s.apply(ctx, rec, req, false); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.metrics.RecipeWrite("create")
	return s.Get(ctx, userID, rec.ID)
}

// Update changes one of the caller's recipes. A partial update touches only the
// supplied fields and keeps omitted link sets; a full update requires the
// scalar fields and clears omitted link sets.
func (s *RecipeService) Update(ctx context.Context, userID, id int64, req model.RecipeRequest, partial bool) (*model.RecipeDetail, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rec := existing.Recipe
	if !partial {
		rec.TagIDs, rec.IngredientIDs = nil, nil
	}
	if err := s.apply(ctx, &rec, req, partial); err != nil {
		return nil, err
	}

	replaceTags := !partial || req.Tags != nil
	replaceIngredients := !partial || req.Ingredients != nil
	if err := s.recipes.Update(ctx, &rec, replaceTags, replaceIngredients); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	s.metrics.RecipeWrite("update")
	return s.Get(ctx, userID, id)
}

// Delete removes one of the caller's recipes and its stored image.
func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.recipes.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	s.removeImage(ctx, existing.Image)
	s.metrics.RecipeWrite("delete")
	return nil
}

// apply validates req and copies the supplied fields onto rec. When partial is
// false the scalar fields must all be present.
func (s *RecipeService) apply(ctx context.Context, rec *model.Recipe, req model.RecipeRequest, partial bool) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := s.validate.Validate(req); err != nil {
		return err
	}

	fields := map[string]string{}
	if !partial {
		if req.Title == nil {
			fields["title"] = "is required"
		}
		if req.TimeMinutes == nil {
			fields["time_minutes"] = "is required"
		}
		if req.Price == nil {
			fields["price"] = "is required"
		}
	}
	if req.Price != nil && (*req.Price < 0 || *req.Price >= model.MaxPrice) {
		fields["price"] = "must be between 0.00 and 999.99"
	}
	if len(fields) > 0 {
		return &validation.Error{Fields: fields, Err: validation.ErrInvalid}
	}

	if req.Tags != nil {
		if err := s.checkOwned(ctx, s.tags, "tags", rec.UserID, *req.Tags); err != nil {
			return err
		}
		rec.TagIDs = *req.Tags
	}
	if req.Ingredients != nil {
		if err := s.checkOwned(ctx, s.ingredients, "ingredients", rec.UserID, *req.Ingredients); err != nil {
			return err
		}
		rec.IngredientIDs = *req.Ingredients
	}

	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		rec.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		rec.Price = *req.Price
	}
	return nil
}

// checkOwned rejects link ids that do not exist or belong to another user.
func (s *RecipeService) checkOwned(ctx context.Context, repo *repository.AttributeRepository, field string, userID int64, ids []int64) error {
	missing, err := repo.MissingIDs(ctx, userID, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return validation.Field(field, fmt.Sprintf("invalid pk %q - object does not exist", strconv.FormatInt(missing[0], 10)), ErrUnknownAttribute)
	}
	return nil
}

// removeImage deletes a stored image best-effort; failures are only logged.
func (s *RecipeService) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.disk.Delete(ctx, path); err != nil {
		slog.Warn("failed to delete recipe image", "path", path, "error", err)
	}
}
