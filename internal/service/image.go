package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/repository"
	"github.com/recipebox/recipebox-api/internal/validation"
)

const (
	recipeImageDir = "uploads/recipe"

	// imagePathAttempts bounds the retries when a generated name is already taken.
	imagePathAttempts = 3
)

var (
	ErrInvalidImage   = errors.New("invalid image")
	ErrImagePathTaken = errors.New("no free image path")
)

// newImageID names stored images; tests replace it for deterministic paths.
var newImageID = uuid.NewString

// RecipeImagePath returns uploads/recipe/<uuid>.<ext>, taking the extension
// from the client filename and falling back to the decoded format.
func RecipeImagePath(filename, format string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == "." {
		ext = "." + format
	}
	return path.Join(recipeImageDir, newImageID()+ext)
}

// UploadImage validates data as an image, stores it and points the recipe at
// it. The previous image, if any, is removed best-effort. A payload that is not
// a decodable image leaves the recipe untouched.
func (s *RecipeService) UploadImage(ctx context.Context, userID, id int64, filename string, data []byte) (*model.Recipe, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil || img.Bounds().Empty() {
		s.metrics.ImageUpload("rejected", len(data))
		return nil, validation.Field("image",
			"upload a valid image; the file you uploaded was either not an image or a corrupted image",
			ErrInvalidImage)
	}

	stored, err := s.freeImagePath(ctx, filename, format)
	if err != nil {
		return nil, err
	}
	if err := s.disk.Put(ctx, stored, data, "image/"+format); err != nil {
		return nil, err
	}

	if err := s.recipes.SetImage(ctx, userID, id, stored); err != nil {
		s.removeImage(ctx, stored)
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if existing.Image != stored {
		s.removeImage(ctx, existing.Image)
	}
	s.metrics.ImageUpload("stored", len(data))

	rec := existing.Recipe
	rec.Image = stored
	return &rec, nil
}

// freeImagePath picks a RecipeImagePath that no stored file occupies, so an
// upload never overwrites another recipe's image.
func (s *RecipeService) freeImagePath(ctx context.Context, filename, format string) (string, error) {
	for range imagePathAttempts {
		candidate := RecipeImagePath(filename, format)
		taken, err := s.disk.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrImagePathTaken
}
