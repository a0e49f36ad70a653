package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-api/internal/crypto"
	"github.com/recipebox/recipebox-api/internal/metrics"
	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/repository"
	"github.com/recipebox/recipebox-api/internal/storage"
	"github.com/recipebox/recipebox-api/internal/validation"
)

type testEnv struct {
	auth        *AuthService
	tags        *AttributeService
	ingredients *AttributeService
	recipes     *RecipeService
	disk        *storage.LocalDisk
	mediaRoot   string
	tokens      *crypto.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := repository.NewDB(repository.DriverSQLite, filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(context.Background(), db, repository.DriverSQLite))

	mediaRoot := filepath.Join(dir, "media")
	disk, err := storage.NewLocalDisk(mediaRoot, "http://localhost:8080/media")
	require.NoError(t, err)

	v := validation.New()
	m := metrics.New()
	hasher := crypto.NewHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	tokens := crypto.NewTokenIssuer("test-secret", time.Hour)

	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)

	return &testEnv{
		auth:        NewAuthService(repository.NewUserRepository(db), hasher, tokens, v, m),
		tags:        NewAttributeService(tagRepo, v),
		ingredients: NewAttributeService(ingredientRepo, v),
		recipes:     NewRecipeService(repository.NewRecipeRepository(db), tagRepo, ingredientRepo, disk, v, m),
		disk:        disk,
		mediaRoot:   mediaRoot,
		tokens:      tokens,
	}
}

func (e *testEnv) user(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := e.auth.CreateUser(context.Background(), model.CreateUserRequest{
		Email: email, Password: "testpass", Name: "Test user",
	})
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T {
	return &v
}
