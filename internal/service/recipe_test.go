package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-api/internal/model"
)

func sampleRecipe(tags, ingredients []int64) model.RecipeRequest {
	req := model.RecipeRequest{
		Title:       ptr("Sample recipe"),
		TimeMinutes: ptr(10),
		Price:       ptr(model.Price(500)),
	}
	if tags != nil {
		req.Tags = &tags
	}
	if ingredients != nil {
		req.Ingredients = &ingredients
	}
	return req
}

func (e *testEnv) tag(t *testing.T, userID int64, name string) int64 {
	t.Helper()
	tag, err := e.tags.Create(context.Background(), userID, model.CreateAttributeRequest{Name: name})
	require.NoError(t, err)
	return tag.ID
}

func (e *testEnv) ingredient(t *testing.T, userID int64, name string) int64 {
	t.Helper()
	ing, err := e.ingredients.Create(context.Background(), userID, model.CreateAttributeRequest{Name: name})
	require.NoError(t, err)
	return ing.ID
}

func TestRecipeService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")

	vegan := env.tag(t, user.ID, "Vegan")
	dessert := env.tag(t, user.ID, "Dessert")
	prawns := env.ingredient(t, user.ID, "Prawns")

	got, err := env.recipes.Create(ctx, user.ID, model.RecipeRequest{
		Title:       ptr("Avocado lime cheesecake"),
		TimeMinutes: ptr(60),
		Price:       ptr(model.Price(2000)),
		Tags:        &[]int64{vegan, dessert},
		Ingredients: &[]int64{prawns},
	})
	require.NoError(t, err)
	assert.Equal(t, "Avocado lime cheesecake", got.Title)
	assert.Equal(t, 60, got.TimeMinutes)
	assert.Equal(t, model.Price(2000), got.Price)
	assert.ElementsMatch(t, []int64{vegan, dessert}, got.TagIDs)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Prawns", got.Ingredients[0].Name)
}

func TestRecipeService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")

	_, err := env.recipes.Create(ctx, user.ID, model.RecipeRequest{Title: ptr("No time or price")})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "time_minutes")
	assert.Contains(t, fields, "price")

	tooExpensive := sampleRecipe(nil, nil)
	tooExpensive.Price = ptr(model.MaxPrice)
	_, err = env.recipes.Create(ctx, user.ID, tooExpensive)
	assert.Contains(t, fieldErrors(t, err), "price")

	negativeTime := sampleRecipe(nil, nil)
	negativeTime.TimeMinutes = ptr(-1)
	_, err = env.recipes.Create(ctx, user.ID, negativeTime)
	assert.Contains(t, fieldErrors(t, err), "time_minutes")

	blank := sampleRecipe(nil, nil)
	blank.Title = ptr("   ")
	_, err = env.recipes.Create(ctx, user.ID, blank)
	assert.Contains(t, fieldErrors(t, err), "title")
}

func TestRecipeService_ForeignLinksRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")
	other := env.user(t, "other@example.com")

	theirs := env.tag(t, other.ID, "Not yours")

	_, err := env.recipes.Create(ctx, user.ID, sampleRecipe([]int64{theirs}, nil))
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	assert.Contains(t, fieldErrors(t, err), "tags")

	_, err = env.recipes.Create(ctx, user.ID, sampleRecipe(nil, []int64{4242}))
	assert.Contains(t, fieldErrors(t, err), "ingredients")

	list, err := env.recipes.List(ctx, user.ID, model.RecipeFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecipeService_Isolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")
	other := env.user(t, "other@example.com")

	_, err := env.recipes.Create(ctx, other.ID, sampleRecipe(nil, nil))
	require.NoError(t, err)
	mine, err := env.recipes.Create(ctx, user.ID, sampleRecipe(nil, nil))
	require.NoError(t, err)

	list, err := env.recipes.List(ctx, user.ID, model.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = env.recipes.Get(ctx, other.ID, mine.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = env.recipes.Update(ctx, other.ID, mine.ID, model.RecipeRequest{Title: ptr("Stolen")}, true)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	assert.ErrorIs(t, env.recipes.Delete(ctx, other.ID, mine.ID), ErrRecipeNotFound)
}

func TestRecipeService_PartialUpdateKeepsLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")

	spicy := env.tag(t, user.ID, "Spicy")
	curry := env.tag(t, user.ID, "Curry")
	chicken := env.ingredient(t, user.ID, "Chicken")

	rec, err := env.recipes.Create(ctx, user.ID, sampleRecipe([]int64{spicy}, []int64{chicken}))
	require.NoError(t, err)

	got, err := env.recipes.Update(ctx, user.ID, rec.ID, model.RecipeRequest{
		Title: ptr("Chicken tikka"),
		Tags:  &[]int64{curry},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "Chicken tikka", got.Title)
	assert.Equal(t, 10, got.TimeMinutes)
	assert.Equal(t, []int64{curry}, got.TagIDs)
	assert.Equal(t, []int64{chicken}, got.IngredientIDs)
}

func TestRecipeService_FullUpdateClearsLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")

	spicy := env.tag(t, user.ID, "Spicy")
	rec, err := env.recipes.Create(ctx, user.ID, sampleRecipe([]int64{spicy}, nil))
	require.NoError(t, err)

	got, err := env.recipes.Update(ctx, user.ID, rec.ID, model.RecipeRequest{
		Title:       ptr("Spaghetti carbonara"),
		TimeMinutes: ptr(25),
		Price:       ptr(model.Price(500)),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "Spaghetti carbonara", got.Title)
	assert.Equal(t, 25, got.TimeMinutes)
	assert.Empty(t, got.Tags)

	_, err = env.recipes.Update(ctx, user.ID, rec.ID, model.RecipeRequest{Title: ptr("Only title")}, false)
	assert.Contains(t, fieldErrors(t, err), "price")
}

func TestRecipeService_Filter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")

	vegan := env.tag(t, user.ID, "Vegan")
	vegetarian := env.tag(t, user.ID, "Vegetarian")
	feta := env.ingredient(t, user.ID, "Feta cheese")

	r1, err := env.recipes.Create(ctx, user.ID, sampleRecipe([]int64{vegan}, nil))
	require.NoError(t, err)
	r2, err := env.recipes.Create(ctx, user.ID, sampleRecipe([]int64{vegetarian}, []int64{feta}))
	require.NoError(t, err)
	_, err = env.recipes.Create(ctx, user.ID, sampleRecipe(nil, nil))
	require.NoError(t, err)

	filter, err := ParseRecipeFilter("1, 2", "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, filter.TagIDs)

	list, err := env.recipes.List(ctx, user.ID, model.RecipeFilter{TagIDs: []int64{vegan, vegetarian}})
	require.NoError(t, err)
	ids := []int64{}
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{r2.ID, r1.ID}, ids)

	_, err = ParseRecipeFilter("1,abc", "")
	assert.ErrorIs(t, err, ErrInvalidFilterList)
	assert.Contains(t, fieldErrors(t, err), "tags")

	_, err = ParseRecipeFilter("", "0")
	assert.Contains(t, fieldErrors(t, err), "ingredients")
}

func TestRecipeService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")

	rec, err := env.recipes.Create(ctx, user.ID, sampleRecipe(nil, nil))
	require.NoError(t, err)

	require.NoError(t, env.recipes.Delete(ctx, user.ID, rec.ID))
	_, err = env.recipes.Get(ctx, user.ID, rec.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}
