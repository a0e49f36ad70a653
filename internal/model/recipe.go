package model

// Recipe represents a recipe row with its linked tag and ingredient ids.
type Recipe struct {
	ID            int64
	UserID        int64
	Title         string
	TimeMinutes   int
	Price         Price
	Image         string
	TagIDs        []int64
	IngredientIDs []int64
}

func (r Recipe) String() string {
	return r.Title
}

// RecipeDetail is a recipe with its tags and ingredients resolved.
type RecipeDetail struct {
	Recipe
	Tags        []Tag
	Ingredients []Ingredient
}

// RecipeFilter restricts a recipe listing. Each non-empty list matches any-of;
// when both are set a recipe must match each.
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipeRequest is the body of create, PUT and PATCH. Nil fields are
// "not supplied".
type RecipeRequest struct {
	Title       *string  `json:"title" validate:"omitnil,required,max=255"`
	TimeMinutes *int     `json:"time_minutes" validate:"omitnil,gte=0,lte=2147483647"`
	Price       *Price   `json:"price"`
	Tags        *[]int64 `json:"tags"`
	Ingredients *[]int64 `json:"ingredients"`
}

// RecipeResponse is the list and write DTO; links are plain ids.
type RecipeResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       Price   `json:"price"`
	Tags        []int64 `json:"tags"`
	Ingredients []int64 `json:"ingredients"`
	ImageURL    *string `json:"image_url"`
}

// RecipeDetailResponse embeds the linked tags and ingredients.
type RecipeDetailResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       Price               `json:"price"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
	ImageURL    *string             `json:"image_url"`
}

// RecipeImageResponse is returned by the image upload endpoint.
type RecipeImageResponse struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
}

// URLFunc resolves a stored image path to a public URL.
type URLFunc func(path string) string

func imageURL(path string, url URLFunc) *string {
	if path == "" {
		return nil
	}
	u := url(path)
	return &u
}

func NewRecipeResponse(r Recipe, url URLFunc) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Tags:        nonNilIDs(r.TagIDs),
		Ingredients: nonNilIDs(r.IngredientIDs),
		ImageURL:    imageURL(r.Image, url),
	}
}

func NewRecipeResponses(recipes []Recipe, url URLFunc) []RecipeResponse {
	out := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = NewRecipeResponse(r, url)
	}
	return out
}

func NewRecipeDetailResponse(d RecipeDetail, url URLFunc) RecipeDetailResponse {
	return RecipeDetailResponse{
		ID:          d.ID,
		Title:       d.Title,
		TimeMinutes: d.TimeMinutes,
		Price:       d.Price,
		Tags:        NewAttributeResponses(d.Tags),
		Ingredients: NewAttributeResponses(d.Ingredients),
		ImageURL:    imageURL(d.Image, url),
	}
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
