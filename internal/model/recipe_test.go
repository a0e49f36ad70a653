package model

import (
	"encoding/json"
	"testing"
)

func TestStringers(t *testing.T) {
	if got := (User{Email: "test@gmail.com"}).String(); got != "test@gmail.com" {
		t.Errorf("User.String() = %q", got)
	}
	if got := Tag{Name: "Vegan"}.String(); got != "Vegan" {
		t.Errorf("Tag.String() = %q", got)
	}
	if got := Ingredient{Name: "Cucumber"}.String(); got != "Cucumber" {
		t.Errorf("Ingredient.String() = %q", got)
	}
	if got := (Recipe{Title: "Steak and mushroom sauce"}).String(); got != "Steak and mushroom sauce" {
		t.Errorf("Recipe.String() = %q", got)
	}
}

func TestNewRecipeResponse(t *testing.T) {
	url := func(path string) string { return "http://cdn.test/" + path }

	resp := NewRecipeResponse(Recipe{ID: 3, Title: "Soup", TimeMinutes: 10, Price: 550}, url)
	if resp.ImageURL != nil {
		t.Errorf("ImageURL = %v, want nil", *resp.ImageURL)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	want := `{"id":3,"title":"Soup","time_minutes":10,"price":"5.50","tags":[],"ingredients":[],"image_url":null}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}

	withImage := NewRecipeResponse(Recipe{ID: 3, Image: "uploads/recipe/a.jpg", TagIDs: []int64{1}}, url)
	if withImage.ImageURL == nil || *withImage.ImageURL != "http://cdn.test/uploads/recipe/a.jpg" {
		t.Errorf("ImageURL = %v", withImage.ImageURL)
	}
	if len(withImage.Tags) != 1 || withImage.Tags[0] != 1 {
		t.Errorf("Tags = %v, want [1]", withImage.Tags)
	}
}

func TestNewRecipeDetailResponse(t *testing.T) {
	detail := RecipeDetail{
		Recipe:      Recipe{ID: 1, Title: "Curry"},
		Tags:        []Tag{{ID: 2, Name: "Spicy"}},
		Ingredients: nil,
	}

	resp := NewRecipeDetailResponse(detail, func(string) string { return "" })
	if len(resp.Tags) != 1 || resp.Tags[0].Name != "Spicy" {
		t.Errorf("Tags = %+v", resp.Tags)
	}
	if resp.Ingredients == nil {
		t.Error("Ingredients should encode as an empty list")
	}
}
