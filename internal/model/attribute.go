package model

// Attribute is a user-owned label attached to recipes. Tags and
// ingredients share this shape and live in separate tables.
type Attribute struct {
	ID     int64
	UserID int64
	Name   string
}

func (a Attribute) String() string {
	return a.Name
}

type (
	Tag        = Attribute
	Ingredient = Attribute
)

// CreateAttributeRequest represents a tag or ingredient creation request.
type CreateAttributeRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AttributeResponse is the flat DTO for tags and ingredients.
type AttributeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewAttributeResponses(attrs []Attribute) []AttributeResponse {
	out := make([]AttributeResponse, len(attrs))
	for i, a := range attrs {
		out[i] = AttributeResponse{ID: a.ID, Name: a.Name}
	}
	return out
}
