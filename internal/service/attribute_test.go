package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-api/internal/model"
)

func TestAttributeService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user(t, "cook@example.com")
	other := env.user(t, "other@example.com")

	tag, err := env.tags.Create(ctx, user.ID, model.CreateAttributeRequest{Name: "  Vegan "})
	require.NoError(t, err)
	assert.Equal(t, "Vegan", tag.Name)

	_, err = env.tags.Create(ctx, other.ID, model.CreateAttributeRequest{Name: "Fruity"})
	require.NoError(t, err)

	got, err := env.tags.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tag.ID, got[0].ID)
}

func TestAttributeService_CreateInvalid(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "cook@example.com")

	for _, name := range []string{"", "   ", string(make([]byte, 256))} {
		_, err := env.ingredients.Create(context.Background(), user.ID, model.CreateAttributeRequest{Name: name})
		assert.Contains(t, fieldErrors(t, err), "name")
	}
}

func TestParseAssignedOnly(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: "", want: false},
		{in: "0", want: false},
		{in: "1", want: true},
		{in: "yes", wantErr: true},
		{in: "2", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAssignedOnly(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
