package genai

import (
	"context"
	"testing"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateGenerator_Generate(t *testing.T) {
	g := NewTemplateGenerator()

	got, err := g.Generate(context.Background(), domain.Product{Title: "Oak Chair", Material: "Wood", Color: "Brown"})

	require.NoError(t, err)
	assert.Equal(t,
		"Behold the 'Oak Chair' in glorious Brown Wood. Its graceful form invites relaxation and elevates any room into a sanctuary of modern design. A statement piece.",
		got,
	)
}

func TestTemplateGenerator_Defaults(t *testing.T) {
	got, err := NewTemplateGenerator().Generate(context.Background(), domain.Product{})

	require.NoError(t, err)
	assert.Contains(t, got, "Behold the 'Product' in glorious Neutral Wood.")
}

func TestTemplateGenerator_IgnoresOtherFields(t *testing.T) {
	g := NewTemplateGenerator()
	base := domain.Product{Title: "Desk", Material: "Metal", Color: "Black"}
	other := base
	other.Categories = "Office Furniture"
	other.ImageRef = "desk.jpg"

	a, err := g.Generate(context.Background(), base)
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestTemplateGenerator_NoEscaping(t *testing.T) {
	got, err := NewTemplateGenerator().Generate(context.Background(), domain.Product{Title: `Tom & Jerry "Loveseat"`})

	require.NoError(t, err)
	assert.Contains(t, got, `'Tom & Jerry "Loveseat"'`)
}
