package genai

import (
	"context"
	"strings"
	"text/template"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
)

// Значения, подставляемые вместо пустых полей товара.
const (
	DefaultTitle    = "Product"
	DefaultMaterial = "Wood"
	DefaultColor    = "Neutral"
)

const descriptionTemplate = "Behold the '{{.Title}}' in glorious {{.Color}} {{.Material}}. " +
	"Its graceful form invites relaxation and elevates any room into a sanctuary of modern design. " +
	"A statement piece."

type templateData struct {
	Title    string
	Material string
	Color    string
}

// TemplateGenerator — детерминированный генератор описаний по шаблону.
// Для одинаковых (title, material, color) всегда возвращает одну и ту же строку.
type TemplateGenerator struct {
	tmpl *template.Template
}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{
		tmpl: template.Must(template.New("description").Parse(descriptionTemplate)),
	}
}

func (g *TemplateGenerator) Generate(_ context.Context, product domain.Product) (string, error) {
	const op = "TemplateGenerator.Generate"

	data := templateData{
		Title:    orDefault(product.Title, DefaultTitle),
		Material: orDefault(product.Material, DefaultMaterial),
		Color:    orDefault(product.Color, DefaultColor),
	}

	var sb strings.Builder
	if err := g.tmpl.Execute(&sb, data); err != nil {
		return "", e.Wrap(op, err)
	}

	return sb.String(), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
