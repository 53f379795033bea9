package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Ключи метаданных товара в векторном индексе.
const (
	MetaTitle      = "title"
	MetaPrice      = "price"
	MetaImages     = "images"
	MetaCategories = "categories"
	MetaMaterial   = "material"
	MetaColor      = "color"
)

// Metadata — произвольные атрибуты, хранящиеся рядом с вектором.
type Metadata map[string]any

// Product описывает товар, как он хранится в метаданных индекса.
// Сервис товары не создаёт и не изменяет, только читает.
type Product struct {
	Title      string
	RawPrice   any              // значение price из метаданных без изменений, его и отдаёт API
	Price      *decimal.Decimal // нормализованная цена; nil, если не указана или не разбирается
	ImageRef   string           // URL или ключ объекта в S3
	Categories string
	Material   string
	Color      string
}

// NewProductFromMetadata собирает Product из метаданных совпадения.
func NewProductFromMetadata(md Metadata) Product {
	return Product{
		Title:      stringValue(md[MetaTitle]),
		RawPrice:   md[MetaPrice],
		Price:      ParsePrice(md[MetaPrice]),
		ImageRef:   stringValue(md[MetaImages]),
		Categories: listValue(md[MetaCategories]),
		Material:   stringValue(md[MetaMaterial]),
		Color:      stringValue(md[MetaColor]),
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// listValue склеивает списки через ", ", строки возвращает как есть.
func listValue(v any) string {
	switch l := v.(type) {
	case []string:
		return strings.Join(l, ", ")
	case []any:
		parts := make([]string, 0, len(l))
		for _, item := range l {
			if s := stringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return stringValue(v)
	}
}

// ParsePrice принимает число или строку вида "$1,299.99".
// Исходное значение при этом не меняется: оно остаётся в Product.RawPrice.
func ParsePrice(v any) *decimal.Decimal {
	var d decimal.Decimal
	switch p := v.(type) {
	case float64:
		d = decimal.NewFromFloat(p)
	case float32:
		d = decimal.NewFromFloat32(p)
	case int:
		d = decimal.NewFromInt(int64(p))
	case int64:
		d = decimal.NewFromInt(p)
	case json.Number:
		parsed, err := decimal.NewFromString(p.String())
		if err != nil {
			return nil
		}
		d = parsed
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(p))
		if cleaned == "" {
			return nil
		}
		parsed, err := decimal.NewFromString(cleaned)
		if err != nil {
			return nil
		}
		d = parsed
	default:
		return nil
	}

	if d.IsNegative() {
		return nil
	}

	return &d
}
