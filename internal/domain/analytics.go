package domain

// CategoryCount — число товаров в категории.
type CategoryCount struct {
	Name  string
	Count int
}

// BrandCount — число товаров бренда.
type BrandCount struct {
	Brand string
	Count int
}

// AnalyticsSnapshot — агрегаты по каталогу для дашборда.
type AnalyticsSnapshot struct {
	TotalProducts      int
	TopCategories      []CategoryCount
	AvgPriceByMaterial map[string]float64
	BrandDistribution  []BrandCount
}

// StaticAnalyticsSnapshot возвращает зафиксированный снимок аналитики.
// Данные не вычисляются из индекса; каждый вызов отдаёт новую копию.
func StaticAnalyticsSnapshot() *AnalyticsSnapshot {
	return &AnalyticsSnapshot{
		TotalProducts: 1024,
		TopCategories: []CategoryCount{
			{Name: "Home & Kitchen", Count: 450},
			{Name: "Office Furniture", Count: 250},
			{Name: "Patio & Garden", Count: 150},
		},
		AvgPriceByMaterial: map[string]float64{
			"Wood":            450.99,
			"Metal":           210.50,
			"Fabric":          680.20,
			"Engineered Wood": 120.00,
		},
		BrandDistribution: []BrandCount{
			{Brand: "Modway Store", Count: 55},
			{Brand: "GOYMFK", Count: 40},
			{Brand: "Noori Rug", Count: 30},
		},
	}
}
