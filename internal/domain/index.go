package domain

// IndexSpec описывает параметры создаваемого векторного индекса.
type IndexSpec struct {
	Name      string
	Dimension int
	Metric    string
}

func NewIndexSpec(name string, dimension int, metric string) IndexSpec {
	return IndexSpec{
		Name:      name,
		Dimension: dimension,
		Metric:    metric,
	}
}
