package domain

// Recommendation — товар из индекса и сгенерированное для него описание.
// Создаётся на каждый запрос и нигде не хранится.
type Recommendation struct {
	Product     Product
	Description string
	Score       float32
}

func NewRecommendation(product Product, description string, score float32) *Recommendation {
	return &Recommendation{
		Product:     product,
		Description: description,
		Score:       score,
	}
}

// Match — одно совпадение top-K запроса к векторному индексу.
type Match struct {
	ID       string
	Score    float32
	Metadata Metadata
}

func NewMatch(id string, score float32, metadata Metadata) *Match {
	return &Match{
		ID:       id,
		Score:    score,
		Metadata: metadata,
	}
}
