package http

import (
	"net/http"

	"github.com/DRSN-tech/recommender-backend/internal/usecase"
)

type AnalyticsHandler struct {
	analyticsUsecase usecase.AnalyticsUC
}

func NewAnalyticsHandler(analyticsUsecase usecase.AnalyticsUC) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUsecase: analyticsUsecase}
}

// getAnalytics
//
//	@Summary		Аналитика каталога
//	@Description	Агрегаты по каталогу для дашборда: категории, средняя цена по материалу, бренды
//	@Tags			analytics
//	@Produce		json
//	@Success		200	{object}	AnalyticsResponse
//	@Router			/api/analytics [get]
func (a *AnalyticsHandler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	snapshot := a.analyticsUsecase.GetSnapshot(r.Context())
	WriteSuccess(w, http.StatusOK, toAnalyticsResponse(snapshot))
}
