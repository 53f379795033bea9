package http

import (
	"net/http"

	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
)

// StatusHeader сообщает клиенту, почему ответ такой: ok, no_matches, unavailable, upstream_failure.
const StatusHeader = "X-Recommendation-Status"

type RecommendationHandler struct {
	recommendationUsecase usecase.RecommendationUC
	logger                logger.Logger
}

func NewRecommendationHandler(recommendationUsecase usecase.RecommendationUC, logger logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendationUsecase: recommendationUsecase, logger: logger}
}

// recommend
//
//	@Summary		Рекомендации по текстовому запросу
//	@Description	Ищет похожие товары в векторном индексе и добавляет к каждому описание.
//	@Description	Если рекомендаций нет (в том числе при недоступности внешних сервисов), возвращается одна запись-заглушка.
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecommendRequest			true	"Текст запроса"
//	@Success		200		{array}		RecommendationResponse
//	@Header			200		{string}	X-Recommendation-Status	"ok | no_matches | unavailable | upstream_failure"
//	@Failure		400		{object}	ErrorResponse			"Пустой prompt или некорректный JSON"
//	@Router			/api/recommend [post]
func (h *RecommendationHandler) recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if err := validateRecommendRequest(&req); err != nil {
		h.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	topK := 0
	if req.TopK != nil {
		topK = *req.TopK
	}

	res := h.recommendationUsecase.Recommend(r.Context(), usecase.NewRecommendReq(req.Prompt, topK))
	w.Header().Set(StatusHeader, string(res.Status))

	if res.Empty() {
		if res.Reason != nil {
			h.logger.Warnf("serving fallback recommendation (%s): %v", res.Status, res.Reason)
		}
		WriteSuccess(w, http.StatusOK, []RecommendationResponse{FallbackRecommendation()})
		return
	}

	WriteSuccess(w, http.StatusOK, toArrRecommendationResponse(res.Items))
}
