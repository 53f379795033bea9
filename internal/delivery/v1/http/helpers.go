package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/go-playground/validator/v10"
	"github.com/jimlawless/whereami"
)

const maxRequestBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrPromptRequired):
		return http.StatusBadRequest, e.ErrPromptRequired.Error()
	case errors.Is(err, e.ErrInvalidTopK):
		return http.StatusBadRequest, e.ErrInvalidTopK.Error()
	case errors.Is(err, e.ErrInvalidJSON):
		return http.StatusBadRequest, e.ErrInvalidJSON.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Пустое тело и не-JSON считаются ошибкой клиента.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return e.Wrap(whereami.WhereAmI(), e.ErrInvalidJSON)
		}
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}

	return nil
}

// validateRecommendRequest переводит ошибки валидатора в ошибки из pkg/e.
func validateRecommendRequest(req *RecommendRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	switch verrs[0].StructField() {
	case "Prompt":
		return e.Wrap(whereami.WhereAmI(), e.ErrPromptRequired)
	case "TopK":
		return e.Wrap(whereami.WhereAmI(), e.ErrInvalidTopK)
	default:
		return e.Wrap(verrs[0].Error(), e.ErrStatusBadRequest)
	}
}
