package list_unavailabilities

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PlanningService/internal/api/handlers"
	listUnavailabilities "github.com/m04kA/SMC-PlanningService/internal/usecase/list_unavailabilities"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

const (
	msgInvalidFieldID = "ID терраина некорректен"
	msgFieldNotFound  = "терраин не найден"
)

type Handler struct {
	useCase ListUnavailabilitiesUseCase
	logger  Logger
}

func NewHandler(useCase ListUnavailabilitiesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/unavailabilities
// Query params: from, to (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fieldID, err := strconv.ParseInt(mux.Vars(r)["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/unavailabilities - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	query := r.URL.Query()
	req := &listUnavailabilities.Request{
		FieldID: types.ID(fieldID),
		From:    query.Get("from"),
		To:      query.Get("to"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, listUnavailabilities.ErrInvalidInput):
			h.logger.Warn("GET /fields/{id}/unavailabilities - Invalid input: field_id=%d, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, listUnavailabilities.ErrFieldNotFound):
			h.logger.Warn("GET /fields/{id}/unavailabilities - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		default:
			h.logger.Error("GET /fields/{id}/unavailabilities - Failed to list records: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /fields/{id}/unavailabilities - Records retrieved successfully: field_id=%d, count=%d", fieldID, len(result.Items))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
