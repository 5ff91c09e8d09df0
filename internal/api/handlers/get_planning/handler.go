package get_planning

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PlanningService/internal/api/handlers"
	getPlanning "github.com/m04kA/SMC-PlanningService/internal/usecase/get_planning"
)

const (
	msgInvalidFieldID = "ID терраина некорректен"
	msgInvalidOwnerID = "ID владельца некорректен"
	msgInvalidWeek    = "некорректный формат недели, ожидается YYYY-MM-DD"
	msgInvalidWait    = "параметр wait должен быть true или false"
	msgFieldNotFound  = "терраин не найден"
)

var (
	errInvalidOwnerID = errors.New(msgInvalidOwnerID)
	errInvalidWeek    = errors.New(msgInvalidWeek)
	errInvalidWait    = errors.New(msgInvalidWait)
)

type Handler struct {
	useCase GetPlanningUseCase
	logger  Logger
}

func NewHandler(useCase GetPlanningUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/planning
// Query params: week (optional, YYYY-MM-DD), ownerId (optional), wait (optional, bool)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем fieldId из URL
	fieldID, err := strconv.ParseInt(vars["fieldId"], 10, 64)
	if err != nil || fieldID <= 0 {
		h.logger.Warn("GET /fields/{id}/planning - Invalid field ID: %s", vars["fieldId"])
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(fieldID, query.Get("ownerId"), query.Get("week"), query.Get("wait"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/planning - Invalid query: field_id=%d, error=%v", fieldID, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getPlanning.ErrInvalidInput):
			h.logger.Warn("GET /fields/{id}/planning - Invalid input: field_id=%d, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getPlanning.ErrFieldNotFound):
			h.logger.Warn("GET /fields/{id}/planning - Field not found: field_id=%d, owner_id=%d", fieldID, useCaseReq.OwnerID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		default:
			h.logger.Error("GET /fields/{id}/planning - Failed to build planning: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /fields/{id}/planning - Planning built successfully: field_id=%d, week=%s, rows=%d",
		fieldID, result.WeekStart, len(result.Rows))
	handlers.RespondJSON(w, http.StatusOK, response)
}
