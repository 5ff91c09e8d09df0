package list_fields

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PlanningService/internal/api/handlers"
	listFields "github.com/m04kA/SMC-PlanningService/internal/usecase/list_fields"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

const msgInvalidOwnerID = "ID владельца некорректен"

type Handler struct {
	useCase ListFieldsUseCase
	logger  Logger
}

func NewHandler(useCase ListFieldsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/owners/{ownerId}/fields
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["ownerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /owners/{id}/fields - Invalid owner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &listFields.Request{OwnerID: types.ID(ownerID)})
	if err != nil {
		if errors.Is(err, listFields.ErrInvalidInput) {
			h.logger.Warn("GET /owners/{id}/fields - Invalid input: owner_id=%d", ownerID)
			handlers.RespondBadRequest(w, msgInvalidOwnerID)
			return
		}
		h.logger.Error("GET /owners/{id}/fields - Failed to list fields: owner_id=%d, error=%v", ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /owners/{id}/fields - Fields retrieved successfully: owner_id=%d, count=%d", ownerID, len(result.Fields))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
