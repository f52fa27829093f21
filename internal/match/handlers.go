package match

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"

    "github.com/B-T-D/datespot-suggester-sub000/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
    var dto CreateMatchDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    user1ID, err := uuid.Parse(dto.User1ID)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid user1_id")
        return
    }
    user2ID, err := uuid.Parse(dto.User2ID)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid user2_id")
        return
    }

    m, err := h.service.Create(r.Context(), user1ID, user2ID)
    if err != nil {
        var consistency *ConsistencyError
        switch {
        case errors.Is(err, ErrSelfMatch):
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        case errors.Is(err, ErrAlreadyMatched):
            utils.RespondWithError(w, http.StatusConflict, err.Error())
        case errors.As(err, &consistency):
            utils.RespondWithError(w, http.StatusInternalServerError, consistency.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create match")
        }
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, m)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    m, err := h.service.Get(r.Context(), id)
    if err != nil {
        if errors.Is(err, ErrMatchNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get match")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, m)
}

func (h *Handler) RefreshSuggestions(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    count, err := h.service.RefreshSuggestions(r.Context(), id)
    if err != nil {
        if errors.Is(err, ErrMatchNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to refresh suggestions")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, RefreshResponseDTO{SuggestionCount: count})
}

func (h *Handler) NextSuggestion(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    d, err := h.service.NextSuggestion(r.Context(), id)
    if err != nil {
        switch {
        case errors.Is(err, ErrMatchNotFound):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        case errors.Is(err, ErrEmptyQueue):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get next suggestion")
        }
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, d)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
    id, err := uuid.Parse(mux.Vars(r)["id"])
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
        return uuid.Nil, false
    }
    return id, true
}
