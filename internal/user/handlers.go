package user

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"

    "github.com/B-T-D/datespot-suggester-sub000/internal/common/utils"
    "github.com/B-T-D/datespot-suggester-sub000/internal/geo"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
    var dto RegisterUserDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    u, err := h.service.Register(r.Context(), dto.Name, geo.Point{Lat: dto.Lat, Lon: dto.Lon})
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, u)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    u, err := h.service.Get(r.Context(), id)
    if err != nil {
        if errors.Is(err, ErrUserNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get user")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    var dto UpdateLocationDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    if err := h.service.UpdateLocation(r.Context(), id, geo.Point{Lat: dto.Lat, Lon: dto.Lon}); err != nil {
        if errors.Is(err, ErrUserNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    utils.MessageResponse(w, "location updated", http.StatusOK)
}

func (h *Handler) UpdateTaste(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    var dto UpdateTasteDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    if err := h.service.UpdateTaste(r.Context(), id, dto.Trait, dto.Strength); err != nil {
        if errors.Is(err, ErrUserNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    utils.MessageResponse(w, "taste updated", http.StatusOK)
}

func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    var dto SwipeDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    candidateID, err := uuid.Parse(dto.CandidateID)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid candidate ID")
        return
    }

    switch dto.Decision {
    case "accept":
        result, err := h.service.Accept(r.Context(), id, candidateID)
        if err != nil {
            respondSwipeError(w, err)
            return
        }
        utils.RespondWithJSON(w, http.StatusOK, result)
    case "reject":
        if err := h.service.Reject(r.Context(), id, candidateID); err != nil {
            respondSwipeError(w, err)
            return
        }
        utils.MessageResponse(w, "candidate rejected", http.StatusOK)
    case "defer":
        if err := h.service.Defer(r.Context(), id, candidateID); err != nil {
            respondSwipeError(w, err)
            return
        }
        utils.MessageResponse(w, "candidate deferred", http.StatusOK)
    }
}

func (h *Handler) GetCandidates(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    views, err := h.service.Candidates(r.Context(), id)
    if err != nil {
        if errors.Is(err, ErrUserNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get candidates")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, views)
}

func (h *Handler) NextCandidate(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    view, err := h.service.NextCandidate(r.Context(), id)
    if err != nil {
        switch {
        case errors.Is(err, ErrUserNotFound):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        case errors.Is(err, ErrNoCandidates):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get next candidate")
        }
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, view)
}

func respondSwipeError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, ErrUserNotFound):
        utils.RespondWithError(w, http.StatusNotFound, err.Error())
    case errors.Is(err, ErrSelfSwipe), errors.Is(err, ErrBlacklisted):
        utils.RespondWithError(w, http.StatusConflict, err.Error())
    default:
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process swipe")
    }
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
    id, err := uuid.Parse(mux.Vars(r)["id"])
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
        return uuid.Nil, false
    }
    return id, true
}
