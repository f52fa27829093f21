package messaging

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

func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
    var dto CreateChatDTO
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

    c, err := h.service.CreateChat(r.Context(), user1ID, user2ID)
    if err != nil {
        if errors.Is(err, ErrSelfChat) {
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create chat")
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    c, err := h.service.GetChat(r.Context(), id)
    if err != nil {
        if errors.Is(err, ErrChatNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get chat")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    var dto SendMessageDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    senderID, err := uuid.Parse(dto.SenderID)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid sender_id")
        return
    }

    m, err := h.service.SendMessage(r.Context(), id, senderID, dto.Text)
    if err != nil {
        switch {
        case errors.Is(err, ErrChatNotFound):
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
        case errors.Is(err, ErrNotParticipant):
            utils.RespondWithError(w, http.StatusForbidden, err.Error())
        case errors.Is(err, ErrEmptyMessage):
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
        }
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, m)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok {
        return
    }

    messages, err := h.service.Messages(r.Context(), id)
    if err != nil {
        if errors.Is(err, ErrChatNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get messages")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, messages)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
    id, err := uuid.Parse(mux.Vars(r)["id"])
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid chat ID")
        return uuid.Nil, false
    }
    return id, true
}
