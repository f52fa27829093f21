package messaging

import (
    "github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
    api := router.PathPrefix("/api/v1/chats").Subrouter()

    api.HandleFunc("", handler.CreateChat).Methods("POST")
    api.HandleFunc("/{id}", handler.GetChat).Methods("GET")
    api.HandleFunc("/{id}/messages", handler.SendMessage).Methods("POST")
    api.HandleFunc("/{id}/messages", handler.GetMessages).Methods("GET")
}
