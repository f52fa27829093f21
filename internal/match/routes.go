package match

import (
    "github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
    api := router.PathPrefix("/api/v1/matches").Subrouter()

    api.HandleFunc("", handler.CreateMatch).Methods("POST")
    api.HandleFunc("/{id}", handler.GetMatch).Methods("GET")
    api.HandleFunc("/{id}/suggestions/refresh", handler.RefreshSuggestions).Methods("POST")
    api.HandleFunc("/{id}/suggestions/next", handler.NextSuggestion).Methods("GET")
}
