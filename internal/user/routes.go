package user

import (
    "github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
    api := router.PathPrefix("/api/v1/users").Subrouter()

    api.HandleFunc("", handler.Register).Methods("POST")
    api.HandleFunc("/{id}", handler.GetUser).Methods("GET")
    api.HandleFunc("/{id}/location", handler.UpdateLocation).Methods("PUT")
    api.HandleFunc("/{id}/tastes", handler.UpdateTaste).Methods("PUT")
    api.HandleFunc("/{id}/swipe", handler.Swipe).Methods("POST")
    api.HandleFunc("/{id}/candidates", handler.GetCandidates).Methods("GET")
    api.HandleFunc("/{id}/candidates/next", handler.NextCandidate).Methods("GET")
}
