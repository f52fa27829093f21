package venue

import (
    "github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
    api := router.PathPrefix("/api/v1/venues").Subrouter()

    api.HandleFunc("", handler.CreateDatespot).Methods("POST")
    api.HandleFunc("/ingest", handler.IngestDatespots).Methods("POST")
    api.HandleFunc("/near", handler.QueryNear).Methods("GET")
    api.HandleFunc("/{id}", handler.GetDatespot).Methods("GET")
}
