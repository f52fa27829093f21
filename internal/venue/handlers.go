package venue

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

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

func (h *Handler) CreateDatespot(w http.ResponseWriter, r *http.Request) {
    var dto CreateDatespotDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    d, err := h.service.Create(r.Context(), dto.Name, geo.Point{Lat: dto.Lat, Lon: dto.Lon}, Config{
        Traits:     dto.Traits,
        PriceRange: dto.PriceRange,
    })
    if err != nil {
        if errors.Is(err, ErrMalformedTrait) || errors.Is(err, ErrInvalidLocation) {
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create datespot")
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, d)
}

func (h *Handler) IngestDatespots(w http.ResponseWriter, r *http.Request) {
    var dto IngestDatespotsDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }
    if err := utils.ValidateStruct(dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    datespots := make([]*Datespot, 0, len(dto.Datespots))
    for _, entry := range dto.Datespots {
        d, err := NewDatespot(entry.Name, geo.Point{Lat: entry.Lat, Lon: entry.Lon}, Config{
            Traits:     entry.Traits,
            PriceRange: entry.PriceRange,
        }, h.service.Reference())
        if err != nil {
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
            return
        }
        datespots = append(datespots, d)
    }

    written, err := h.service.Ingest(r.Context(), datespots)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to ingest datespots")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, IngestResultDTO{
        Received: len(dto.Datespots),
        Written:  written,
    })
}

func (h *Handler) GetDatespot(w http.ResponseWriter, r *http.Request) {
    vars := mux.Vars(r)

    d, err := h.service.Get(r.Context(), vars["id"])
    if err != nil {
        if errors.Is(err, ErrDatespotNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, d)
}

func (h *Handler) QueryNear(w http.ResponseWriter, r *http.Request) {
    lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
    lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
    if errLat != nil || errLon != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "lat and lon query parameters are required")
        return
    }

    radius := 0.0
    if raw := r.URL.Query().Get("radius"); raw != "" {
        parsed, err := strconv.ParseFloat(raw, 64)
        if err != nil {
            utils.RespondWithError(w, http.StatusBadRequest, "Invalid radius")
            return
        }
        radius = parsed
    }

    candidates, err := h.service.QueryNear(r.Context(), geo.Point{Lat: lat, Lon: lon}, radius)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, candidates)
}
