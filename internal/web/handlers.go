package web

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-organizer/internal/cluster"
	"github.com/kozaktomas/photo-organizer/internal/events"
	"github.com/kozaktomas/photo-organizer/internal/geo"
	"github.com/kozaktomas/photo-organizer/internal/organizer"
	"github.com/kozaktomas/photo-organizer/internal/store"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) listPhotos(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListPhotos(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list photos")
		return
	}
	if records == nil {
		records = []*organizer.PhotoRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

type eventResponse struct {
	ID     int      `json:"id"`
	Name   string   `json:"name,omitempty"`
	Photos []string `json:"photos"`
}

// gapHours parses the gap query parameter, falling back to the default.
func gapHours(r *http.Request) (float64, bool) {
	raw := r.URL.Query().Get("gap")
	if raw == "" {
		return events.DefaultGapHours, true
	}
	gap, err := strconv.ParseFloat(raw, 64)
	if err != nil || gap < 0 {
		return 0, false
	}
	return gap, true
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	gap, ok := gapHours(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid gap parameter")
		return
	}

	records, err := s.store.ListPhotos(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list photos")
		return
	}

	grouped := events.GroupByEvent(records, gap)

	ids := make([]int, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]eventResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, eventResponseFor(id, grouped[id]))
	}

	respondJSON(w, http.StatusOK, out)
}

type nameEventRequest struct {
	Name string `json:"name"`
}

func (s *Server) nameEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req nameEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	gap, ok := gapHours(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid gap parameter")
		return
	}

	records, err := s.store.ListPhotos(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list photos")
		return
	}

	grouped := events.GroupByEvent(records, gap)
	if _, exists := grouped[eventID]; !exists {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}

	events.NameEvent(grouped, eventID, req.Name)

	if err := s.store.UpsertPhotos(r.Context(), grouped[eventID]); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save event name")
		return
	}

	respondJSON(w, http.StatusOK, eventResponseFor(eventID, grouped[eventID]))
}

func eventResponseFor(id int, records []*organizer.PhotoRecord) eventResponse {
	ev := eventResponse{ID: id, Photos: []string{}}
	for _, rec := range records {
		ev.Photos = append(ev.Photos, rec.Path)
		if rec.EventName != "" {
			ev.Name = rec.EventName
		}
	}
	return ev
}

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	level := organizer.LocationLevel(chi.URLParam(r, "level"))

	records, err := s.store.ListPhotos(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list photos")
		return
	}

	grouped, err := geo.GroupByLocation(records, level)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, grouped)
}

type faceClusterResponse struct {
	ClusterID int      `json:"cluster_id"`
	Name      *string  `json:"name"`
	Photos    []string `json:"photos"`
}

func (s *Server) listFaceClusters(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListPhotos(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list photos")
		return
	}

	labels, err := s.store.ListFaceLabels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list face labels")
		return
	}
	names := make(map[int]string, len(labels))
	for _, l := range labels {
		names[l.ClusterID] = l.Name
	}

	grouped := cluster.GroupByFace(records)

	ids := make([]int, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]faceClusterResponse, 0, len(ids))
	for _, id := range ids {
		c := faceClusterResponse{ClusterID: id, Photos: []string{}}
		if name, ok := names[id]; ok {
			c.Name = &name
		}
		for _, rec := range grouped[id] {
			c.Photos = append(c.Photos, rec.Path)
		}
		out = append(out, c)
	}

	respondJSON(w, http.StatusOK, out)
}

func (s *Server) getFaceLabel(w http.ResponseWriter, r *http.Request) {
	clusterID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cluster id")
		return
	}

	name, found, err := s.store.GetFaceLabel(r.Context(), clusterID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get face label")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"cluster_id": clusterID,
		"name":       nullableName(name, found),
	})
}

func nullableName(name string, found bool) *string {
	if !found {
		return nil
	}
	return &name
}

type setLabelRequest struct {
	Name string `json:"name"`
}

func (s *Server) setFaceLabel(w http.ResponseWriter, r *http.Request) {
	clusterID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cluster id")
		return
	}

	var req setLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := s.store.SetFaceLabel(r.Context(), clusterID, req.Name); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to set face label")
		return
	}

	respondJSON(w, http.StatusOK, store.FaceLabel{ClusterID: clusterID, Name: req.Name})
}

func (s *Server) similarFaces(w http.ResponseWriter, r *http.Request) {
	if s.faceIndex == nil || s.faceIndex.Count() == 0 {
		respondError(w, http.StatusNotFound, "face index not available")
		return
	}

	faceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid face id")
		return
	}

	k := 5
	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k < 1 {
			respondError(w, http.StatusBadRequest, "invalid k parameter")
			return
		}
	}

	matches, err := s.faceIndex.SimilarTo(faceID, k)
	if err != nil {
		respondError(w, http.StatusNotFound, "face not indexed")
		return
	}

	respondJSON(w, http.StatusOK, matches)
}
