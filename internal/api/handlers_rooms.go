package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"roomdesk/internal/models"
)

type roomRequest struct {
	Name      string  `json:"name"`
	Capacity  int64   `json:"capacity"`
	Surface   float64 `json:"surface"`
	Equipment string  `json:"equipment"`
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rooms, err := s.rooms.ListRooms(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})

	case http.MethodPost:
		caller, err := callerID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		var body roomRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(body.Name) == "" || body.Capacity < 1 {
			writeError(w, http.StatusBadRequest, "name and a positive capacity are required")
			return
		}

		room := &models.Room{
			Name:      strings.TrimSpace(body.Name),
			Capacity:  body.Capacity,
			Surface:   body.Surface,
			Equipment: body.Equipment,
		}
		if err := s.rooms.CreateRoom(r.Context(), caller, room); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, room)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleRoom(w http.ResponseWriter, r *http.Request) {
	id, suffix, err := pathID(r.URL.Path, "/api/v1/rooms/")
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if suffix == "availability" {
		s.roomAvailability(w, r, id)
		return
	}
	if suffix != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		room, err := s.rooms.GetRoom(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)

	case http.MethodPut:
		caller, err := callerID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		var body roomRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(body.Name) == "" || body.Capacity < 1 {
			writeError(w, http.StatusBadRequest, "name and a positive capacity are required")
			return
		}

		room := &models.Room{
			ID:        id,
			Name:      strings.TrimSpace(body.Name),
			Capacity:  body.Capacity,
			Surface:   body.Surface,
			Equipment: body.Equipment,
		}
		if err := s.rooms.UpdateRoom(r.Context(), caller, room); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)

	case http.MethodDelete:
		caller, err := callerID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err := s.rooms.DeleteRoom(r.Context(), caller, id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) roomAvailability(w http.ResponseWriter, r *http.Request, roomID int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	bookings, err := s.bookings.AvailabilityFor(r.Context(), roomID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":  roomID,
		"date":     dateStr,
		"bookings": bookings,
	})
}
