package api

import (
	"encoding/json"
	"net/http"
	"time"

	"roomdesk/internal/models"
	"roomdesk/internal/service"
)

type createBookingRequest struct {
	RoomID      int64  `json:"room_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type rescheduleBookingRequest struct {
	RoomID      *int64  `json:"room_id"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func parseInterval(startStr, endStr string) (models.Interval, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return models.Interval{}, err
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return models.Interval{}, err
	}
	return models.NewInterval(start, end)
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBooking(w, r)
	case http.MethodGet:
		s.listBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var body createBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if body.Start == "" || body.End == "" {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}
	iv, err := parseInterval(body.Start, body.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interval; expected RFC3339 timestamps with end after start")
		return
	}

	booking, err := s.bookings.Propose(r.Context(), service.ProposeRequest{
		RoomID:      body.RoomID,
		UserID:      caller,
		Interval:    iv,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var views *service.BookingViews
	if r.URL.Query().Get("all") == "1" {
		user, err := s.users.GetUser(r.Context(), caller)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		views, err = s.bookings.AllBookings(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
	} else {
		views, err = s.bookings.UserBookings(r.Context(), caller)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"upcoming":  views.Upcoming,
		"past":      views.Past,
		"cancelled": views.Cancelled,
	})
}

func (s *HTTPServer) handleBooking(w http.ResponseWriter, r *http.Request) {
	id, suffix, err := pathID(r.URL.Path, "/api/v1/bookings/")
	if err != nil || suffix != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		booking, err := s.bookings.GetBooking(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)

	case http.MethodPatch:
		s.rescheduleBooking(w, r, id)

	case http.MethodDelete:
		caller, err := callerID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err := s.bookings.Cancel(r.Context(), id, caller); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) rescheduleBooking(w http.ResponseWriter, r *http.Request, id int64) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var body rescheduleBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req := service.RescheduleRequest{
		BookingID:   id,
		CallerID:    caller,
		RoomID:      body.RoomID,
		Title:       body.Title,
		Description: body.Description,
	}

	if (body.Start == nil) != (body.End == nil) {
		writeError(w, http.StatusBadRequest, "start and end must be provided together")
		return
	}
	if body.Start != nil {
		iv, err := parseInterval(*body.Start, *body.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid interval; expected RFC3339 timestamps with end after start")
			return
		}
		req.Interval = &iv
	}

	booking, err := s.bookings.Reschedule(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}
