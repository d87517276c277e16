package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roomdesk/internal/models"
)

func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := s.users.ListUsers(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})

	case http.MethodPost:
		var body models.User
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := s.users.RegisterUser(r.Context(), &body); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, body)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.statsCaller(w, r)
	if !ok {
		return
	}
	overview, err := s.stats.Overview(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *HTTPServer) handleStatsWeekdays(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.statsCaller(w, r)
	if !ok {
		return
	}
	counts, err := s.stats.WeekdayCounts(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weekdays": counts})
}

func (s *HTTPServer) handleStatsOccupancy(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.statsCaller(w, r)
	if !ok {
		return
	}
	rates, err := s.stats.OccupancyRates(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"occupancy": rates})
}

func (s *HTTPServer) statsCaller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return 0, false
	}
	caller, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return 0, false
	}
	return caller, true
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.statsCaller(w, r)
	if !ok {
		return
	}

	// Export reuses the stats guard: admins only.
	if _, err := s.stats.Overview(r.Context(), caller); err != nil {
		writeDomainError(w, err)
		return
	}

	start, end, err := exportRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	workbook, err := s.exporter.BookingsWorkbook(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := workbook.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("write xlsx response")
	}
}

func exportRange(r *http.Request) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	q := r.URL.Query()

	start := time.Now().UTC().AddDate(0, -1, 0)
	end := time.Now().UTC().AddDate(0, 1, 0)

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %s", raw)
		}
		start = parsed
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %s", raw)
		}
		end = parsed.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be after from")
	}
	return start, end, nil
}
