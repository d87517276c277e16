package service

import (
	"context"
	"strings"
	"time"

	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/events"
	"roomdesk/internal/metrics"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: admission, reschedule,
// cancellation and the read views.
type BookingService struct {
	repo         domain.Repository
	eventBus     domain.EventPublisher
	notifyWorker domain.NotifyWorker
	cache        domain.AvailabilityCache
	clock        domain.Clock
	locks        roomLocks
	maxTitleLen  int
	horizonDays  int
	logger       *zerolog.Logger
}

func NewBookingService(
	repo domain.Repository,
	eventBus domain.EventPublisher,
	notifyWorker domain.NotifyWorker,
	cache domain.AvailabilityCache,
	clock domain.Clock,
	maxTitleLen int,
	horizonDays int,
	logger *zerolog.Logger,
) *BookingService {
	if maxTitleLen <= 0 {
		maxTitleLen = models.MaxTitleLength
	}
	if horizonDays <= 0 {
		horizonDays = models.DefaultBookingHorizonDays
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &BookingService{
		repo:         repo,
		eventBus:     eventBus,
		notifyWorker: notifyWorker,
		cache:        cache,
		clock:        clock,
		maxTitleLen:  maxTitleLen,
		horizonDays:  horizonDays,
		logger:       logger,
	}
}

// ProposeRequest describes a new booking attempt.
type ProposeRequest struct {
	RoomID      int64
	UserID      int64
	Interval    models.Interval
	Title       string
	Description string
}

// RescheduleRequest carries the fields to change. Nil pointers keep the
// current value.
type RescheduleRequest struct {
	BookingID   int64
	CallerID    int64
	RoomID      *int64
	Interval    *models.Interval
	Title       *string
	Description *string
}

// BookingViews groups the three listing views. A booking may appear in more
// than one (a cancelled future booking is both past and cancelled).
type BookingViews struct {
	Upcoming  []*models.Booking
	Past      []*models.Booking
	Cancelled []*models.Booking
}

func (s *BookingService) validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || len(trimmed) > s.maxTitleLen {
		return database.ErrInvalidTitle
	}
	return nil
}

func (s *BookingService) validateInterval(iv models.Interval, now time.Time) error {
	if !iv.End.After(iv.Start) {
		return models.ErrInvalidInterval
	}
	if !iv.Start.After(now) {
		return database.ErrPastBooking
	}
	if iv.Start.After(now.AddDate(0, 0, s.horizonDays)) {
		return database.ErrDateTooFar
	}
	return nil
}

// Propose admits a booking when its interval does not overlap any active
// booking of the room. On conflict the returned error carries the first
// conflicting booking.
func (s *BookingService) Propose(ctx context.Context, req ProposeRequest) (*models.Booking, error) {
	if err := s.validateTitle(req.Title); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.validateInterval(req.Interval, now); err != nil {
		return nil, err
	}

	room, err := s.repo.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		RoomID:      room.ID,
		RoomName:    room.Name,
		UserID:      user.ID,
		UserName:    user.Name,
		Start:       req.Interval.Start,
		End:         req.Interval.End,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
	}

	unlock := s.locks.lock(room.ID)
	defer unlock()

	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		if database.IsConflict(err) {
			metrics.IncAdmission("conflict")
		}
		return nil, err
	}
	metrics.IncAdmission("admitted")

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("room_id", room.ID).
		Time("start", booking.Start).
		Time("end", booking.End).
		Msg("booking admitted")

	s.afterMutation(ctx, events.EventBookingConfirmed, booking, user)
	return booking, nil
}

// Reschedule moves or retitles a booking. The caller must own the booking or
// be an admin, the booking must not be cancelled and must not have started.
func (s *BookingService) Reschedule(ctx context.Context, req RescheduleRequest) (*models.Booking, error) {
	caller, err := s.repo.GetUser(ctx, req.CallerID)
	if err != nil {
		return nil, err
	}
	booking, err := s.repo.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeBookingAccess(caller, booking); err != nil {
		return nil, err
	}
	if booking.IsCancelled {
		return nil, database.ErrNotFound
	}

	now := s.clock.Now()
	if !booking.Start.After(now) {
		return nil, database.ErrPastBooking
	}

	oldInterval := booking.Interval()
	oldRoomID := booking.RoomID

	if req.Title != nil {
		if err := s.validateTitle(*req.Title); err != nil {
			return nil, err
		}
		booking.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		booking.Description = *req.Description
	}
	if req.Interval != nil {
		booking.Start = req.Interval.Start
		booking.End = req.Interval.End
	}
	if req.RoomID != nil && *req.RoomID != booking.RoomID {
		room, err := s.repo.GetRoom(ctx, *req.RoomID)
		if err != nil {
			return nil, err
		}
		booking.RoomID = room.ID
		booking.RoomName = room.Name
	}

	if err := s.validateInterval(booking.Interval(), now); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(booking.RoomID)
	defer unlock()

	if err := s.repo.UpdateBookingWithLock(ctx, booking, booking.Version); err != nil {
		if database.IsConflict(err) {
			metrics.IncAdmission("conflict")
		}
		return nil, err
	}
	metrics.IncAdmission("admitted")

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("room_id", booking.RoomID).
		Time("start", booking.Start).
		Time("end", booking.End).
		Msg("booking rescheduled")

	s.invalidateDays(ctx, oldRoomID, oldInterval)
	s.afterMutation(ctx, events.EventBookingRescheduled, booking, caller)
	return booking, nil
}

// Cancel soft-deletes a booking. The slot becomes free for new admissions but
// the record stays readable.
func (s *BookingService) Cancel(ctx context.Context, bookingID, callerID int64) error {
	caller, err := s.repo.GetUser(ctx, callerID)
	if err != nil {
		return err
	}
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := authorizeBookingAccess(caller, booking); err != nil {
		return err
	}
	if booking.IsCancelled {
		// Cancelling twice is a no-op.
		return nil
	}

	now := s.clock.Now()
	if !booking.Start.After(now) {
		return database.ErrPastBooking
	}

	if err := s.repo.CancelBooking(ctx, booking.ID, booking.Version); err != nil {
		return err
	}
	booking.IsCancelled = true
	booking.Version++

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("room_id", booking.RoomID).
		Msg("booking cancelled")

	s.afterMutation(ctx, events.EventBookingCancelled, booking, caller)
	return nil
}

// GetBooking loads a single booking, cancelled or not.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

// AvailabilityFor lists the active bookings of a room for one calendar day,
// ordered by start. Served from cache when possible.
func (s *BookingService) AvailabilityFor(ctx context.Context, roomID int64, date time.Time) ([]*models.Booking, error) {
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if bookings, ok, err := s.cache.Get(ctx, roomID, date); err == nil && ok {
			return bookings, nil
		}
	}

	bookings, err := s.repo.GetRoomBookingsForDay(ctx, roomID, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, roomID, date, bookings); err != nil {
			s.logger.Warn().Err(err).Int64("room_id", roomID).Msg("availability cache set failed")
		}
	}
	return bookings, nil
}

// UserBookings returns the three views for one user.
func (s *BookingService) UserBookings(ctx context.Context, userID int64) (*BookingViews, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.views(ctx, userID)
}

// AllBookings returns the three views across all users.
func (s *BookingService) AllBookings(ctx context.Context) (*BookingViews, error) {
	return s.views(ctx, 0)
}

func (s *BookingService) views(ctx context.Context, userID int64) (*BookingViews, error) {
	now := s.clock.Now()

	upcoming, err := s.repo.ListUpcoming(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	past, err := s.repo.ListPast(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.repo.ListCancelled(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BookingViews{Upcoming: upcoming, Past: past, Cancelled: cancelled}, nil
}

// GetBookingsByDateRange returns active bookings intersecting [start, end).
func (s *BookingService) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	return s.repo.GetBookingsByDateRange(ctx, start, end)
}

func (s *BookingService) afterMutation(ctx context.Context, eventType string, booking *models.Booking, actor *models.User) {
	s.invalidateDays(ctx, booking.RoomID, booking.Interval())
	s.publishEvent(eventType, booking, actor)
	s.enqueueNotify(ctx, eventType, booking)
}

func (s *BookingService) invalidateDays(ctx context.Context, roomID int64, iv models.Interval) {
	if s.cache == nil {
		return
	}
	for day := models.Day(iv.Start).Start; day.Before(iv.End); day = day.AddDate(0, 0, 1) {
		if err := s.cache.Invalidate(ctx, roomID, day); err != nil {
			s.logger.Warn().Err(err).Int64("room_id", roomID).Msg("availability cache invalidate failed")
		}
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actor *models.User) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		RoomID:      booking.RoomID,
		RoomName:    booking.RoomName,
		UserID:      booking.UserID,
		UserName:    booking.UserName,
		Start:       booking.Start,
		End:         booking.End,
		Title:       booking.Title,
		IsCancelled: booking.IsCancelled,
	}
	if actor != nil {
		payload.ChangedBy = actor.Role
		payload.ChangedByID = actor.ID
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueNotify(ctx context.Context, eventType string, booking *models.Booking) {
	if s.notifyWorker == nil {
		return
	}
	if err := s.notifyWorker.EnqueueEvent(ctx, eventType, booking); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("event_type", eventType).Msg("notify enqueue error")
	}
}
