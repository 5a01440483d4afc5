package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/observability"
)

// Schedule-change event types consumed by the front-of-house site.
const (
	EventCourseCreated     = "course_created"
	EventCourseDeleted     = "course_deleted"
	EventDatesShifted      = "dates_shifted"
	EventCompletionToggled = "completion_toggled"
	EventRosterChanged     = "roster_changed"
	EventLessonRescheduled = "lesson_rescheduled"
)

// ScheduleEvent describes one mutation of the published schedule. Every
// course mutation emits one, so downstream consumers can refresh the views
// that the denormalized student copies would otherwise leave stale.
type ScheduleEvent struct {
	Type       string    `json:"type"`
	Category   string    `json:"category"`
	Round      string    `json:"round"`
	CourseName string    `json:"course_name"`
	LessonID   int       `json:"lesson_id,omitempty"`
	StudentID  string    `json:"student_id,omitempty"`
	Source     string    `json:"source"`
	SentAt     time.Time `json:"sent_at"`
}

// ScheduleEventPublisher fans schedule-change events out to interested
// consumers. Publishing is best effort; failures are logged, never fatal.
type ScheduleEventPublisher interface {
	Publish(ctx context.Context, event ScheduleEvent)
}

type scheduleEventService struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	nodeID       string
	now          func() time.Time
}

// NewScheduleEventService constructs the schedule-event publisher. Either
// broker connection may be nil; events then flow only through the other.
func NewScheduleEventService(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) ScheduleEventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &scheduleEventService{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "schedule_events").Logger(),
		nodeID:       uuid.NewString(),
		now:          time.Now,
	}
}

func (s *scheduleEventService) Publish(ctx context.Context, event ScheduleEvent) {
	event.Source = s.nodeID
	event.SentAt = s.now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to encode schedule event")
		return
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish schedule event to redis")
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish schedule event to nats")
		}
	}

	observability.ScheduleEvents().WithLabelValues(event.Type).Inc()
}
