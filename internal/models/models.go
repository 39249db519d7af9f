package models

import "time"

// Recurrence types for events
const (
	RecurrenceNone    = "none"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// Attendee statuses
const (
	AttendeeStatusPending  = "pending"
	AttendeeStatusApproved = "approved"
)

// Friendship statuses
const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
)

// Notification types
const (
	NotificationTypeEvent   = "event"
	NotificationTypeFriend  = "friend"
	NotificationTypeMessage = "message"
)

// Profile represents an account in the system
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	PushToken    *string   `json:"-"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event represents a social event. Recurrence fields are nil unless
// IsRecurring is set; EventTime is a local time of day in "15:04" form.
type Event struct {
	ID                  string    `json:"id"`
	HostID              string    `json:"host_id"`
	Description         string    `json:"description"`
	EventDate           time.Time `json:"event_date"`
	EventTime           string    `json:"event_time"`
	IsRecurring         bool      `json:"is_recurring"`
	RecurrenceType      *string   `json:"recurrence_type,omitempty"`
	RecurrenceDayOfWeek *int      `json:"recurrence_day_of_week,omitempty"`
	RecurrenceWeek      *int      `json:"recurrence_week_of_month,omitempty"`
	Tags                []string  `json:"tags"`
	IsPublic            bool      `json:"is_public"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	ImageURL            *string   `json:"image_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// EventAttendee links a user to an event. The host row is inserted with
// status approved at event-creation time.
type EventAttendee struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is an event-scoped group chat message
type Message struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageRead marks an event message as read by a user
type MessageRead struct {
	MessageID string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	ReadAt    time.Time `json:"read_at"`
}

// DirectMessage is a user-pair-scoped private message
type DirectMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Text        string    `json:"text"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Friendship is a directed edge; a mutual friendship may be stored in
// either direction and must be queried both ways.
type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is created as a side effect of state-changing actions and
// delivered via the change feed and push.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID string    `json:"related_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCounts aggregates per-user unread tallies for tab badges
type UnreadCounts struct {
	EventMessages  int64 `json:"event_messages"`
	DirectMessages int64 `json:"direct_messages"`
	Notifications  int64 `json:"notifications"`
}
