package models

import "time"

// BookingStatus is the closed set of booking states. Keeping it typed
// means a typo'd status fails at compile time instead of falling through
// to a default UI state.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusVacated   BookingStatus = "vacated"
)

// Active reports whether the booking still blocks a new one.
func (s BookingStatus) Active() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed:
		return true
	case StatusRejected, StatusVacated:
		return false
	}
	return false
}

// Terminal reports whether the owner is free to re-book.
func (s BookingStatus) Terminal() bool {
	return s == StatusRejected || s == StatusVacated
}

type BedStatus string

const (
	BedAvailable BedStatus = "available"
	BedPending   BedStatus = "pending"
	BedTaken     BedStatus = "taken"
)

type BedState struct {
	Status     BedStatus `json:"status" bson:"status"`
	OccupantID string    `json:"occupantId,omitempty" bson:"occupantId,omitempty"`
	UpdatedAt  int64     `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Room bed slot keys are stable for the room's lifetime; only the
// state values change.
type Room struct {
	ID         string              `json:"id" bson:"id"`
	RoomNumber string              `json:"roomNumber" bson:"roomNumber"`
	Gender     string              `json:"gender" bson:"gender"` // wing tag: Boys / Girls
	Beds       map[string]BedState `json:"beds" bson:"beds"`
	CreatedAt  int64               `json:"createdAt" bson:"createdAt"`
}

type LeaveRequest struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Booking is keyed by the requesting user's id: one document per user,
// which is what enforces the single-active-booking rule at the store level.
type Booking struct {
	UserID       string        `json:"userId" bson:"userId"`
	UserEmail    string        `json:"userEmail" bson:"userEmail"`
	UserName     string        `json:"userName" bson:"userName"`
	RoomID       string        `json:"roomId" bson:"roomId"`
	RoomNumber   string        `json:"roomNumber" bson:"roomNumber"`
	BedID        string        `json:"bedId" bson:"bedId"`
	Status       BookingStatus `json:"status" bson:"status"`
	Timestamp    time.Time     `json:"timestamp" bson:"timestamp"`
	ApprovedAt   *time.Time    `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	LeaveRequest *LeaveRequest `json:"leaveRequest,omitempty" bson:"leaveRequest,omitempty"`
}

type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestApproved   RequestStatus = "approved"
	RequestRejected   RequestStatus = "rejected"
	RequestInProgress RequestStatus = "in-progress"
	RequestResolved   RequestStatus = "resolved"
)

type Outpass struct {
	ID            string        `json:"id" bson:"id"`
	UserID        string        `json:"userId" bson:"userId"`
	UserEmail     string        `json:"userEmail" bson:"userEmail"`
	UserName      string        `json:"userName" bson:"userName"`
	Destination   string        `json:"destination" bson:"destination"`
	FromDate      string        `json:"fromDate" bson:"fromDate"`
	ToDate        string        `json:"toDate" bson:"toDate"`
	Reason        string        `json:"reason" bson:"reason"`
	ParentContact string        `json:"parentContact" bson:"parentContact"`
	Status        RequestStatus `json:"status" bson:"status"`
	PassID        string        `json:"passId,omitempty" bson:"passId,omitempty"`
	Timestamp     time.Time     `json:"timestamp" bson:"timestamp"`
}

type Complaint struct {
	ID          string        `json:"id" bson:"id"`
	UserID      string        `json:"userId" bson:"userId"`
	UserEmail   string        `json:"userEmail" bson:"userEmail"`
	Category    string        `json:"category" bson:"category"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description" bson:"description"`
	Urgency     string        `json:"urgency" bson:"urgency"`
	Status      RequestStatus `json:"status" bson:"status"`
	Timestamp   time.Time     `json:"timestamp" bson:"timestamp"`
}

type Notice struct {
	ID        string    `json:"id" bson:"id"`
	Message   string    `json:"message" bson:"message"`
	PostedBy  string    `json:"postedBy" bson:"postedBy"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Notification with a nil RecipientID is a broadcast visible to everyone.
// ReadBy/DeletedBy hold user ids so one document serves all recipients.
type Notification struct {
	ID          string    `json:"id" bson:"id"`
	RecipientID *string   `json:"recipientId" bson:"recipientId"`
	Message     string    `json:"message" bson:"message"`
	ReadBy      []string  `json:"readBy,omitempty" bson:"readBy,omitempty"`
	DeletedBy   []string  `json:"deletedBy,omitempty" bson:"deletedBy,omitempty"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

type Meal struct {
	Item      string `json:"item" bson:"item"`
	IsSpecial bool   `json:"isSpecial" bson:"isSpecial"`
}

// MenuDay is stored one document per weekday, doc id = lowercase day name.
type MenuDay struct {
	Day       string `json:"day" bson:"day"`
	Breakfast Meal   `json:"breakfast" bson:"breakfast"`
	Lunch     Meal   `json:"lunch" bson:"lunch"`
	Snacks    Meal   `json:"snacks" bson:"snacks"`
	Dinner    Meal   `json:"dinner" bson:"dinner"`
}

type MealRating struct {
	ID        string    `json:"id" bson:"id"` // userID-day-meal, one vote per user per slot
	UserID    string    `json:"userId" bson:"userId"`
	Day       string    `json:"day" bson:"day"`
	Meal      string    `json:"meal" bson:"meal"`
	Rating    string    `json:"rating" bson:"rating"` // like / dislike
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// AuditEntry is append-only; nothing in the portal reads it back.
type AuditEntry struct {
	ID        string    `json:"id" bson:"id"`
	Action    string    `json:"action" bson:"action"`
	ActorID   string    `json:"actorId" bson:"actorId"`
	ActorMail string    `json:"actorEmail" bson:"actorEmail"`
	TargetID  string    `json:"targetId" bson:"targetId"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"password,omitempty" bson:"password"`
	DisplayName   string    `json:"displayName" bson:"displayName"`
	PhotoURL      string    `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Gender        string    `json:"gender,omitempty" bson:"gender,omitempty"`
	StudentID     string    `json:"studentId,omitempty" bson:"studentId,omitempty"`
	Role          []string  `json:"role" bson:"role"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"-" bson:"last_login,omitempty"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	DeletedBy     string    `json:"deletedBy,omitempty" bson:"deletedBy,omitempty"`
}

// Event is a message published on the hostel-events channel.
type Event struct {
	Kind     string `json:"kind"`
	EntityID string `json:"entityId"`
	UserID   string `json:"userId,omitempty"`
	Message  string `json:"message,omitempty"`
}
