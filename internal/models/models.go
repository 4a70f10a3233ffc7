package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies what an actor is allowed to do. Modeled as an explicit
// type rather than an is_staff flag so further roles can be added without
// boolean proliferation.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
)

func (r Role) IsValid() bool {
	return r == RoleCitizen || r == RoleStaff
}

// Actor is the authenticated entity performing an operation. Every
// workflow operation receives the actor explicitly; there is no ambient
// current-user state.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
}

// IsStaff reports whether the actor holds the staff role.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// User is the persisted identity record behind an Actor.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DisplayName is the name notifications address the user by.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Actor converts the persisted user into the actor shape the workflow
// layer consumes.
func (u *User) Actor() Actor {
	return Actor{
		ID:          u.ID,
		DisplayName: u.DisplayName(),
		Email:       u.Email,
		Role:        u.Role,
	}
}

type ComplaintCategory string

const (
	CategoryWater       ComplaintCategory = "Water"
	CategoryWaste       ComplaintCategory = "Waste"
	CategoryElectricity ComplaintCategory = "Electricity"
	CategoryRoads       ComplaintCategory = "Roads"
	CategoryOthers      ComplaintCategory = "Others"
)

func (c ComplaintCategory) IsValid() bool {
	switch c {
	case CategoryWater, CategoryWaste, CategoryElectricity, CategoryRoads, CategoryOthers:
		return true
	}
	return false
}

type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// Complaint is a citizen-submitted service complaint. Status transitions
// are unrestricted; any value may follow any other.
type Complaint struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	OwnerID     uuid.UUID         `json:"owner_id" db:"owner_id"`
	Title       string            `json:"title" db:"title"`
	Description string            `json:"description" db:"description"`
	Category    ComplaintCategory `json:"category" db:"category"`
	Status      ComplaintStatus   `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

type BillStatus string

const (
	BillStatusDue     BillStatus = "Due"
	BillStatusCleared BillStatus = "Cleared"
)

func (s BillStatus) IsValid() bool {
	return s == BillStatusDue || s == BillStatusCleared
}

// ElectricityBill is a utility bill issued to a citizen. BillNumber is
// globally unique.
type ElectricityBill struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	OwnerID      uuid.UUID  `json:"owner_id" db:"owner_id"`
	BillNumber   string     `json:"bill_number" db:"bill_number"`
	ConsumerName string     `json:"consumer_name" db:"consumer_name"`
	Address      string     `json:"address" db:"address"`
	Amount       float64    `json:"amount" db:"amount"`
	DueDate      time.Time  `json:"due_date" db:"due_date"`
	Status       BillStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type MessagePriority string

const (
	PriorityLow    MessagePriority = "Low"
	PriorityMedium MessagePriority = "Medium"
	PriorityHigh   MessagePriority = "High"
	PriorityUrgent MessagePriority = "Urgent"
)

func (p MessagePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Message is sent by staff to a citizen. ReadAt is set exactly once, at
// the moment IsRead transitions false to true.
type Message struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	SenderID    uuid.UUID       `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID       `json:"recipient_id" db:"recipient_id"`
	Subject     string          `json:"subject" db:"subject"`
	Content     string          `json:"content" db:"content"`
	Priority    MessagePriority `json:"priority" db:"priority"`
	IsRead      bool            `json:"is_read" db:"is_read"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ReadAt      *time.Time      `json:"read_at,omitempty" db:"read_at"`
}

// TransitionResult describes the outcome of a status mutation. Changed
// gates notification dispatch: a save with an unchanged status never
// re-triggers a notification.
type TransitionResult struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Changed   bool   `json:"changed"`
}

// BillFilter narrows a citizen's bill listing. Search matches bill_number
// or consumer_name case-insensitively; Status is an exact match; both
// compose with AND.
type BillFilter struct {
	Search string
	Status BillStatus
}

// BillStats aggregates the filtered bill set actually displayed.
type BillStats struct {
	Total   int     `json:"total"`
	Due     int     `json:"due"`
	Cleared int     `json:"cleared"`
	Amount  float64 `json:"amount"`
}

// Inbox is a citizen's received messages plus the unread count shown in
// the listing view.
type Inbox struct {
	Messages []Message `json:"messages"`
	Unread   int       `json:"unread"`
}
