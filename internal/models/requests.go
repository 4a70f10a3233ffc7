package models

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type CreateComplaintRequest struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description" binding:"required"`
	Category    ComplaintCategory `json:"category" binding:"required"`
}

type UpdateComplaintRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Category    *ComplaintCategory `json:"category,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateBillRequest struct {
	OwnerID      uuid.UUID `json:"owner_id" binding:"required"`
	BillNumber   string    `json:"bill_number" binding:"required,max=50"`
	ConsumerName string    `json:"consumer_name" binding:"required,max=100"`
	Address      string    `json:"address" binding:"required"`
	Amount       float64   `json:"amount" binding:"required,gte=0"`
	DueDate      time.Time `json:"due_date" binding:"required"`
}

type UpdateBillRequest struct {
	ConsumerName *string    `json:"consumer_name,omitempty"`
	Address      *string    `json:"address,omitempty"`
	Amount       *float64   `json:"amount,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

type SendMessageRequest struct {
	RecipientID uuid.UUID       `json:"recipient_id" binding:"required"`
	Subject     string          `json:"subject" binding:"required,max=200"`
	Content     string          `json:"content" binding:"required"`
	Priority    MessagePriority `json:"priority"`
}
