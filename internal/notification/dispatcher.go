package notification

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"go.uber.org/zap"

	"citizen-services/internal/apperrors"
	"citizen-services/internal/config"
	"citizen-services/internal/models"
)

const complaintCreatedBody = `Dear {{.Name}},

Your complaint has been successfully submitted to Smart City System.

Complaint Details:
- Title: {{.Complaint.Title}}
- Category: {{.Complaint.Category}}
- Status: {{.Complaint.Status}}
- Description: {{.Complaint.Description}}

Your complaint ID is: {{.Complaint.ID}}

We will review your complaint and update you on the progress.

Thank you for using Smart City System.

Best regards,
{{.FromName}}
`

const complaintStatusBody = `Dear {{.Name}},

Your complaint status has been updated.

Complaint Details:
- Title: {{.Complaint.Title}}
- Category: {{.Complaint.Category}}
- New Status: {{.Complaint.Status}}
- Description: {{.Complaint.Description}}

Thank you for using Smart City System.

Best regards,
{{.FromName}}
`

const billStatusBody = `Dear {{.Name}},

Your electricity bill status has been updated.

Bill Details:
- Bill Number: {{.Bill.BillNumber}}
- Consumer Name: {{.Bill.ConsumerName}}
- Amount: {{printf "%.2f" .Bill.Amount}}
- Due Date: {{.Bill.DueDate.Format "2006-01-02"}}
- Status: {{.Bill.Status}}

Thank you for using Smart City System.

Best regards,
{{.FromName}}
`

const messageReceivedBody = `Dear {{.Name}},

You have received a new message from the city administration.

Subject: {{.Message.Subject}}
Priority: {{.Message.Priority}}

Log in to Smart City System to read it.

Best regards,
{{.FromName}}
`

// Dispatcher formats and sends notifications describing creation and
// status-transition events. Delivery goes through the injected Mailer;
// a failed send surfaces as apperrors.DeliveryError since the caller has
// already committed the persistence change.
type Dispatcher struct {
	mailer    Mailer
	config    *config.EmailConfig
	logger    *zap.Logger
	templates *template.Template
}

// NewDispatcher creates a dispatcher with the fixed notification templates.
func NewDispatcher(mailer Mailer, cfg *config.EmailConfig, logger *zap.Logger) *Dispatcher {
	t := template.New("notifications")
	template.Must(t.New("complaint_created").Parse(complaintCreatedBody))
	template.Must(t.New("complaint_status").Parse(complaintStatusBody))
	template.Must(t.New("bill_status").Parse(billStatusBody))
	template.Must(t.New("message_received").Parse(messageReceivedBody))

	return &Dispatcher{
		mailer:    mailer,
		config:    cfg,
		logger:    logger.Named("dispatcher"),
		templates: t,
	}
}

// ComplaintCreated notifies the owner that their complaint was submitted.
func (d *Dispatcher) ComplaintCreated(ctx context.Context, owner *models.User, c *models.Complaint) error {
	subject := fmt.Sprintf("New Complaint Submitted: %s", c.Title)
	data := map[string]interface{}{
		"Name":      owner.DisplayName(),
		"Complaint": c,
		"FromName":  d.config.FromName,
	}
	return d.send(ctx, "complaint_created", owner.Email, subject, data)
}

// ComplaintStatusChanged notifies the owner of a complaint status transition.
func (d *Dispatcher) ComplaintStatusChanged(ctx context.Context, owner *models.User, c *models.Complaint) error {
	subject := fmt.Sprintf("Complaint Status Update: %s", c.Title)
	data := map[string]interface{}{
		"Name":      owner.DisplayName(),
		"Complaint": c,
		"FromName":  d.config.FromName,
	}
	return d.send(ctx, "complaint_status", owner.Email, subject, data)
}

// BillStatusChanged notifies the owner of a bill status transition.
func (d *Dispatcher) BillStatusChanged(ctx context.Context, owner *models.User, b *models.ElectricityBill) error {
	subject := fmt.Sprintf("Electricity Bill Status Update: %s", b.BillNumber)
	data := map[string]interface{}{
		"Name":     owner.DisplayName(),
		"Bill":     b,
		"FromName": d.config.FromName,
	}
	return d.send(ctx, "bill_status", owner.Email, subject, data)
}

// MessageReceived notifies the recipient that a staff message arrived.
func (d *Dispatcher) MessageReceived(ctx context.Context, recipient *models.User, m *models.Message) error {
	subject := fmt.Sprintf("New Message: %s", m.Subject)
	data := map[string]interface{}{
		"Name":     recipient.DisplayName(),
		"Message":  m,
		"FromName": d.config.FromName,
	}
	return d.send(ctx, "message_received", recipient.Email, subject, data)
}

func (d *Dispatcher) send(ctx context.Context, tmpl, to, subject string, data interface{}) error {
	var body bytes.Buffer
	if err := d.templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return &apperrors.DeliveryError{Err: err}
	}

	email := Email{
		To:      to,
		From:    d.config.FromAddress,
		Subject: subject,
		Body:    body.String(),
	}

	if err := d.mailer.Send(ctx, email); err != nil {
		d.logger.Error("Failed to deliver notification",
			zap.String("template", tmpl),
			zap.String("recipient", to),
			zap.Error(err))
		return &apperrors.DeliveryError{Err: err}
	}

	d.logger.Info("Notification delivered",
		zap.String("template", tmpl),
		zap.String("recipient", to))
	return nil
}
