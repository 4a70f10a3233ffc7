package policy

import (
	"citizen-services/internal/models"
)

// Action is an operation an actor may attempt on a record.
type Action string

const (
	ActionView       Action = "view"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionMarkStatus Action = "mark_status"
)

// Policy decides whether an actor may act on a record. Rules:
//
//   - Citizens may view/edit/delete only records they own. Complaint
//     status changes are reserved for staff; bill status changes are
//     additionally granted to the owner (clearing their own bill).
//   - Staff may perform any action on any complaint or bill.
//   - Messages are visible to their recipient only; nobody edits or
//     deletes a sent message, and only the recipient marks it read.
//   - Creating bills and sending messages require the staff role.
//
// A denied action maps to apperrors.ErrForbidden or ErrNotFound at the
// workflow layer; no mutation happens on denial.
type Policy struct{}

func New() *Policy {
	return &Policy{}
}

// CanActComplaint reports whether the actor may perform action on the
// complaint. Only staff move complaints through the workflow; owners
// cannot resolve their own complaints.
func (p *Policy) CanActComplaint(actor models.Actor, c *models.Complaint, action Action) bool {
	if actor.IsStaff() {
		return true
	}
	if action == ActionMarkStatus {
		return false
	}
	return actor.ID == c.OwnerID
}

// CanActBill reports whether the actor may perform action on the bill.
func (p *Policy) CanActBill(actor models.Actor, b *models.ElectricityBill, action Action) bool {
	if actor.IsStaff() {
		return true
	}
	return actor.ID == b.OwnerID
}

// CanActMessage reports whether the actor may perform action on the message.
func (p *Policy) CanActMessage(actor models.Actor, m *models.Message, action Action) bool {
	switch action {
	case ActionView, ActionMarkStatus:
		return actor.ID == m.RecipientID
	default:
		// Sent messages are immutable, staff included.
		return false
	}
}

// CanCreateBill reports whether the actor may issue electricity bills.
func (p *Policy) CanCreateBill(actor models.Actor) bool {
	return actor.IsStaff()
}

// CanSendMessage reports whether the actor may send messages to citizens.
func (p *Policy) CanSendMessage(actor models.Actor) bool {
	return actor.IsStaff()
}

// CanListAll reports whether the actor may list records across all owners.
func (p *Policy) CanListAll(actor models.Actor) bool {
	return actor.IsStaff()
}
