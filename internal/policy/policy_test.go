package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"citizen-services/internal/models"
)

func TestComplaintAccess(t *testing.T) {
	pol := New()

	owner := models.Actor{ID: uuid.New(), Role: models.RoleCitizen}
	stranger := models.Actor{ID: uuid.New(), Role: models.RoleCitizen}
	staff := models.Actor{ID: uuid.New(), Role: models.RoleStaff}
	complaint := &models.Complaint{ID: uuid.New(), OwnerID: owner.ID}

	for _, action := range []Action{ActionView, ActionEdit, ActionDelete} {
		t.Run(string(action), func(t *testing.T) {
			assert.True(t, pol.CanActComplaint(owner, complaint, action))
			assert.True(t, pol.CanActComplaint(staff, complaint, action))
			assert.False(t, pol.CanActComplaint(stranger, complaint, action))
		})
	}

	t.Run("status changes are staff only", func(t *testing.T) {
		assert.True(t, pol.CanActComplaint(staff, complaint, ActionMarkStatus))
		assert.False(t, pol.CanActComplaint(owner, complaint, ActionMarkStatus), "owners cannot resolve their own complaints")
		assert.False(t, pol.CanActComplaint(stranger, complaint, ActionMarkStatus))
	})
}

func TestBillAccess(t *testing.T) {
	pol := New()

	owner := models.Actor{ID: uuid.New(), Role: models.RoleCitizen}
	stranger := models.Actor{ID: uuid.New(), Role: models.RoleCitizen}
	staff := models.Actor{ID: uuid.New(), Role: models.RoleStaff}
	bill := &models.ElectricityBill{ID: uuid.New(), OwnerID: owner.ID}

	for _, action := range []Action{ActionView, ActionEdit, ActionDelete, ActionMarkStatus} {
		t.Run(string(action), func(t *testing.T) {
			assert.True(t, pol.CanActBill(owner, bill, action))
			assert.True(t, pol.CanActBill(staff, bill, action))
			assert.False(t, pol.CanActBill(stranger, bill, action))
		})
	}

	assert.True(t, pol.CanCreateBill(staff))
	assert.False(t, pol.CanCreateBill(owner), "citizens never issue bills")
}

func TestMessageAccess(t *testing.T) {
	pol := New()

	sender := models.Actor{ID: uuid.New(), Role: models.RoleStaff}
	recipient := models.Actor{ID: uuid.New(), Role: models.RoleCitizen}
	stranger := models.Actor{ID: uuid.New(), Role: models.RoleCitizen}
	msg := &models.Message{ID: uuid.New(), SenderID: sender.ID, RecipientID: recipient.ID}

	t.Run("only the recipient views and marks read", func(t *testing.T) {
		assert.True(t, pol.CanActMessage(recipient, msg, ActionView))
		assert.True(t, pol.CanActMessage(recipient, msg, ActionMarkStatus))
		assert.False(t, pol.CanActMessage(stranger, msg, ActionView))
		assert.False(t, pol.CanActMessage(sender, msg, ActionView), "senders have no read access after sending")
	})

	t.Run("sent messages are immutable for everyone", func(t *testing.T) {
		for _, actor := range []models.Actor{sender, recipient, stranger} {
			assert.False(t, pol.CanActMessage(actor, msg, ActionEdit))
			assert.False(t, pol.CanActMessage(actor, msg, ActionDelete))
		}
	})

	t.Run("sending requires the staff role", func(t *testing.T) {
		assert.True(t, pol.CanSendMessage(sender))
		assert.False(t, pol.CanSendMessage(recipient))
	})
}

func TestListAll(t *testing.T) {
	pol := New()

	assert.True(t, pol.CanListAll(models.Actor{ID: uuid.New(), Role: models.RoleStaff}))
	assert.False(t, pol.CanListAll(models.Actor{ID: uuid.New(), Role: models.RoleCitizen}))
}
