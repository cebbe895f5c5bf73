package escrow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_AllowedEdges(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		action  Action
		role    Role
		next    Status
	}{
		{"seller accepts pending", StatusPending, ActionAccept, RoleSeller, StatusAccepted},
		{"seller rejects pending", StatusPending, ActionReject, RoleSeller, StatusRejected},
		{"buyer cancels pending", StatusPending, ActionCancel, RoleBuyer, StatusCancelled},
		{"seller cancels pending", StatusPending, ActionCancel, RoleSeller, StatusCancelled},
		{"buyer opens payment on accepted", StatusAccepted, ActionOpenPayment, RoleBuyer, StatusInEscrow},
		{"gateway confirms payment", StatusInEscrow, ActionConfirmPayment, RoleSystem, StatusSuccess},
		{"buyer disputes in escrow", StatusInEscrow, ActionDispute, RoleBuyer, StatusDisputed},
		{"seller disputes in escrow", StatusInEscrow, ActionDispute, RoleSeller, StatusDisputed},
		{"sweep abandons in escrow", StatusInEscrow, ActionAbandon, RoleSystem, StatusAbandoned},
		{"admin resolves dispute to success", StatusDisputed, ActionResolveSuccess, RoleAdmin, StatusSuccess},
		{"admin resolves dispute to failed", StatusDisputed, ActionResolveFailed, RoleAdmin, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed, err := Next(tt.current, tt.action, tt.role)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, tt.next, next)
		})
	}
}

func TestNext_RoleGating(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		action  Action
		role    Role
	}{
		{"buyer cannot accept", StatusPending, ActionAccept, RoleBuyer},
		{"buyer cannot reject", StatusPending, ActionReject, RoleBuyer},
		{"seller cannot confirm payment", StatusInEscrow, ActionConfirmPayment, RoleSeller},
		{"buyer cannot resolve dispute", StatusDisputed, ActionResolveSuccess, RoleBuyer},
		{"seller cannot resolve dispute", StatusDisputed, ActionResolveFailed, RoleSeller},
		{"buyer cannot abandon", StatusInEscrow, ActionAbandon, RoleBuyer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed, err := Next(tt.current, tt.action, tt.role)
			require.ErrorIs(t, err, ErrForbidden)
			assert.False(t, changed)
			assert.Equal(t, tt.current, next, "status must stay unchanged")
		})
	}
}

func TestNext_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		action  Action
		role    Role
	}{
		{"accept after cancel", StatusCancelled, ActionAccept, RoleSeller},
		{"reject in escrow", StatusInEscrow, ActionReject, RoleSeller},
		{"cancel in escrow", StatusInEscrow, ActionCancel, RoleBuyer},
		{"cancel after accept", StatusAccepted, ActionCancel, RoleBuyer},
		{"dispute while pending", StatusPending, ActionDispute, RoleBuyer},
		{"open payment twice", StatusInEscrow, ActionOpenPayment, RoleBuyer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed, err := Next(tt.current, tt.action, tt.role)
			require.ErrorIs(t, err, ErrInvalidTransition)
			assert.False(t, changed)
			assert.Equal(t, tt.current, next)
		})
	}
}

func TestNext_TerminalStatesAreFrozen(t *testing.T) {
	terminals := []Status{StatusSuccess, StatusFailed, StatusRejected, StatusCancelled, StatusAbandoned}
	actions := []struct {
		action Action
		role   Role
	}{
		{ActionReject, RoleSeller},
		{ActionCancel, RoleBuyer},
		{ActionOpenPayment, RoleBuyer},
		{ActionConfirmPayment, RoleSystem},
		{ActionDispute, RoleSeller},
		{ActionAbandon, RoleSystem},
		{ActionResolveSuccess, RoleAdmin},
	}
	for _, st := range terminals {
		require.True(t, st.Terminal())
		for _, a := range actions {
			next, changed, err := Next(st, a.action, a.role)
			require.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", a.action, st)
			assert.False(t, changed)
			assert.Equal(t, st, next)
		}
	}
}

func TestNext_AcceptIsIdempotent(t *testing.T) {
	next, changed, err := Next(StatusAccepted, ActionAccept, RoleSeller)
	require.NoError(t, err)
	assert.False(t, changed, "re-accept must not request a write")
	assert.Equal(t, StatusAccepted, next)

	// the grace applies to the seller only
	_, _, err = Next(StatusAccepted, ActionAccept, RoleBuyer)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRoleOf(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	stranger := uuid.New()

	role, ok := RoleOf(buyer, seller, buyer)
	require.True(t, ok)
	assert.Equal(t, RoleBuyer, role)

	role, ok = RoleOf(buyer, seller, seller)
	require.True(t, ok)
	assert.Equal(t, RoleSeller, role)

	_, ok = RoleOf(buyer, seller, stranger)
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "in_escrow", "success", "failed", "rejected", "cancelled", "disputed", "abandoned"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, st.String())
	}
	_, err := ParseStatus("shipped")
	require.Error(t, err)
}
