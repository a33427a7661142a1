package lifecycle_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutter/internal/domains/booking/lifecycle"
	"shutter/shared/constant"
)

type edge struct {
	from lifecycle.Status
	to   lifecycle.Status
}

var pipelineEdges = map[edge]bool{
	{lifecycle.StatusBookingCreated, lifecycle.StatusPhotographerAssigned}:       true,
	{lifecycle.StatusPhotographerAssigned, lifecycle.StatusPhotographerAccepted}: true,
	{lifecycle.StatusPhotographerAssigned, lifecycle.StatusShooting}:             true,
	{lifecycle.StatusPhotographerAccepted, lifecycle.StatusShooting}:             true,
	{lifecycle.StatusShooting, lifecycle.StatusEditing}:                          true,
	{lifecycle.StatusEditing, lifecycle.StatusCompleted}:                         true,
}

func isLegal(from, to lifecycle.Status) bool {
	if pipelineEdges[edge{from, to}] {
		return true
	}

	return !from.Terminal() && (to == lifecycle.StatusCancelled || to == lifecycle.StatusPhotographerRejected)
}

func strPtr(s string) *string {
	return &s
}

func TestAllowedNext(t *testing.T) {
	tests := []struct {
		from lifecycle.Status
		want []lifecycle.Status
	}{
		{lifecycle.StatusBookingCreated, []lifecycle.Status{lifecycle.StatusPhotographerAssigned, lifecycle.StatusPhotographerRejected, lifecycle.StatusCancelled}},
		{lifecycle.StatusPhotographerAssigned, []lifecycle.Status{lifecycle.StatusPhotographerAccepted, lifecycle.StatusShooting, lifecycle.StatusPhotographerRejected, lifecycle.StatusCancelled}},
		{lifecycle.StatusPhotographerAccepted, []lifecycle.Status{lifecycle.StatusShooting, lifecycle.StatusPhotographerRejected, lifecycle.StatusCancelled}},
		{lifecycle.StatusShooting, []lifecycle.Status{lifecycle.StatusEditing, lifecycle.StatusPhotographerRejected, lifecycle.StatusCancelled}},
		{lifecycle.StatusEditing, []lifecycle.Status{lifecycle.StatusCompleted, lifecycle.StatusPhotographerRejected, lifecycle.StatusCancelled}},
		{lifecycle.StatusCompleted, nil},
		{lifecycle.StatusPhotographerRejected, nil},
		{lifecycle.StatusCancelled, nil},
		{lifecycle.Status("UNKNOWN"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			assert.Equal(t, tt.want, lifecycle.AllowedNext(tt.from))
		})
	}
}

func TestCanTransition_AllPairs(t *testing.T) {
	for _, from := range lifecycle.All() {
		for _, to := range lifecycle.All() {
			assert.Equal(t, isLegal(from, to), lifecycle.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestDecide_ClientNeverChangesStatus(t *testing.T) {
	for _, from := range lifecycle.All() {
		for _, to := range lifecycle.All() {
			_, err := lifecycle.Decide(lifecycle.Request{
				Current:        from,
				Target:         to,
				ActorID:        "client-1",
				ActorRole:      constant.RoleClient,
				PhotographerID: strPtr("photographer-1"),
			})

			require.ErrorIs(t, err, lifecycle.ErrClientForbidden, "%s -> %s", from, to)
			assert.True(t, lifecycle.IsForbidden(err))
		}
	}
}

func TestDecide_AssignedPhotographerFollowsTable(t *testing.T) {
	for _, from := range lifecycle.All() {
		for _, to := range lifecycle.All() {
			decision, err := lifecycle.Decide(lifecycle.Request{
				Current:        from,
				Target:         to,
				ActorID:        "photographer-1",
				ActorRole:      constant.RolePhotographer,
				PhotographerID: strPtr("photographer-1"),
			})

			if isLegal(from, to) {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, from, decision.From)
				assert.Equal(t, to, decision.To)
				assert.Nil(t, decision.AssignPhotographer)

				continue
			}

			require.Error(t, err, "%s -> %s", from, to)
			assert.False(t, lifecycle.IsForbidden(err), "%s -> %s", from, to)
		}
	}
}

func TestDecide_PhotographerSelfAssigns(t *testing.T) {
	decision, err := lifecycle.Decide(lifecycle.Request{
		Current:   lifecycle.StatusBookingCreated,
		Target:    lifecycle.StatusPhotographerAssigned,
		ActorID:   "photographer-9",
		ActorRole: constant.RolePhotographer,
	})

	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPhotographerAssigned, decision.To)
	require.NotNil(t, decision.AssignPhotographer)
	assert.Equal(t, "photographer-9", *decision.AssignPhotographer)
}

func TestDecide_PhotographerNotAssigned(t *testing.T) {
	tests := []struct {
		name           string
		current        lifecycle.Status
		target         lifecycle.Status
		photographerID *string
	}{
		{"other photographer", lifecycle.StatusPhotographerAssigned, lifecycle.StatusShooting, strPtr("photographer-2")},
		{"other photographer cancels", lifecycle.StatusShooting, lifecycle.StatusCancelled, strPtr("photographer-2")},
		{"unassigned but not self assign", lifecycle.StatusBookingCreated, lifecycle.StatusCancelled, nil},
		{"empty id is unassigned", lifecycle.StatusPhotographerAssigned, lifecycle.StatusShooting, strPtr("")},
		{"self assign on taken booking", lifecycle.StatusBookingCreated, lifecycle.StatusPhotographerAssigned, strPtr("photographer-2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lifecycle.Decide(lifecycle.Request{
				Current:        tt.current,
				Target:         tt.target,
				ActorID:        "photographer-1",
				ActorRole:      constant.RolePhotographer,
				PhotographerID: tt.photographerID,
			})

			assert.ErrorIs(t, err, lifecycle.ErrNotAssigned)
		})
	}
}

func TestDecide_Admin(t *testing.T) {
	for _, from := range lifecycle.All() {
		for _, to := range lifecycle.All() {
			_, err := lifecycle.Decide(lifecycle.Request{
				Current:        from,
				Target:         to,
				ActorID:        "admin-1",
				ActorRole:      constant.RoleAdmin,
				PhotographerID: strPtr("photographer-1"),
			})

			switch {
			case to == lifecycle.StatusPhotographerRejected:
				assert.ErrorIs(t, err, lifecycle.ErrRejectReserved, "%s -> %s", from, to)
			case !isLegal(from, to):
				assert.Error(t, err, "%s -> %s", from, to)
			case from == lifecycle.StatusBookingCreated && to == lifecycle.StatusPhotographerAssigned:
				assert.ErrorIs(t, err, lifecycle.ErrAssignmentRequired)
			default:
				assert.NoError(t, err, "%s -> %s", from, to)
			}
		}
	}
}

func TestDecide_InvalidTransitionNamesAllowedStates(t *testing.T) {
	_, err := lifecycle.Decide(lifecycle.Request{
		Current:        lifecycle.StatusShooting,
		Target:         lifecycle.StatusCompleted,
		ActorID:        "photographer-1",
		ActorRole:      constant.RolePhotographer,
		PhotographerID: strPtr("photographer-1"),
	})

	var transitionErr *lifecycle.TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, lifecycle.StatusShooting, transitionErr.From)
	assert.Equal(t, lifecycle.StatusCompleted, transitionErr.To)
	assert.Equal(t, []lifecycle.Status{lifecycle.StatusEditing, lifecycle.StatusPhotographerRejected, lifecycle.StatusCancelled}, transitionErr.Allowed)
	assert.Equal(t, "invalid status transition from SHOOTING to COMPLETED, allowed: EDITING, PHOTOGRAPHER_REJECTED, CANCELLED", err.Error())
}

func TestDecide_TerminalStatusAllowsNothing(t *testing.T) {
	_, err := lifecycle.Decide(lifecycle.Request{
		Current:        lifecycle.StatusCompleted,
		Target:         lifecycle.StatusCancelled,
		ActorID:        "admin-1",
		ActorRole:      constant.RoleAdmin,
		PhotographerID: strPtr("photographer-1"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed: none")
}

func TestDecide_SameStatus(t *testing.T) {
	_, err := lifecycle.Decide(lifecycle.Request{
		Current:        lifecycle.StatusEditing,
		Target:         lifecycle.StatusEditing,
		ActorID:        "photographer-1",
		ActorRole:      constant.RolePhotographer,
		PhotographerID: strPtr("photographer-1"),
	})

	assert.ErrorIs(t, err, lifecycle.ErrSameStatus)
}

func TestDecide_InvalidInput(t *testing.T) {
	_, err := lifecycle.Decide(lifecycle.Request{Current: "NOPE", Target: lifecycle.StatusEditing, ActorRole: constant.RoleAdmin})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStatus)

	_, err = lifecycle.Decide(lifecycle.Request{Current: lifecycle.StatusEditing, Target: "NOPE", ActorRole: constant.RoleAdmin})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStatus)

	_, err = lifecycle.Decide(lifecycle.Request{Current: lifecycle.StatusEditing, Target: lifecycle.StatusCompleted, ActorRole: "GUEST"})
	assert.ErrorIs(t, err, lifecycle.ErrUnknownRole)
}

func TestDecideAssignment(t *testing.T) {
	decision, err := lifecycle.DecideAssignment(lifecycle.StatusBookingCreated, constant.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPhotographerAssigned, decision.To)

	_, err = lifecycle.DecideAssignment(lifecycle.StatusBookingCreated, constant.RolePhotographer)
	assert.ErrorIs(t, err, lifecycle.ErrAdminOnly)

	_, err = lifecycle.DecideAssignment(lifecycle.StatusBookingCreated, constant.RoleClient)
	assert.ErrorIs(t, err, lifecycle.ErrAdminOnly)

	for _, status := range lifecycle.All() {
		if status == lifecycle.StatusBookingCreated {
			continue
		}

		_, err := lifecycle.DecideAssignment(status, constant.RoleAdmin)

		var transitionErr *lifecycle.TransitionError
		assert.True(t, errors.As(err, &transitionErr), string(status))
	}
}

func TestParse(t *testing.T) {
	status, err := lifecycle.Parse(" shooting ")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusShooting, status)

	_, err = lifecycle.Parse("DONE")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStatus)
}
