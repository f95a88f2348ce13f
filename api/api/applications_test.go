/* applications_test.go
 * Contains unit tests for applications.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"testing"

	"smallie/api/shared"
	"smallie/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplication() ApplicationRequest {
	return ApplicationRequest{
		Name:         "  Ngozi Ade ",
		Email:        "ngozi@example.com",
		Phone:        "+2348000000000",
		Location:     "Ibadan",
		Bio:          "I stream dance challenges every night",
		SocialHandle: "@ngozi",
		StreamURL:    "https://twitch.tv/ngozi",
	}
}

// region SubmitApplication tests

func TestSubmitApplication_Success(t *testing.T) {
	a, mockStore := newTestAPI(t)

	id, err := a.SubmitApplication(context.Background(), validApplication())
	require.NoError(t, err)

	app := mockStore.Applications[id]
	assert.Equal(t, "Ngozi Ade", app.Name)
	assert.Equal(t, shared.ApplicationPending, app.Status)
	assert.Equal(t, testNow, app.CreatedAt)
}

func TestSubmitApplication_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ApplicationRequest)
	}{
		{"name with digits", func(r *ApplicationRequest) { r.Name = "N0zi" }},
		{"name too short", func(r *ApplicationRequest) { r.Name = "N" }},
		{"bio too short", func(r *ApplicationRequest) { r.Bio = "hi" }},
		{"bad email", func(r *ApplicationRequest) { r.Email = "ngozi.example.com" }},
		{"bad stream url", func(r *ApplicationRequest) { r.StreamURL = "not a url" }},
		{"negative age", func(r *ApplicationRequest) { r.Age = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mockStore := newTestAPI(t)
			req := validApplication()
			tt.mutate(&req)

			_, err := a.SubmitApplication(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, mockStore.Applications)
		})
	}
}

func TestSubmitApplication_StoreError(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.InsertApplicationError = errors.New("db down")

	_, err := a.SubmitApplication(context.Background(), validApplication())
	assert.EqualError(t, err, "db down")
}

// endregion

// region ListApplications tests

func TestListApplications(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.AddApplication(store.Application{Name: "A", Status: shared.ApplicationPending})
	mockStore.AddApplication(store.Application{Name: "B", Status: shared.ApplicationRejected})

	pending, err := a.ListApplications(context.Background(), shared.ApplicationPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "A", pending[0].Name)

	all, err := a.ListApplications(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = a.ListApplications(context.Background(), "archived")
	assert.ErrorIs(t, err, ErrValidation)
}

// endregion

// region ApproveApplication tests

func TestApproveApplication_Success(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.AddContestants(sampleContestants()...)
	id := mockStore.AddApplication(store.Application{
		Name:      "Ngozi Ade",
		Email:     "ngozi@example.com",
		Bio:       "I stream dance challenges every night",
		StreamURL: "https://twitch.tv/ngozi",
		Status:    shared.ApplicationPending,
	})

	contestant, err := a.ApproveApplication(context.Background(), id, true)
	require.NoError(t, err)
	assert.Equal(t, 5, contestant.ID)
	assert.Equal(t, "Ngozi Ade", contestant.Name)
	assert.Equal(t, 0, contestant.Votes)
	assert.False(t, contestant.Eliminated)
	assert.Equal(t, DefaultContestantAge, contestant.Age)
	assert.Equal(t, DefaultImageURL, contestant.ImageURL)
	assert.Equal(t, "https://twitch.tv/ngozi", contestant.StreamURL)

	assert.Contains(t, mockStore.Contestants, 5)
	assert.Equal(t, shared.ApplicationApproved, mockStore.Applications[id].Status)
	assert.Equal(t, 5, mockStore.Applications[id].ContestantID)
}

func TestApproveApplication_UsesApplicantAgeAndPhoto(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.AddApplication(store.Application{
		Name: "Ngozi Ade", Age: 31, PhotoURL: "https://example.com/me.jpg", Status: shared.ApplicationPending,
	})

	contestant, err := a.ApproveApplication(context.Background(), id, true)
	require.NoError(t, err)
	assert.Equal(t, 1, contestant.ID)
	assert.Equal(t, 31, contestant.Age)
	assert.Equal(t, "https://example.com/me.jpg", contestant.ImageURL)
}

func TestApproveApplication_RequiresConfirmation(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.AddApplication(store.Application{Name: "A", Status: shared.ApplicationPending})

	_, err := a.ApproveApplication(context.Background(), id, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, mockStore.Contestants)
	assert.Equal(t, shared.ApplicationPending, mockStore.Applications[id].Status)
}

func TestApproveApplication_Twice(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.AddApplication(store.Application{Name: "A", Status: shared.ApplicationPending})

	_, err := a.ApproveApplication(context.Background(), id, true)
	require.NoError(t, err)

	_, err = a.ApproveApplication(context.Background(), id, true)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Len(t, mockStore.Contestants, 1)
}

func TestApproveApplication_ConcurrentClaim(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.AddApplication(store.Application{Name: "A", Status: shared.ApplicationPending})
	mockStore.TransitionApplicationError = store.ErrStatusChanged

	_, err := a.ApproveApplication(context.Background(), id, true)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, mockStore.Contestants)
}

func TestApproveApplication_InsertFailsRollsBack(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.AddApplication(store.Application{Name: "A", Status: shared.ApplicationPending})
	mockStore.InsertContestantError = errors.New("insert failed")

	_, err := a.ApproveApplication(context.Background(), id, true)
	assert.Error(t, err)
	assert.Equal(t, shared.ApplicationPending, mockStore.Applications[id].Status)
	assert.Zero(t, mockStore.Applications[id].ContestantID)
}

func TestApproveApplication_NotFound(t *testing.T) {
	a, _ := newTestAPI(t)

	_, err := a.ApproveApplication(context.Background(), "64b7f0000000000000000000", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

// endregion

// region RejectApplication tests

func TestRejectApplication(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := mockStore.AddApplication(store.Application{Name: "A", Status: shared.ApplicationPending})
	ctx := context.Background()

	assert.ErrorIs(t, a.RejectApplication(ctx, id, false), ErrConfirmationRequired)
	require.NoError(t, a.RejectApplication(ctx, id, true))
	assert.Equal(t, shared.ApplicationRejected, mockStore.Applications[id].Status)
	assert.Empty(t, mockStore.Contestants)

	assert.ErrorIs(t, a.RejectApplication(ctx, id, true), ErrInvalidState)
	_, err := a.ApproveApplication(ctx, id, true)
	assert.ErrorIs(t, err, ErrInvalidState)
}

// endregion
