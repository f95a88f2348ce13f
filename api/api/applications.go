/* applications.go
 * Contains the signup workflow: submitting an application and the admin approve and reject decisions
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"strings"

	"smallie/api/logic"
	"smallie/api/shared"
	"smallie/api/store"
)

// Defaults applied to a contestant created from an application
const (
	DefaultContestantAge = 25
	DefaultImageURL      = "https://images.unsplash.com/photo-1522327646852-4e28586a40dd"
)

// SubmitApplication validates a signup and stores it as pending
// Preconditions: Receives context and the signup form
// Postconditions: Returns the application id, a validation error, or an error if it occurs
func (a *API) SubmitApplication(ctx context.Context, req ApplicationRequest) (string, error) {
	app := store.Application{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Location:     strings.TrimSpace(req.Location),
		Bio:          strings.TrimSpace(req.Bio),
		SocialHandle: strings.TrimSpace(req.SocialHandle),
		Experience:   strings.TrimSpace(req.Experience),
		StreamURL:    strings.TrimSpace(req.StreamURL),
		Age:          req.Age,
		PhotoURL:     strings.TrimSpace(req.PhotoURL),
		Status:       shared.ApplicationPending,
		CreatedAt:    a.now(),
	}
	err := logic.ValidateApplication(logic.ApplicationFields{
		Name:      app.Name,
		Email:     app.Email,
		Bio:       app.Bio,
		StreamURL: app.StreamURL,
	})
	if err != nil {
		return "", validationError(err)
	}
	if app.Age < 0 {
		return "", newError(ErrValidation, "please enter a valid age")
	}

	id, err := a.Store.InsertApplication(ctx, app)
	if err != nil {
		return "", err
	}
	a.Metrics.Application(shared.ApplicationPending)
	a.log().Info("application submitted", "id", id, "name", app.Name)
	return id, nil
}

// ListApplications returns applications with the given status, or all of them when status is empty
func (a *API) ListApplications(ctx context.Context, status string) ([]store.Application, error) {
	switch status {
	case "", shared.ApplicationPending, shared.ApplicationApproved, shared.ApplicationRejected:
	default:
		return nil, newError(ErrValidation, "unknown application status %q", status)
	}
	return a.Store.ListApplications(ctx, status)
}

// GetApplication returns a single application
func (a *API) GetApplication(ctx context.Context, id string) (store.Application, error) {
	app, err := a.Store.GetApplication(ctx, id)
	if err != nil {
		return store.Application{}, translate(err, "application")
	}
	return app, nil
}

// ApproveApplication turns a pending application into a contestant. The application is claimed with a conditional
// status change before the contestant is created, so concurrent approvals create at most one contestant.
// Preconditions: Receives context, application id and whether the admin confirmed the action
// Postconditions: Returns the new contestant, or ErrConfirmationRequired, ErrNotFound, ErrInvalidState or another error
func (a *API) ApproveApplication(ctx context.Context, id string, confirmed bool) (store.Contestant, error) {
	if !confirmed {
		return store.Contestant{}, newError(ErrConfirmationRequired, "approving an application must be confirmed")
	}
	app, err := a.Store.GetApplication(ctx, id)
	if err != nil {
		return store.Contestant{}, translate(err, "application")
	}
	if app.Status != shared.ApplicationPending {
		return store.Contestant{}, newError(ErrInvalidState, "application is already %s", app.Status)
	}

	contestantID, err := a.Store.NextContestantID(ctx)
	if err != nil {
		return store.Contestant{}, err
	}
	err = a.Store.TransitionApplication(ctx, id, shared.ApplicationPending, shared.ApplicationApproved, contestantID)
	if err != nil {
		return store.Contestant{}, translate(err, "application")
	}

	contestant := contestantFromApplication(app, contestantID, a.now())
	if err := a.Store.InsertContestant(ctx, contestant); err != nil {
		// Hand the application back so the approval can be retried
		rollback := a.Store.TransitionApplication(ctx, id, shared.ApplicationApproved, shared.ApplicationPending, 0)
		return store.Contestant{}, errors.Join(err, rollback)
	}
	a.Metrics.Application(shared.ApplicationApproved)
	a.log().Info("application approved", "id", id, "contestant", contestantID)
	return contestant, nil
}

// RejectApplication marks a pending application as rejected. No contestant is created.
func (a *API) RejectApplication(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return newError(ErrConfirmationRequired, "rejecting an application must be confirmed")
	}
	app, err := a.Store.GetApplication(ctx, id)
	if err != nil {
		return translate(err, "application")
	}
	if app.Status != shared.ApplicationPending {
		return newError(ErrInvalidState, "application is already %s", app.Status)
	}
	err = a.Store.TransitionApplication(ctx, id, shared.ApplicationPending, shared.ApplicationRejected, 0)
	if err != nil {
		return translate(err, "application")
	}
	a.Metrics.Application(shared.ApplicationRejected)
	a.log().Info("application rejected", "id", id)
	return nil
}
