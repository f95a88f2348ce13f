/* contestants.go
 * Contains the contestant read operations and the admin contestant edits
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"smallie/api/logic"
	"smallie/api/shared"
	"smallie/api/store"
)

// ListContestants returns every contestant, highest votes first
func (a *API) ListContestants(ctx context.Context) ([]store.Contestant, error) {
	contestants, err := a.Store.ListContestants(ctx)
	if err != nil {
		return nil, err
	}
	logic.SortByVotes(contestants)
	return contestants, nil
}

// GetContestant returns a single contestant
func (a *API) GetContestant(ctx context.Context, id int) (store.Contestant, error) {
	c, err := a.Store.GetContestant(ctx, id)
	if err != nil {
		return store.Contestant{}, translate(err, "contestant")
	}
	return c, nil
}

// Leaderboard returns all contestants ranked by votes, eliminated contestants included
func (a *API) Leaderboard(ctx context.Context) ([]store.Contestant, error) {
	return a.ListContestants(ctx)
}

// TopContestants returns the n highest voted contestants still in the competition. n <= 0 means the default of 5.
func (a *API) TopContestants(ctx context.Context, n int) ([]store.Contestant, error) {
	if n <= 0 {
		n = logic.TopContestantCount
	}
	contestants, err := a.ListContestants(ctx)
	if err != nil {
		return nil, err
	}
	return logic.TopActive(contestants, n), nil
}

// SearchContestant finds a contestant by approximate name
func (a *API) SearchContestant(ctx context.Context, name string) (store.Contestant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Contestant{}, newError(ErrValidation, "please enter a contestant name")
	}
	contestants, err := a.Store.ListContestants(ctx)
	if err != nil {
		return store.Contestant{}, err
	}

	names := make([]string, len(contestants))
	for i, c := range contestants {
		names[i] = c.Name
	}
	match, ok := logic.MatchName(name, names)
	if !ok {
		return store.Contestant{}, newError(ErrNotFound, "no contestant matches %q", name)
	}
	for _, c := range contestants {
		if c.Name == match {
			return c, nil
		}
	}
	return store.Contestant{}, newError(ErrNotFound, "no contestant matches %q", name)
}

// ToggleElimination flips a contestant's eliminated flag
// Preconditions: Receives context, contestant id and whether the admin confirmed the action
// Postconditions: Returns the contestant with its new state, or an error if it occurs
func (a *API) ToggleElimination(ctx context.Context, id int, confirmed bool) (store.Contestant, error) {
	if !confirmed {
		return store.Contestant{}, newError(ErrConfirmationRequired, "changing elimination status must be confirmed")
	}
	c, err := a.Store.GetContestant(ctx, id)
	if err != nil {
		return store.Contestant{}, translate(err, "contestant")
	}
	if err := a.Store.SetEliminated(ctx, id, !c.Eliminated); err != nil {
		return store.Contestant{}, translate(err, "contestant")
	}
	c.Eliminated = !c.Eliminated
	c.UpdatedAt = a.now()
	a.log().Info("contestant elimination toggled", "contestant", id, "eliminated", c.Eliminated)
	return c, nil
}

// UpdateContestant applies an admin edit to a contestant's profile
func (a *API) UpdateContestant(ctx context.Context, id int, patch store.ContestantUpdate) (store.Contestant, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return store.Contestant{}, newError(ErrValidation, "name cannot be empty")
		}
		patch.Name = &trimmed
	}
	if patch.Age != nil && *patch.Age <= 0 {
		return store.Contestant{}, newError(ErrValidation, "please enter a valid age")
	}
	if patch.Email != nil && *patch.Email != "" && !logic.ValidEmail(*patch.Email) {
		return store.Contestant{}, newError(ErrValidation, "please enter a valid email address")
	}

	if err := a.Store.UpdateContestant(ctx, id, patch); err != nil {
		return store.Contestant{}, translate(err, "contestant")
	}
	return a.GetContestant(ctx, id)
}

// SetContestantVotes sets a contestant's vote total. The counter is overwritten in one atomic update, so a purchase
// landing at the same time either happens before the set and is absorbed, or after it and is added on top. The
// difference from the replaced total is written to the vote log as an adjustment, so the log and the counter stay in
// agreement. Adjustments count for ranking but not for revenue.
// Preconditions: Receives context, contestant id and the new non-negative total
// Postconditions: Returns the updated contestant, or an error if it occurs
func (a *API) SetContestantVotes(ctx context.Context, id int, votes int) (store.Contestant, error) {
	if votes < 0 {
		return store.Contestant{}, newError(ErrValidation, "votes cannot be negative")
	}
	previous, err := a.Store.SetVotes(ctx, id, votes)
	if err != nil {
		return store.Contestant{}, translate(err, "contestant")
	}

	delta := votes - previous
	if delta != 0 {
		now := a.now()
		day, _ := a.Competition.DayIndex(now)
		err = a.Store.InsertVote(ctx, store.Vote{
			ContestantID: id,
			UserID:       "admin",
			Count:        delta,
			Day:          day,
			Timestamp:    now,
			Source:       shared.VoteSourceAdjustment,
		})
		if err != nil {
			// Undo with an increment so votes recorded since the set are kept
			undo := a.Store.IncrementVotes(context.WithoutCancel(ctx), id, -delta)
			return store.Contestant{}, errors.Join(err, undo)
		}
		a.Metrics.VotesAdjusted(delta)
		a.log().Info("contestant votes adjusted", "contestant", id, "from", previous, "to", votes)
	}
	return a.GetContestant(ctx, id)
}

// contestantFromApplication builds the contestant created when an application is approved
func contestantFromApplication(app store.Application, id int, now time.Time) store.Contestant {
	age := app.Age
	if age <= 0 {
		age = DefaultContestantAge
	}
	image := app.PhotoURL
	if image == "" {
		image = DefaultImageURL
	}
	return store.Contestant{
		ID:           id,
		Name:         app.Name,
		Age:          age,
		Location:     app.Location,
		Bio:          app.Bio,
		ImageURL:     image,
		StreamURL:    app.StreamURL,
		Votes:        0,
		Eliminated:   false,
		Email:        app.Email,
		Phone:        app.Phone,
		SocialHandle: app.SocialHandle,
		CreatedAt:    now,
	}
}
