/* tasks.go
 * Contains the daily task operations and the voting countdown
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"smallie/api/logic"
	"smallie/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// ListTasks returns every task ordered by day
func (a *API) ListTasks(ctx context.Context) ([]store.Task, error) {
	return a.Store.ListTasks(ctx)
}

// GetTask returns a single task
func (a *API) GetTask(ctx context.Context, id string) (store.Task, error) {
	task, err := a.Store.GetTask(ctx, id)
	if err != nil {
		return store.Task{}, translate(err, "task")
	}
	return task, nil
}

// SaveTask creates a task when id is empty and updates it otherwise. The scheduled date is derived from the day.
// Preconditions: Receives context, the task id (or "") and the task form
// Postconditions: Returns the stored task, a validation error, or another error if it occurs
func (a *API) SaveTask(ctx context.Context, id string, input TaskInput) (store.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if !logic.ValidDay(input.Day) {
		return store.Task{}, newError(ErrValidation, "day must be between 1 and %d", logic.CompetitionDays)
	}
	if input.Title == "" || input.Description == "" {
		return store.Task{}, newError(ErrValidation, "title and description are required")
	}
	switch input.Status {
	case "":
		input.Status = store.TaskPending
	case store.TaskPending, store.TaskActive, store.TaskCompleted:
	default:
		return store.Task{}, newError(ErrValidation, "unknown task status %q", input.Status)
	}

	task := store.Task{
		Day:           input.Day,
		Title:         input.Title,
		Description:   input.Description,
		Status:        input.Status,
		ScheduledDate: a.Competition.ScheduledDate(input.Day),
		UpdatedAt:     a.now(),
	}
	if id == "" {
		newID, err := a.Store.InsertTask(ctx, task)
		if err != nil {
			return store.Task{}, err
		}
		return a.GetTask(ctx, newID)
	}
	if err := a.Store.UpdateTask(ctx, id, task); err != nil {
		return store.Task{}, translate(err, "task")
	}
	return a.GetTask(ctx, id)
}

// DeleteTask removes a task
func (a *API) DeleteTask(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return newError(ErrConfirmationRequired, "deleting a task must be confirmed")
	}
	if err := a.Store.DeleteTask(ctx, id); err != nil {
		return translate(err, "task")
	}
	a.log().Info("task deleted", "id", id)
	return nil
}

// SeedTasks inserts the built in seven day task table when the tasks collection is empty
// Preconditions: Receives context
// Postconditions: Returns the number of tasks inserted (0 if tasks already exist), or an error if it occurs
func (a *API) SeedTasks(ctx context.Context) (int, error) {
	n, err := a.Store.CountTasks(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	now := a.now()
	inserted := 0
	for _, canned := range logic.CannedTasks {
		_, err := a.Store.InsertTask(ctx, store.Task{
			Day:           canned.Day,
			Title:         canned.Title,
			Description:   canned.Description,
			Status:        store.TaskPending,
			ScheduledDate: a.Competition.ScheduledDate(canned.Day),
			UpdatedAt:     now,
		})
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	a.log().Info("seeded tasks", "count", inserted)
	return inserted, nil
}

// CurrentTask returns the task for the competition day containing now. Outside the competition, or when no task is
// stored for the day, the placeholder task is returned.
func (a *API) CurrentTask(ctx context.Context, now time.Time) (TaskView, error) {
	day, ok := a.Competition.DayIndex(now)
	if !ok {
		return placeholderTask(0), nil
	}
	task, err := a.Store.GetTaskByDay(ctx, day)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return placeholderTask(day), nil
	}
	if err != nil {
		return TaskView{}, err
	}
	return TaskView{Day: day, Title: task.Title, Description: task.Description}, nil
}

// Countdown returns the time left until voting closes
func (a *API) Countdown(now time.Time) logic.Countdown {
	return logic.ComputeCountdown(now)
}

func placeholderTask(day int) TaskView {
	return TaskView{
		Day:         day,
		Title:       logic.PlaceholderTitle,
		Description: logic.PlaceholderDescription,
		Placeholder: true,
	}
}
