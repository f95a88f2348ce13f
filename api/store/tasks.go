/* tasks.go
 * Contains the methods for interacting with the tasks collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListTasks returns every task ordered by competition day
func (s *Store) ListTasks(ctx context.Context) ([]Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}})
	cursor, err := s.Collections.Tasks.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching tasks from db: %w", err)
	}

	results := []Task{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of tasks: %w", err)
	}
	return results, nil
}

// GetTask does DB lookup for a single task by id
func (s *Store) GetTask(ctx context.Context, id string) (Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Task{}, mongo.ErrNoDocuments
	}
	return s.findTask(ctx, bson.M{"_id": oid})
}

// GetTaskByDay returns the task scheduled for a competition day
// Preconditions: Receives context and a day in 1..7
// Postconditions: Returns the task, mongo.ErrNoDocuments if none is scheduled, or another error if it occurs
func (s *Store) GetTaskByDay(ctx context.Context, day int) (Task, error) {
	return s.findTask(ctx, bson.M{"day": day})
}

func (s *Store) findTask(ctx context.Context, filter bson.M) (Task, error) {
	var result Task
	err := s.Collections.Tasks.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if isNotFound(err) {
			return Task{}, err
		}
		return Task{}, fmt.Errorf("error fetching task from db: %w", err)
	}
	return result, nil
}

// CountTasks returns the number of task documents
func (s *Store) CountTasks(ctx context.Context) (int64, error) {
	n, err := s.Collections.Tasks.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("error counting tasks: %w", err)
	}
	return n, nil
}

// InsertTask stores a new task and returns its hex id
func (s *Store) InsertTask(ctx context.Context, task Task) (string, error) {
	task.ID = primitive.NilObjectID
	res, err := s.Collections.Tasks.InsertOne(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to insert task for day %d: %w", task.Day, err)
	}
	return insertedHex(res)
}

// UpdateTask replaces the editable fields of a task
// Preconditions: Receives context, the task id and the new values
// Postconditions: Updates the document, returns mongo.ErrNoDocuments if it does not exist or an error if it occurs
func (s *Store) UpdateTask(ctx context.Context, id string, task Task) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	updatedAt := task.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	res, err := s.Collections.Tasks.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"day":            task.Day,
		"title":          task.Title,
		"description":    task.Description,
		"status":         task.Status,
		"scheduled_date": task.ScheduledDate,
		"updated_at":     updatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteTask removes a task
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := s.Collections.Tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
