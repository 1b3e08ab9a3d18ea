package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhub/backend/internal/models"
)

// TaskFilter narrows and orders a task listing. Status and Priority are
// exact-match filters; empty values match everything. SortBy outside the
// allowed set falls back to creation time.
type TaskFilter struct {
	Status   string
	Priority string
	SortBy   string
	Order    string
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
}

// allowedSortFields maps accepted sortBy values to document keys.
var allowedSortFields = map[string]string{
	"title":     "title",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"dueDate":   "dueDate",
	"priority":  "priority",
}

// MongoTaskRepository implements task persistence against a MongoDB collection.
//
// Every query filters by the owner's identifier together with any other
// criteria in a single persistence call, so a lookup of another user's
// task is indistinguishable from a lookup of a nonexistent one.
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewMongoTaskRepository creates a new MongoTaskRepository using the given database.
func NewMongoTaskRepository(database *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: database.Collection("tasks")}
}

// buildListFilter builds the query document for a task listing.
func buildListFilter(owner primitive.ObjectID, f TaskFilter) bson.M {
	filter := bson.M{"userId": owner}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	return filter
}

// buildSort builds the sort document for a task listing. Unknown sort
// fields fall back to createdAt; any order other than "asc" sorts
// descending.
func buildSort(f TaskFilter) bson.D {
	field, ok := allowedSortFields[f.SortBy]
	if !ok {
		field = "createdAt"
	}
	order := -1
	if f.Order == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}}
}

// ListTasks returns all tasks owned by owner, narrowed and ordered by f.
func (r *MongoTaskRepository) ListTasks(ctx context.Context, owner primitive.ObjectID, f TaskFilter) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, buildListFilter(owner, f), options.Find().SetSort(buildSort(f)))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts a new task, assigning its identifier and timestamps.
func (r *MongoTaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// TaskByID fetches a single task owned by owner.
// Returns ErrNotFound when the task does not exist or belongs to someone else.
func (r *MongoTaskRepository) TaskByID(ctx context.Context, owner, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": owner}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task owned by owner and
// returns the updated document. The id and owner are matched in the same
// query, so an update against another user's task yields ErrNotFound.
func (r *MongoTaskRepository) UpdateTask(ctx context.Context, owner, id primitive.ObjectID, update TaskUpdate) (*models.Task, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	}

	result := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": owner},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	var task models.Task
	if err := result.Decode(&task); err != nil {
		return nil, fmt.Errorf("decode updated task: %w", err)
	}
	return &task, nil
}

// ToggleTask flips a task's status between pending and completed in a
// single ownership-scoped update and returns the updated document.
func (r *MongoTaskRepository) ToggleTask(ctx context.Context, owner, id primitive.ObjectID) (*models.Task, error) {
	// Aggregation-pipeline update: the flip happens server-side, so two
	// concurrent toggles cannot observe a stale status between a read
	// and a write.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"status": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.StatusPending}},
				models.StatusCompleted,
				models.StatusPending,
			}},
			"updatedAt": "$$NOW",
		}}},
	}

	result := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": owner},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("toggle task: %w", err)
	}

	var task models.Task
	if err := result.Decode(&task); err != nil {
		return nil, fmt.Errorf("decode toggled task: %w", err)
	}
	return &task, nil
}

// DeleteTask removes a task owned by owner.
// Returns ErrNotFound when nothing matched the ownership-scoped filter.
func (r *MongoTaskRepository) DeleteTask(ctx context.Context, owner, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": owner})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TaskStats aggregates task counters for the given owner in one pipeline.
func (r *MongoTaskRepository) TaskStats(ctx context.Context, owner primitive.ObjectID) (*models.TaskStats, error) {
	countWhere := func(cond any) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": owner}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"pending":   countWhere(bson.M{"$eq": bson.A{"$status", models.StatusPending}}),
			"completed": countWhere(bson.M{"$eq": bson.A{"$status", models.StatusCompleted}}),
			"overdue": countWhere(bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{"$status", models.StatusPending}},
				bson.M{"$ne": bson.A{bson.M{"$ifNull": bson.A{"$dueDate", nil}}, nil}},
				bson.M{"$lt": bson.A{"$dueDate", "$$NOW"}},
			}}),
			"high":   countWhere(bson.M{"$eq": bson.A{"$priority", models.PriorityHigh}}),
			"medium": countWhere(bson.M{"$eq": bson.A{"$priority", models.PriorityMedium}}),
			"low":    countWhere(bson.M{"$eq": bson.A{"$priority", models.PriorityLow}}),
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total     int64 `bson:"total"`
		Pending   int64 `bson:"pending"`
		Completed int64 `bson:"completed"`
		Overdue   int64 `bson:"overdue"`
		High      int64 `bson:"high"`
		Medium    int64 `bson:"medium"`
		Low       int64 `bson:"low"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	stats := &models.TaskStats{}
	if len(rows) > 0 {
		row := rows[0]
		stats.Total = row.Total
		stats.Pending = row.Pending
		stats.Completed = row.Completed
		stats.Overdue = row.Overdue
		stats.PriorityBreakdown = models.PriorityBreakdown{High: row.High, Medium: row.Medium, Low: row.Low}
		if row.Total > 0 {
			stats.CompletionRate = float64(row.Completed) / float64(row.Total) * 100
		}
	}
	return stats, nil
}
