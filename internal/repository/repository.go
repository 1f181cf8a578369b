package repository

import (
	"context"
	"database/sql"
	"time"

	"interval_timer/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type StateRepo interface {
	Save(ctx context.Context, s models.TimerState) error
	Load(ctx context.Context) (models.TimerState, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.TimerEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.TimerEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
}

// NewRepository backs both stores with SQLite.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
	}
}

// NewMongoRepository backs both stores with MongoDB collections.
func NewMongoRepository(database *mongo.Database) *Repository {
	return &Repository{
		StateRepo: NewStateMongo(database.Collection(stateCollection)),
		EventRepo: NewEventMongo(database.Collection(eventsCollection)),
	}
}
