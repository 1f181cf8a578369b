package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interval_timer/internal/engine"
	"interval_timer/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// stateStore is the subset of *mongo.Collection used by StateMongo.
type stateStore interface {
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

type stateDocument struct {
	ID            int       `bson:"_id"`
	Phase         string    `bson:"phase"`
	CurrentRound  int       `bson:"current_round"`
	RemainingS    int       `bson:"remaining_s"`
	Running       bool      `bson:"running"`
	TenFired      bool      `bson:"ten_fired"`
	CompleteFired bool      `bson:"complete_fired"`
	SetupS        int       `bson:"setup_s"`
	WorkS         int       `bson:"work_s"`
	RestS         int       `bson:"rest_s"`
	Rounds        int       `bson:"rounds"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

type StateMongo struct {
	coll stateStore
}

func NewStateMongo(coll stateStore) *StateMongo { return &StateMongo{coll: coll} }

// Save upserts the single state document.
func (r *StateMongo) Save(ctx context.Context, state models.TimerState) error {
	ts := state.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	doc := stateDocument{
		ID:            timerStateRowID,
		Phase:         string(state.Run.Phase),
		CurrentRound:  state.Run.CurrentRound,
		RemainingS:    state.Run.RemainingSeconds,
		Running:       state.Run.Running,
		TenFired:      state.Run.TenSecondWarningFired,
		CompleteFired: state.Run.CompletionAnnounced,
		SetupS:        state.Config.SetupSeconds,
		WorkS:         state.Config.WorkSeconds,
		RestS:         state.Config.RestSeconds,
		Rounds:        state.Config.TotalRounds,
		UpdatedAt:     ts.UTC(),
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": timerStateRowID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// Load fetches the state document. A missing document yields the zero value.
func (r *StateMongo) Load(ctx context.Context) (models.TimerState, error) {
	var doc stateDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": timerStateRowID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TimerState{}, nil
		}
		return models.TimerState{}, fmt.Errorf("load timer state: %w", err)
	}
	return models.TimerState{
		ID: doc.ID,
		Config: engine.Config{
			SetupSeconds: doc.SetupS,
			WorkSeconds:  doc.WorkS,
			RestSeconds:  doc.RestS,
			TotalRounds:  doc.Rounds,
		},
		Run: engine.RunState{
			Phase:                 engine.Phase(doc.Phase),
			CurrentRound:          doc.CurrentRound,
			RemainingSeconds:      doc.RemainingS,
			Running:               doc.Running,
			TenSecondWarningFired: doc.TenFired,
			CompletionAnnounced:   doc.CompleteFired,
		},
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}
