package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"interval_timer/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	eventsCollection = "timer_events"
	stateCollection  = "timer_state"
)

// eventCollection is the subset of *mongo.Collection used by EventMongo.
type eventCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

type eventDocument struct {
	ID          string    `bson:"_id"`
	OccurredAt  time.Time `bson:"occurred_at"`
	Seq         int64     `bson:"seq"`
	Type        string    `bson:"type"`
	Description string    `bson:"message"`
	Metadata    any       `bson:"meta,omitempty"`
}

type EventMongo struct {
	coll eventCollection
}

func NewEventMongo(coll eventCollection) *EventMongo { return &EventMongo{coll: coll} }

// Append inserts a new event document.
func (r *EventMongo) Append(ctx context.Context, e models.TimerEvent) error {
	e = withEventDefaults(e)
	doc := eventDocument{
		ID:          e.EventID,
		OccurredAt:  e.OccurredAt,
		Seq:         e.Seq,
		Type:        e.Type,
		Description: e.Description,
		Metadata:    jsonShaped(e.Metadata),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert timer event: %w", err)
	}
	return nil
}

// List mirrors EventSQLite.List: inclusive range, optional type, ascending.
func (r *EventMongo) List(ctx context.Context, from, to time.Time, typ string) ([]models.TimerEvent, error) {
	filter := eventFilter(from, to, typ)
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}, {Key: "seq", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query timer events: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.TimerEvent, 0, 64)
	for cur.Next(ctx) {
		var doc eventDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode timer event: %w", err)
		}
		out = append(out, models.TimerEvent{
			EventID:     doc.ID,
			OccurredAt:  doc.OccurredAt.UTC(),
			Seq:         doc.Seq,
			Type:        doc.Type,
			Description: doc.Description,
			Metadata:    plainMeta(doc.Metadata),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func eventFilter(from, to time.Time, typ string) bson.M {
	filter := bson.M{}
	occurred := bson.M{}
	if !from.IsZero() {
		occurred["$gte"] = from.UTC()
	}
	if !to.IsZero() {
		occurred["$lte"] = to.UTC()
	}
	if len(occurred) > 0 {
		filter["occurred_at"] = occurred
	}
	if typ = normalizeType(typ); typ != "" {
		filter["type"] = typ
	}
	return filter
}

// jsonShaped stores metadata under its JSON field names, the same shape
// EventSQLite keeps. Values that do not marshal are dropped.
func jsonShaped(v any) any {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// plainMeta converts decoded documents and arrays back into maps and slices.
// Left alone, the driver hands embedded documents back as bson.D.
func plainMeta(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainMeta(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainMeta(e)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainMeta(e)
		}
		return out
	default:
		return v
	}
}
