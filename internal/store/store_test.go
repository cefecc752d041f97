package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"simplebench/internal/loopsum"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestSave(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("inserted id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := newStore(mt.Client, mt.Coll)

		id, err := s.Save(ctx, NewRun("simplebench", loopsum.Run(10), "h", time.Now()))
		if err != nil {
			mt.Fatal(err)
		}
		if id.IsZero() {
			mt.Error("Save returned a zero ObjectID")
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "insert" {
			mt.Fatalf("started event = %v, want insert", evt)
		}
		doc := evt.Command.Lookup("documents", "0")
		if got, ok := doc.Document().Lookup("_id").ObjectIDOK(); !ok || got != id {
			mt.Errorf("inserted _id = %v, returned %v", got, id)
		}
		if sum := doc.Document().Lookup("sum").Int64(); sum != 45 {
			mt.Errorf("inserted sum = %d, want 45", sum)
		}
	})

	mt.Run("tampered sum", func(mt *mtest.T) {
		s := newStore(mt.Client, mt.Coll)
		run := NewRun("simplebench", loopsum.Run(10), "h", time.Now())
		run.Sum = 46

		id, err := s.Save(ctx, run)
		if !errors.Is(err, ErrSumMismatch) {
			mt.Fatalf("Save error = %v, want ErrSumMismatch", err)
		}
		if id != primitive.NilObjectID {
			mt.Errorf("Save returned id %v for a rejected run", id)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Errorf("rejected run sent %q", evt.CommandName)
		}
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key",
		}))
		s := newStore(mt.Client, mt.Coll)

		_, err := s.Save(ctx, NewRun("simplebench", loopsum.Run(10), "h", time.Now()))
		if !mongo.IsDuplicateKeyError(err) {
			mt.Errorf("Save error = %v, want duplicate key", err)
		}
	})
}

func TestRecent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("newest first", func(mt *mtest.T) {
		newer := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
		older := newer.Add(-time.Hour)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "benchmark", Value: "simplebench"},
				{Key: "n", Value: int32(10)},
				{Key: "sum", Value: int64(45)},
				{Key: "elapsedMillis", Value: 1.5},
				{Key: "createdAt", Value: newer},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "benchmark", Value: "simplebench"},
				{Key: "n", Value: int32(10)},
				{Key: "sum", Value: int64(45)},
				{Key: "elapsedMillis", Value: 2.25},
				{Key: "createdAt", Value: older},
			},
		))
		s := newStore(mt.Client, mt.Coll)

		runs, err := s.Recent(ctx, "simplebench", 2)
		if err != nil {
			mt.Fatal(err)
		}
		if len(runs) != 2 {
			mt.Fatalf("got %d runs, want 2", len(runs))
		}
		if !runs[0].CreatedAt.Equal(newer) || !runs[1].CreatedAt.Equal(older) {
			mt.Errorf("order = %v, %v", runs[0].CreatedAt, runs[1].CreatedAt)
		}
		if runs[0].Sum != 45 || runs[0].N != 10 || runs[1].ElapsedMillis != 2.25 {
			mt.Errorf("decoded runs = %+v", runs)
		}

		// Sıralamayı sunucu yapar, find komutunda createdAt azalan olmalı
		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "find" {
			mt.Fatalf("started event = %v, want find", evt)
		}
		if dir := evt.Command.Lookup("sort", "createdAt").AsInt64(); dir != -1 {
			mt.Errorf("sort createdAt = %d, want -1", dir)
		}
		if limit := evt.Command.Lookup("limit").AsInt64(); limit != 2 {
			mt.Errorf("limit = %d, want 2", limit)
		}
		if name := evt.Command.Lookup("filter", "benchmark").StringValue(); name != "simplebench" {
			mt.Errorf("filter benchmark = %q", name)
		}
	})

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		s := newStore(mt.Client, mt.Coll)

		runs, err := s.Recent(ctx, "simplebench", 5)
		if err != nil {
			mt.Fatal(err)
		}
		if len(runs) != 0 {
			mt.Errorf("got %d runs, want 0", len(runs))
		}
	})
}

func TestCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(7)}},
		))
		s := newStore(mt.Client, mt.Coll)

		n, err := s.Count(context.Background(), "simplebench")
		if err != nil {
			mt.Fatal(err)
		}
		if n != 7 {
			mt.Errorf("Count = %d, want 7", n)
		}
	})
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("created or already present", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := newStore(mt.Client, mt.Coll)

		name, err := s.EnsureIndexes(ctx)
		if err != nil {
			mt.Fatal(err)
		}
		if name != "benchmark_1_createdAt_-1" {
			mt.Errorf("index name = %q", name)
		}
	})

	mt.Run("options conflict", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    85,
			Name:    "IndexOptionsConflict",
			Message: "Index already exists with a different name",
		}))
		s := newStore(mt.Client, mt.Coll)

		_, err := s.EnsureIndexes(ctx)
		if !errors.Is(err, ErrIndexConflict) {
			mt.Fatalf("EnsureIndexes error = %v, want ErrIndexConflict", err)
		}
		var ce mongo.CommandError
		if !errors.As(err, &ce) || ce.Code != 85 {
			mt.Errorf("server error not kept: %v", err)
		}
	})

	mt.Run("other command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))
		s := newStore(mt.Client, mt.Coll)

		_, err := s.EnsureIndexes(ctx)
		if err == nil {
			mt.Fatal("EnsureIndexes succeeded on a command error")
		}
		if errors.Is(err, ErrIndexConflict) {
			mt.Errorf("unauthorized reported as index conflict: %v", err)
		}
	})
}
