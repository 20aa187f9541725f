package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/activscan/internal/adapters/mq/queue"
	"github.com/okian/activscan/internal/adapters/mq/worker"
	"github.com/okian/activscan/internal/domain/features"
	"github.com/okian/activscan/internal/domain/model"
	logging "github.com/okian/activscan/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockScorer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (ms *mockScorer) Score(_ context.Context, ds model.Dataset) (model.LabeledDataset, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.calls++
	if ms.err != nil {
		return model.LabeledDataset{}, ms.err
	}
	rows := make([]model.LabeledRecord, len(ds.Records))
	for i, r := range ds.Records {
		rows[i] = model.LabeledRecord{AssignmentID: r.AssignmentID, Label: model.DefaultNormalLabel}
	}
	return model.LabeledDataset{BatchID: "batch-" + ds.Records[0].AssignmentID, Rows: rows}, nil
}

func (ms *mockScorer) setErr(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.err = err
}

type mockStore struct {
	mu   sync.Mutex
	puts map[string]model.LabeledDataset
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{puts: make(map[string]model.LabeledDataset)}
}

func (s *mockStore) Put(_ context.Context, out model.LabeledDataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.puts[out.BatchID] = out
	return nil
}

func (s *mockStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *mockStore) get(id string) (model.LabeledDataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.puts[id]
	return out, ok
}

func batch(id string) model.Dataset {
	return model.NewDataset([]model.Record{{AssignmentID: id}, {AssignmentID: id + "-2"}})
}

func await(t *testing.T, j queue.Job) queue.Result {
	t.Helper()
	select {
	case res := <-j.Reply:
		return res
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
		return queue.Result{}
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		scorer := &mockScorer{}
		store := newMockStore()
		w := worker.NewInMemoryWorker(q, scorer, store, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job is processed", func() {
			j := queue.NewJob("job-1", batch("A-1"))
			convey.So(q.Enqueue(ctx, j), convey.ShouldBeNil)
			res := await(t, j)

			convey.Convey("Then the result is stored and returned", func() {
				convey.So(res.Err, convey.ShouldBeNil)
				convey.So(res.Output.Len(), convey.ShouldEqual, 2)
				stored, ok := store.get("batch-A-1")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(stored.Rows[1].AssignmentID, convey.ShouldEqual, "A-1-2")
			})
		})

		convey.Convey("When the batch fails schema validation", func() {
			scorer.setErr(&features.SchemaError{Missing: []string{model.ColDuration}})
			j := queue.NewJob("job-2", batch("A-2"))
			convey.So(q.Enqueue(ctx, j), convey.ShouldBeNil)
			res := await(t, j)

			convey.Convey("Then the schema error reaches the caller and nothing is stored", func() {
				convey.So(errors.Is(res.Err, features.ErrSchema), convey.ShouldBeTrue)
				_, ok := store.get("batch-A-2")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the store rejects the result", func() {
			store.setErr(errors.New("full"))
			j := queue.NewJob("job-3", batch("A-3"))
			convey.So(q.Enqueue(ctx, j), convey.ShouldBeNil)
			res := await(t, j)

			convey.Convey("Then the caller sees the error", func() {
				convey.So(res.Err, convey.ShouldNotBeNil)
				convey.So(res.Err.Error(), convey.ShouldContainSubstring, "store batch")
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.Convey("Then it should shutdown gracefully and tolerate repeats", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of two workers", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		scorer := &mockScorer{}
		store := newMockStore()
		pool := worker.NewPool(2, q, scorer, store, worker.WithLogger(logging.Nop()))
		pool.Start(context.Background())

		convey.Convey("When jobs are queued and the pool shuts down", func() {
			jobs := make([]queue.Job, 0, 8)
			for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
				j := queue.NewJob(id, batch(id))
				convey.So(q.Enqueue(context.Background(), j), convey.ShouldBeNil)
				jobs = append(jobs, j)
			}
			err := pool.Shutdown(context.Background())

			convey.Convey("Then every pending job is drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pool.Size(), convey.ShouldEqual, 2)
				for _, j := range jobs {
					res := await(t, j)
					convey.So(res.Err, convey.ShouldBeNil)
				}
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), &mockScorer{}, newMockStore())

		convey.Convey("Then a single worker is used", func() {
			convey.So(pool.Size(), convey.ShouldEqual, 1)
		})
	})
}
