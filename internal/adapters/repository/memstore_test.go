package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/activscan/internal/adapters/repository"
	"github.com/okian/activscan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func batch(id string, rows int) model.LabeledDataset {
	return model.LabeledDataset{BatchID: id, Rows: make([]model.LabeledRecord, rows)}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store holding two batches", t, func() {
		s := repository.NewMemoryStore(repository.WithCapacity(2))
		var _ repository.Store = s

		So(s.Put(ctx, batch("b1", 1)), ShouldBeNil)
		So(s.Put(ctx, batch("b2", 2)), ShouldBeNil)

		Convey("When reading a stored batch", func() {
			out, err := s.Get(ctx, "b2")

			Convey("Then it is returned intact", func() {
				So(err, ShouldBeNil)
				So(out.Len(), ShouldEqual, 2)
				So(s.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When a third batch arrives", func() {
			So(s.Put(ctx, batch("b3", 3)), ShouldBeNil)

			Convey("Then the oldest batch is evicted", func() {
				_, err := s.Get(ctx, "b1")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				_, err = s.Get(ctx, "b3")
				So(err, ShouldBeNil)
				So(s.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When an existing batch is stored again", func() {
			So(s.Put(ctx, batch("b1", 5)), ShouldBeNil)

			Convey("Then it is replaced without eviction", func() {
				out, err := s.Get(ctx, "b1")
				So(err, ShouldBeNil)
				So(out.Len(), ShouldEqual, 5)
				_, err = s.Get(ctx, "b2")
				So(err, ShouldBeNil)
			})
		})

		Convey("When a batch has no id", func() {
			err := s.Put(ctx, batch("", 1))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidBatch), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then Put fails", func() {
				So(errors.Is(s.Put(cctx, batch("b9", 1)), context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent writers", t, func() {
		s := repository.NewMemoryStore(repository.WithCapacity(10))
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.Put(ctx, batch(fmt.Sprintf("b%d", i), 1))
				_, _ = s.Get(ctx, fmt.Sprintf("b%d", i))
			}(i)
		}
		wg.Wait()

		Convey("Then the capacity bound holds", func() {
			So(s.Len(ctx), ShouldEqual, 10)
		})
	})
}
