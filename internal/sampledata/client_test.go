package sampledata_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/activscan/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func fakeServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	mux.HandleFunc("/score", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "text/csv" || len(body) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"bad_request","message":"bad upload"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"batch_id":"b-1","rows":[{"assignment_id":"A-1","anomaly_label":"Normal"}],"report":{"records":1}}`))
	})
	mux.HandleFunc("/results/b-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("Assignment ID\nA-1\n"))
	})
	return httptest.NewServer(mux)
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a client for a running service", t, func() {
		srv := fakeServer()
		defer srv.Close()
		c := sampledata.NewClient(srv.URL+"/", time.Second)

		Convey("When checking health", func() {
			Convey("Then it succeeds", func() {
				So(c.CheckHealth(ctx), ShouldBeNil)
			})
		})

		Convey("When scoring a batch", func() {
			out, err := c.Score(ctx, strings.NewReader("Assignment ID\nA-1\n"))

			Convey("Then the JSON result is decoded", func() {
				So(err, ShouldBeNil)
				So(out.BatchID, ShouldEqual, "b-1")
				So(len(out.Rows), ShouldEqual, 1)
				So(out.Rows[0].Label, ShouldEqual, "Normal")
				So(out.Report.Records, ShouldEqual, 1)
			})
		})

		Convey("When the upload is rejected", func() {
			_, err := c.Score(ctx, strings.NewReader(""))

			Convey("Then the status and message are reported", func() {
				So(errors.Is(err, sampledata.ErrStatus), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "400")
				So(err.Error(), ShouldContainSubstring, "bad upload")
			})
		})

		Convey("When downloading a stored batch", func() {
			var buf bytes.Buffer
			err := c.Download(ctx, "b-1", &buf)

			Convey("Then the CSV body is copied", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldEqual, "Assignment ID\nA-1\n")
			})
		})

		Convey("When downloading an unknown batch", func() {
			err := c.Download(ctx, "nope", io.Discard)

			Convey("Then it fails with the status", func() {
				So(errors.Is(err, sampledata.ErrStatus), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "404")
			})
		})
	})
}
