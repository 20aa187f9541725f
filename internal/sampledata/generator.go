// Package sampledata generates synthetic activation batches and drives a
// running scanner over HTTP. It backs the CLI's generate and submit commands
// and the end-to-end tests.
package sampledata

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/activscan/internal/domain/model"
)

// Ranges of the normal activation cluster.
const (
	normalQtyMin      = 1
	normalQtyRange    = 5
	normalDurationMin = 10
	normalDurationMax = 30
	businessHourStart = 8
	businessHours     = 10
	maxActivationLag  = 2 * time.Hour
)

// Shape of an injected outlier.
const (
	outlierQty      = 9999
	outlierDuration = 0
)

// TimeLayout is how generated timestamps are written.
const TimeLayout = "2006-01-02 15:04:05"

// ErrInvalidConfig is returned for impossible generator settings.
var ErrInvalidConfig = errors.New("invalid sample config")

var (
	providers = []string{"Airtel", "Jio", "Vodafone"}
	skus      = []string{"ESIM-5G", "SIM-4G", "SIM-5G"}
)

// Config controls batch generation.
type Config struct {
	Rows     int       // total records, outliers included
	Outliers int       // records with an extreme quantity and odd hours
	Seed     int64     // same seed, same batch
	Day      time.Time // date of the activations; zero means 2024-03-01
}

// Batch is a generated dataset plus the positions of its injected outliers.
type Batch struct {
	Dataset  model.Dataset
	Outliers []int // ascending record indexes
}

// Generate builds a deterministic batch. Normal records sit in business
// hours with small quantities; outliers are assigned in the small hours
// with Qty=9999 and Duration=0.
func Generate(cfg Config) (Batch, error) {
	if cfg.Rows < 0 || cfg.Outliers < 0 || cfg.Outliers > cfg.Rows {
		return Batch{}, fmt.Errorf("%w: rows=%d outliers=%d", ErrInvalidConfig, cfg.Rows, cfg.Outliers)
	}
	day := cfg.Day
	if day.IsZero() {
		day = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible fixtures

	outliers := rng.Perm(cfg.Rows)[:cfg.Outliers]
	sort.Ints(outliers)
	isOutlier := make(map[int]bool, len(outliers))
	for _, i := range outliers {
		isOutlier[i] = true
	}

	records := make([]model.Record, cfg.Rows)
	for i := range records {
		if isOutlier[i] {
			records[i] = outlierRecord(rng, day)
		} else {
			records[i] = normalRecord(rng, day)
		}
	}
	return Batch{Dataset: model.NewDataset(records), Outliers: outliers}, nil
}

func normalRecord(rng *rand.Rand, day time.Time) model.Record {
	assign := day.Add(time.Duration(businessHourStart+rng.Intn(businessHours))*time.Hour +
		time.Duration(rng.Intn(60))*time.Minute)
	activation := assign.Add(time.Duration(rng.Int63n(int64(maxActivationLag))))
	return model.Record{
		AssignmentID:   newID(rng),
		OrderID:        newID(rng),
		AssignTime:     assign.Format(TimeLayout),
		ActivationTime: activation.Format(TimeLayout),
		Qty:            strconv.Itoa(normalQtyMin + rng.Intn(normalQtyRange)),
		Duration:       strconv.Itoa(normalDurationMin + rng.Intn(normalDurationMax-normalDurationMin+1)),
		Provider:       providers[rng.Intn(len(providers))],
		SKU:            skus[rng.Intn(len(skus))],
	}
}

func outlierRecord(rng *rand.Rand, day time.Time) model.Record {
	assign := day.Add(time.Duration(2+rng.Intn(3))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)
	activation := day.Add(time.Duration(21+rng.Intn(3))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)
	return model.Record{
		AssignmentID:   newID(rng),
		OrderID:        newID(rng),
		AssignTime:     assign.Format(TimeLayout),
		ActivationTime: activation.Format(TimeLayout),
		Qty:            strconv.Itoa(outlierQty),
		Duration:       strconv.Itoa(outlierDuration),
		Provider:       providers[rng.Intn(len(providers))],
		SKU:            skus[rng.Intn(len(skus))],
	}
}

// newID draws a UUID from rng so identifiers repeat with the seed.
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// *rand.Rand never fails to read.
		panic(err)
	}
	return id.String()
}
