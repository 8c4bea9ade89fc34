package performance

import (
	"context"
	"fmt"

	"rostercheck/internal/wgapi"
)

// ReferenceSource loads the reference tables. *wgapi.Client implements it.
type ReferenceSource interface {
	Vehicles(ctx context.Context) (map[int64]wgapi.Vehicle, error)
	ExpectedValues(ctx context.Context) (map[int64]wgapi.ExpectedValues, error)
}

// Reference holds the read-only tables shared by every worker of a run.
type Reference struct {
	Vehicles map[int64]wgapi.Vehicle
	Expected map[int64]wgapi.ExpectedValues
}

// LoadReference fetches both tables.
func LoadReference(ctx context.Context, src ReferenceSource) (*Reference, error) {
	vehicles, err := src.Vehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}
	expected, err := src.ExpectedValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expected values: %w", err)
	}
	return &Reference{Vehicles: vehicles, Expected: expected}, nil
}
