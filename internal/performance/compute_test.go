package performance

import (
	"context"
	"errors"
	"math"
	"testing"

	"rostercheck/internal/wgapi"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %.6f, want %.6f", name, got, want)
	}
}

func TestWN8AtExpectedValues(t *testing.T) {
	// Playing exactly at expectation yields the reference score.
	rDamageC := (1 - 0.22) / 0.78
	rFragC := math.Min(rDamageC+0.2, (1-0.12)/0.88)
	rSpotC := math.Min(rDamageC+0.1, (1-0.38)/0.62)
	rDefC := math.Min(rDamageC+0.1, (1-0.10)/0.9)
	rWinC := (1 - 0.71) / 0.29
	want := 980*rDamageC + 210*rDamageC*rFragC + 155*rFragC*rSpotC + 75*rDefC*rFragC + 145*rWinC

	approx(t, "WN8", WN8(1, 1, 1, 1, 1), want)
	approx(t, "WN8", want, 1565)
}

func TestWN8ClampsAtZero(t *testing.T) {
	if got := WN8(0, 0, 0, 0, 0); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestComputeAggregatesAcrossTiers(t *testing.T) {
	ref := &Reference{
		Vehicles: map[int64]wgapi.Vehicle{
			1: {TankID: 1, Tier: 10},
			2: {TankID: 2, Tier: 6},
		},
		Expected: map[int64]wgapi.ExpectedValues{
			1: {TankID: 1, Damage: 2000, Frag: 1, Spot: 1, Def: 1, WinRate: 50},
			2: {TankID: 2, Damage: 800, Frag: 1, Spot: 1, Def: 1, WinRate: 50},
		},
	}
	stats := []wgapi.TankStats{
		{TankID: 1, Battles: 100, Wins: 60, DamageDealt: 200000, Frags: 100, Spotted: 100, DroppedCapturePoints: 100},
		{TankID: 2, Battles: 300, Wins: 150, DamageDealt: 240000, Frags: 300, Spotted: 300, DroppedCapturePoints: 300},
		{TankID: 99, Battles: 100, Wins: 40},
	}

	perf := Compute(stats, ref)
	if perf.Battles != 500 || perf.Tier10Battles != 100 {
		t.Fatalf("unexpected battle counts %d/%d", perf.Battles, perf.Tier10Battles)
	}
	approx(t, "WinRate", perf.WinRate, 250.0/500)
	approx(t, "AvgTier", perf.AvgTier, (10*100+6*300)/400.0)
	approx(t, "Tier10WinRate", perf.Tier10WinRate, 0.6)
	approx(t, "Tier10DirectDamage", perf.Tier10DirectDamage, 2000)
	approx(t, "Tier10WN8", perf.Tier10WN8, WN8(1, 1, 1, 1, 1.2))
	approx(t, "WN8", perf.WN8, WN8(1, 1, 1, 1, 210.0/200))
}

func TestComputeWithoutStats(t *testing.T) {
	perf := Compute(nil, &Reference{})
	if perf.Battles != 0 || perf.WinRate != 0 || perf.WN8 != 0 || perf.AvgTier != 0 {
		t.Fatalf("expected zero figures, got %+v", perf)
	}
}

type fakeSource struct {
	vehicles map[int64]wgapi.Vehicle
	err      error
}

func (f fakeSource) Vehicles(context.Context) (map[int64]wgapi.Vehicle, error) {
	return f.vehicles, nil
}

func (f fakeSource) ExpectedValues(context.Context) (map[int64]wgapi.ExpectedValues, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[int64]wgapi.ExpectedValues{1: {TankID: 1}}, nil
}

func TestLoadReference(t *testing.T) {
	ref, err := LoadReference(context.Background(), fakeSource{vehicles: map[int64]wgapi.Vehicle{1: {TankID: 1, Tier: 10}}})
	if err != nil {
		t.Fatalf("LoadReference: %v", err)
	}
	if len(ref.Vehicles) != 1 || len(ref.Expected) != 1 {
		t.Fatalf("unexpected reference %+v", ref)
	}

	boom := errors.New("boom")
	if _, err := LoadReference(context.Background(), fakeSource{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
