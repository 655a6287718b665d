package utils

import (
	"errors"
	"math"
	"testing"
)

func TestValidateProbability(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		wantErr     error
	}{
		{"valid mid", 0.65, nil},
		{"valid zero", 0, nil},
		{"valid one", 1, nil},
		{"negative", -0.1, ErrProbabilityRange},
		{"above one", 1.1, ErrProbabilityRange},
		{"NaN", math.NaN(), ErrProbabilityNotFinite},
		{"Inf", math.Inf(1), ErrProbabilityNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProbability(tt.probability)
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateOdds(t *testing.T) {
	tests := []struct {
		name    string
		odds    float64
		wantErr error
	}{
		{"valid", 1.8, nil},
		{"exactly one", 1.0, ErrOddsRange},
		{"below one", 0.9, ErrOddsRange},
		{"negative", -2, ErrOddsRange},
		{"NaN", math.NaN(), ErrOddsNotFinite},
		{"Inf", math.Inf(-1), ErrOddsNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOdds(tt.odds)
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateFixtureID(t *testing.T) {
	if err := ValidateFixtureID(123); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateFixtureID(0); !errors.Is(err, ErrFixtureID) {
		t.Errorf("expected ErrFixtureID, got %v", err)
	}
	if err := ValidateFixtureID(-5); !errors.Is(err, ErrFixtureID) {
		t.Errorf("expected ErrFixtureID, got %v", err)
	}
}
