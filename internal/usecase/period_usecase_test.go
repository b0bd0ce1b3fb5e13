package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/keymutex"
	"github.com/finbooks/erpledger/internal/usecase"
	"github.com/finbooks/erpledger/internal/usecase/mocks"
)

func newPeriods(t *testing.T) (*usecase.FiscalPeriodUseCase, *mocks.MockActivityRecorder) {
	t.Helper()

	activity := mocks.NewMockActivityRecorder()
	uc := usecase.NewFiscalPeriodUseCase(
		mocks.NewMockFiscalPeriodRepository(),
		activity,
		mocks.NewMockIDGenerator(),
		keymutex.New(),
		zerolog.Nop(),
	)

	return uc, activity
}

func mustCreateJan2020(t *testing.T, uc *usecase.FiscalPeriodUseCase) *domain.FiscalPeriod {
	t.Helper()

	period, err := uc.CreatePeriod(context.Background(), usecase.CreatePeriodInput{
		Code:      "Jan-2020",
		Name:      "January 2020",
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create period: %v", err)
	}

	return period
}

func TestPeriodCreateStartsOpen(t *testing.T) {
	uc, _ := newPeriods(t)

	period := mustCreateJan2020(t, uc)
	if !period.IsOpen() {
		t.Error("expected new period to be open")
	}
}

func TestPeriodCreateInvalidRange(t *testing.T) {
	uc, _ := newPeriods(t)

	_, err := uc.CreatePeriod(context.Background(), usecase.CreatePeriodInput{
		Code:      "bad",
		StartDate: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrInvalidPeriodRange) {
		t.Fatalf("expected ErrInvalidPeriodRange, got %v", err)
	}
}

func TestPeriodCloseAndReopen(t *testing.T) {
	uc, activity := newPeriods(t)
	ctx := context.Background()

	mustCreateJan2020(t, uc)

	if err := uc.Close(ctx, "Jan-2020", "controller"); err != nil {
		t.Fatalf("close: %v", err)
	}

	period, err := uc.GetPeriodForDate(ctx, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get period: %v", err)
	}

	if period.IsOpen() {
		t.Error("expected period to be closed")
	}

	if period.UpdatedBy != "controller" {
		t.Errorf("expected UpdatedBy controller, got %q", period.UpdatedBy)
	}

	if err := uc.Open(ctx, "Jan-2020", "cfo"); err != nil {
		t.Fatalf("open: %v", err)
	}

	period, err = uc.GetPeriodForDate(ctx, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get period: %v", err)
	}

	if !period.IsOpen() {
		t.Error("expected period to be open again")
	}

	if period.UpdatedBy != "cfo" {
		t.Errorf("expected UpdatedBy cfo, got %q", period.UpdatedBy)
	}

	verbs := []string{}
	for _, a := range activity.All() {
		verbs = append(verbs, a.Verb)
	}

	if len(verbs) != 2 || verbs[0] != domain.VerbClosedPeriod || verbs[1] != domain.VerbOpenedPeriod {
		t.Errorf("unexpected activity verbs %v", verbs)
	}
}

func TestPeriodCloseIdempotent(t *testing.T) {
	uc, _ := newPeriods(t)
	ctx := context.Background()

	mustCreateJan2020(t, uc)

	if err := uc.Close(ctx, "Jan-2020", "a"); err != nil {
		t.Fatalf("first close: %v", err)
	}

	before, _ := uc.GetPeriodForDate(ctx, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	if err := uc.Close(ctx, "Jan-2020", "b"); err != nil {
		t.Fatalf("second close should succeed, got %v", err)
	}

	after, _ := uc.GetPeriodForDate(ctx, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	if after.Status != domain.PeriodClosed {
		t.Error("expected period to stay closed")
	}

	// Repeating the close still refreshes the audit fields.
	if after.UpdatedBy != "b" {
		t.Errorf("expected UpdatedBy b, got %q", after.UpdatedBy)
	}

	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Error("expected UpdatedAt to move forward")
	}
}

func TestPeriodSetStatusUnknownCode(t *testing.T) {
	uc, _ := newPeriods(t)

	if err := uc.Close(context.Background(), "nope", "x"); !errors.Is(err, domain.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}
}

func TestPeriodIsDateInOpenPeriod(t *testing.T) {
	uc, _ := newPeriods(t)
	ctx := context.Background()

	mustCreateJan2020(t, uc)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"start boundary", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"end boundary", time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"end boundary late in day", time.Date(2020, 1, 31, 23, 59, 0, 0, time.UTC), true},
		{"before period", time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"after period", time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.IsDateInOpenPeriod(ctx, tt.date)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPeriodIsDateInOpenPeriodAfterClose(t *testing.T) {
	uc, _ := newPeriods(t)
	ctx := context.Background()

	mustCreateJan2020(t, uc)

	if err := uc.Close(ctx, "Jan-2020", "controller"); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := uc.IsDateInOpenPeriod(ctx, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got {
		t.Error("expected closed period date to report false")
	}
}
