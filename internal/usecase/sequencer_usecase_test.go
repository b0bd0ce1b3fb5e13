package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/keymutex"
	"github.com/finbooks/erpledger/internal/usecase"
	"github.com/finbooks/erpledger/internal/usecase/mocks"
)

func newSequencer(t *testing.T) (*usecase.SequencerUseCase, *mocks.MockSequenceRepository) {
	t.Helper()

	repo := mocks.NewMockSequenceRepository()
	return usecase.NewSequencerUseCase(repo, keymutex.New()), repo
}

func TestSequencerGetNextNumber(t *testing.T) {
	uc, _ := newSequencer(t)
	ctx := context.Background()

	if _, err := uc.CreateSequence(ctx, usecase.CreateSequenceInput{Code: "invoices", Initial: 100, Prefix: "INV-", Suffix: "/2020"}); err != nil {
		t.Fatalf("create sequence: %v", err)
	}

	got, err := uc.GetNextNumber(ctx, "invoices")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "INV-101/2020" {
		t.Errorf("expected INV-101/2020, got %q", got)
	}

	got, err = uc.GetNextNumber(ctx, "invoices")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "INV-102/2020" {
		t.Errorf("expected INV-102/2020, got %q", got)
	}
}

func TestSequencerGetNextNumberUnknownCode(t *testing.T) {
	uc, _ := newSequencer(t)

	if _, err := uc.GetNextNumber(context.Background(), "missing"); !errors.Is(err, domain.ErrSequenceNotFound) {
		t.Fatalf("expected ErrSequenceNotFound, got %v", err)
	}
}

func TestSequencerCreateSequenceDuplicate(t *testing.T) {
	uc, _ := newSequencer(t)
	ctx := context.Background()

	if _, err := uc.CreateSequence(ctx, usecase.CreateSequenceInput{Code: "invoices"}); err != nil {
		t.Fatalf("create sequence: %v", err)
	}

	if _, err := uc.CreateSequence(ctx, usecase.CreateSequenceInput{Code: "invoices"}); !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestSequencerConcurrentUniqueness(t *testing.T) {
	uc, repo := newSequencer(t)
	ctx := context.Background()

	const workers = 50

	if _, err := uc.CreateSequence(ctx, usecase.CreateSequenceInput{Code: "orders", Initial: 0, Prefix: "ORD-"}); err != nil {
		t.Fatalf("create sequence: %v", err)
	}

	results := make(chan string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			number, err := uc.GetNextNumber(ctx, "orders")
			if err != nil {
				t.Errorf("get next number: %v", err)
				return
			}

			results <- number
		}()
	}

	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for number := range results {
		if seen[number] {
			t.Errorf("number %s issued twice", number)
		}
		seen[number] = true
	}

	if len(seen) != workers {
		t.Fatalf("expected %d distinct numbers, got %d", workers, len(seen))
	}

	seq, err := repo.GetByCode(ctx, "orders")
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}

	if seq.CurrentNumber != workers {
		t.Errorf("expected counter at %d, got %d", workers, seq.CurrentNumber)
	}
}
