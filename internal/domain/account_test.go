package domain_test

import (
	"testing"

	"github.com/finbooks/erpledger/internal/domain"
)

func TestAccountTypeNormalSide(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.EntryType
	}{
		{domain.AccountTypeAsset, domain.Debit},
		{domain.AccountTypeExpense, domain.Debit},
		{domain.AccountTypeLiability, domain.Credit},
		{domain.AccountTypeEquity, domain.Credit},
		{domain.AccountTypeRevenue, domain.Credit},
	}

	for _, tt := range tests {
		if got := tt.accountType.NormalSide(); got != tt.want {
			t.Errorf("%s normal side = %s, want %s", tt.accountType, got, tt.want)
		}
	}
}

func TestAccountTypeValid(t *testing.T) {
	if !domain.AccountTypeAsset.Valid() {
		t.Error("expected asset to be a valid type")
	}

	if domain.AccountType("goodwill-ish").Valid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestSequenceFormat(t *testing.T) {
	tests := []struct {
		name string
		seq  domain.Sequence
		want string
	}{
		{"prefix and suffix", domain.Sequence{Code: "tx", CurrentNumber: 42, Prefix: "TX-", Suffix: "/2020"}, "TX-42/2020"},
		{"prefix only", domain.Sequence{Code: "entry", CurrentNumber: 7, Prefix: "LE-"}, "LE-7"},
		{"bare number", domain.Sequence{Code: "plain", CurrentNumber: 1001}, "1001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seq.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
