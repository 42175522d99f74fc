package transactions

import (
	"errors"
	"testing"
	"time"

	"github.com/contalibre/contalibre/internal/ledger/shared"
)

func validProposal() ProposalInput {
	return ProposalInput{
		PeriodID:    1,
		Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Venta de contado",
		Type:        TypeDiario,
		Lines: []LineInput{
			{AccountCode: 110101, Debit: 1000},
			{AccountCode: 410101, Credit: 1000},
		},
	}
}

func TestValidateAcceptsBalancedProposal(t *testing.T) {
	if err := validProposal().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnbalancedLines(t *testing.T) {
	in := validProposal()
	in.Lines = []LineInput{
		{AccountCode: 110101, Debit: 100},
		{AccountCode: 410101, Credit: 90},
	}
	if err := in.Validate(); !errors.Is(err, shared.ErrUnbalanced) {
		t.Fatalf("expected ErrUnbalanced, got %v", err)
	}
}

func TestValidateToleratesRoundingDrift(t *testing.T) {
	in := validProposal()
	in.Lines = []LineInput{
		{AccountCode: 110101, Debit: 100.005},
		{AccountCode: 410101, Credit: 100},
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("drift within tolerance should pass, got %v", err)
	}
	in.Lines[0].Debit = 100.02
	if err := in.Validate(); !errors.Is(err, shared.ErrUnbalanced) {
		t.Fatalf("drift beyond tolerance should fail, got %v", err)
	}
}

func TestValidateRequiresTwoLines(t *testing.T) {
	in := validProposal()
	in.Lines = in.Lines[:1]
	if err := in.Validate(); !errors.Is(err, shared.ErrTooFewLines) {
		t.Fatalf("expected ErrTooFewLines, got %v", err)
	}
}

func TestValidateRejectsNegativeAmounts(t *testing.T) {
	in := validProposal()
	in.Lines[0].Debit = -5
	if err := in.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateRejectsLineOnBothSides(t *testing.T) {
	in := validProposal()
	in.Lines[0].Credit = 1000
	if err := in.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateRejectsUnknownType(t *testing.T) {
	in := validProposal()
	in.Type = "APERTURA"
	if err := in.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateRequiresDescription(t *testing.T) {
	in := validProposal()
	in.Description = "   "
	if err := in.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTotalDebitSumsDebitSide(t *testing.T) {
	in := validProposal()
	in.Lines = append(in.Lines,
		LineInput{AccountCode: 110102, Debit: 250},
		LineInput{AccountCode: 410102, Credit: 250},
	)
	if got := in.TotalDebit(); got != 1250 {
		t.Fatalf("expected 1250, got %.2f", got)
	}
}
