package catalog

import (
	"strings"
	"testing"
)

func TestLoadChartEmbeddedDefault(t *testing.T) {
	accounts, err := LoadChart("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) == 0 {
		t.Fatal("embedded chart should not be empty")
	}
	byCode := make(map[int64]Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	profit, ok := byCode[AccountCurrentProfit]
	if !ok {
		t.Fatalf("embedded chart must define account %d", AccountCurrentProfit)
	}
	if profit.Type != AccountTypeEquity {
		t.Fatalf("account %d should be equity, got %s", AccountCurrentProfit, profit.Type)
	}
	if _, ok := byCode[AccountCurrentLoss]; !ok {
		t.Fatalf("embedded chart must define account %d", AccountCurrentLoss)
	}
	for _, a := range accounts {
		if !a.IsActive {
			t.Fatalf("seeded account %d should start active", a.Code)
		}
	}
}

func TestParseChartRejectsDuplicateCodes(t *testing.T) {
	raw := []byte(`accounts:
  - code: 110101
    name: Caja
    type: ASSET
    is_detail: true
  - code: 110101
    name: Caja chica
    type: ASSET
    is_detail: true
`)
	_, err := parseChart(raw)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate code error, got %v", err)
	}
}

func TestParseChartRejectsUnknownType(t *testing.T) {
	raw := []byte(`accounts:
  - code: 110101
    name: Caja
    type: CASHMONEY
    is_detail: true
`)
	_, err := parseChart(raw)
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestParseChartInfersTypeFromCode(t *testing.T) {
	raw := []byte(`accounts:
  - code: 210101
    name: Proveedores
    is_detail: true
`)
	accounts, err := parseChart(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accounts[0].Type != AccountTypeLiability {
		t.Fatalf("expected inferred LIABILITY, got %s", accounts[0].Type)
	}
}

func TestParseChartRejectsEmptyChart(t *testing.T) {
	if _, err := parseChart([]byte("accounts: []\n")); err == nil {
		t.Fatal("expected error for empty chart")
	}
}
