package catalog

import "testing"

func TestSideFor(t *testing.T) {
	debitNormal := []AccountType{AccountTypeAsset, AccountTypeCost, AccountTypeExpense}
	for _, typ := range debitNormal {
		if SideFor(typ) != SideDebit {
			t.Fatalf("%s should be debit normal", typ)
		}
	}
	creditNormal := []AccountType{AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue}
	for _, typ := range creditNormal {
		if SideFor(typ) != SideCredit {
			t.Fatalf("%s should be credit normal", typ)
		}
	}
}

func TestTypeForCode(t *testing.T) {
	cases := []struct {
		code int64
		want AccountType
	}{
		{110101, AccountTypeAsset},
		{210101, AccountTypeLiability},
		{3100, AccountTypeEquity},
		{410101, AccountTypeRevenue},
		{510101, AccountTypeExpense},
		{610101, AccountTypeExpense},
		{1, AccountTypeAsset},
	}
	for _, tc := range cases {
		if got := TypeForCode(tc.code); got != tc.want {
			t.Fatalf("code %d: expected %s, got %s", tc.code, tc.want, got)
		}
	}
}

func TestPostable(t *testing.T) {
	detail := Account{IsDetail: true, IsActive: true}
	if !detail.Postable() {
		t.Fatal("active detail account should be postable")
	}
	summary := Account{IsDetail: false, IsActive: true}
	if summary.Postable() {
		t.Fatal("summary account should not be postable")
	}
	inactive := Account{IsDetail: true, IsActive: false}
	if inactive.Postable() {
		t.Fatal("inactive account should not be postable")
	}
}

func TestAccountSideFollowsType(t *testing.T) {
	caja := Account{Code: 110101, Type: AccountTypeAsset}
	if caja.Side() != SideDebit {
		t.Fatal("asset account should report debit side")
	}
	ventas := Account{Code: 410101, Type: AccountTypeRevenue}
	if ventas.Side() != SideCredit {
		t.Fatal("revenue account should report credit side")
	}
}
