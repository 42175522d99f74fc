package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed chart.yaml
var defaultChart []byte

type seedAccount struct {
	Code       int64  `yaml:"code"`
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	ParentCode *int64 `yaml:"parent_code"`
	Level      int    `yaml:"level"`
	IsDetail   bool   `yaml:"is_detail"`
}

type seedFile struct {
	Accounts []seedAccount `yaml:"accounts"`
}

// LoadChart parses a chart of accounts definition. An empty path loads
// the embedded default chart.
func LoadChart(path string) ([]Account, error) {
	raw := defaultChart
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read chart: %w", err)
		}
		raw = data
	}
	return parseChart(raw)
}

func parseChart(raw []byte) ([]Account, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse chart: %w", err)
	}
	if len(file.Accounts) == 0 {
		return nil, fmt.Errorf("catalog: chart defines no accounts")
	}
	seen := make(map[int64]struct{}, len(file.Accounts))
	accounts := make([]Account, 0, len(file.Accounts))
	for _, in := range file.Accounts {
		if in.Code <= 0 {
			return nil, fmt.Errorf("catalog: account %q has invalid code %d", in.Name, in.Code)
		}
		if _, dup := seen[in.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate account code %d", in.Code)
		}
		seen[in.Code] = struct{}{}
		accType := AccountType(in.Type)
		switch accType {
		case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
			AccountTypeRevenue, AccountTypeCost, AccountTypeExpense:
		case "":
			accType = TypeForCode(in.Code)
		default:
			return nil, fmt.Errorf("catalog: account %d has unknown type %q", in.Code, in.Type)
		}
		accounts = append(accounts, Account{
			Code:       in.Code,
			Name:       in.Name,
			Type:       accType,
			ParentCode: in.ParentCode,
			Level:      in.Level,
			IsDetail:   in.IsDetail,
			IsActive:   true,
		})
	}
	return accounts, nil
}

// Seed inserts any missing chart accounts. Existing rows are left
// untouched; the catalog is immutable once referenced by postings.
func Seed(ctx context.Context, repo Repository, accounts []Account) error {
	for _, account := range accounts {
		if err := repo.InsertIfAbsent(ctx, account); err != nil {
			return err
		}
	}
	return nil
}
