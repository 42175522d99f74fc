package catalog

import "context"

// Service exposes read-only catalog lookups to the rest of the engine.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the account for code or shared.ErrAccountNotFound.
func (s *Service) Resolve(ctx context.Context, code int64) (Account, error) {
	return s.repo.FindByCode(ctx, code)
}

// List returns the full chart ordered by code.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// ListDetail returns only postable leaf accounts.
func (s *Service) ListDetail(ctx context.Context) ([]Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	detail := accounts[:0:0]
	for _, a := range accounts {
		if a.Postable() {
			detail = append(detail, a)
		}
	}
	return detail, nil
}
