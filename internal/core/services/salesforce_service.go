package services

import (
	"context"

	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
)

// AccountLookup queries the CRM-lookup workflow.
type AccountLookup interface {
	LookupSalesforceAccounts(ctx context.Context, domains []string, user string) ([]webhook.SalesforceAccount, error)
}

type SalesforceService struct {
	lookup AccountLookup
	log    *logger.Logger
}

func NewSalesforceService(lookup AccountLookup, log *logger.Logger) *SalesforceService {
	return &SalesforceService{lookup: lookup, log: log}
}

// LookupAccounts resolves which domains map to known CRM accounts. Domains
// are deduplicated before the call; order is preserved.
func (s *SalesforceService) LookupAccounts(ctx context.Context, domains []string, user string) ([]webhook.SalesforceAccount, error) {
	seen := make(map[string]struct{}, len(domains))
	unique := make([]string, 0, len(domains))
	for _, d := range domains {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	if len(unique) == 0 {
		return nil, ErrLookupNoDomains
	}
	return s.lookup.LookupSalesforceAccounts(ctx, unique, user)
}
