package settings

import (
	"context"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

// Repository reads and writes the singleton settings record. There is no
// caching on purpose: callers re-read per operation so admin changes take
// effect on the next request.
type Repository interface {
	Read(ctx context.Context) (*domain.Settings, error)
	Write(ctx context.Context, s *domain.Settings) error
}
