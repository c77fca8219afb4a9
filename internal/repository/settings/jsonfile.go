package settings

import (
	"context"
	"path/filepath"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	"github.com/soorihai2/ssksilks-sub001/internal/jsonstore"
)

type jsonfileRepo struct {
	doc *jsonstore.Document[*domain.Settings]
}

// NewJSONFile opens the settings document under dataDir.
func NewJSONFile(dataDir string) Repository {
	return &jsonfileRepo{doc: jsonstore.NewDocument[*domain.Settings](filepath.Join(dataDir, "settings.json"))}
}

func (r *jsonfileRepo) Read(_ context.Context) (*domain.Settings, error) {
	s, ok, err := r.doc.Read()
	if err != nil {
		return nil, err
	}
	if !ok || s == nil {
		return &domain.Settings{}, nil
	}
	return s, nil
}

func (r *jsonfileRepo) Write(_ context.Context, s *domain.Settings) error {
	return r.doc.Write(s)
}
