package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// Projects projects organization project board records
func Projects(raws []json.RawMessage) ([]domain.Project, error) {
	return normalizeAll("project", raws, func(raw json.RawMessage) (domain.Project, bool, error) {
		var p github.Project
		if err := json.Unmarshal(raw, &p); err != nil {
			return domain.Project{}, false, err
		}
		return domain.Project{
			ID:        p.GetID(),
			Name:      p.GetName(),
			Body:      p.Body,
			State:     p.GetState(),
			CreatedAt: timestamp(p.CreatedAt),
			UpdatedAt: timestamp(p.UpdatedAt),
		}, true, nil
	})
}
