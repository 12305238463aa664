package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// Workflows projects Actions workflow records
func Workflows(raws []json.RawMessage) ([]domain.Workflow, error) {
	return normalizeAll("workflow", raws, func(raw json.RawMessage) (domain.Workflow, bool, error) {
		var w github.Workflow
		if err := json.Unmarshal(raw, &w); err != nil {
			return domain.Workflow{}, false, err
		}
		return domain.Workflow{
			ID:        w.GetID(),
			Name:      w.GetName(),
			State:     w.GetState(),
			CreatedAt: timestamp(w.CreatedAt),
			UpdatedAt: timestamp(w.UpdatedAt),
			HTMLURL:   w.GetHTMLURL(),
		}, true, nil
	})
}
