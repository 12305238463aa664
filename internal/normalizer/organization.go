package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// Organization projects an organization record into the profile section
func Organization(raw json.RawMessage) (*domain.OrganizationProfile, error) {
	var org github.Organization
	if err := json.Unmarshal(raw, &org); err != nil {
		return nil, err
	}
	return &domain.OrganizationProfile{
		Login:         org.GetLogin(),
		Name:          org.Name,
		Description:   org.Description,
		Blog:          org.Blog,
		Location:      org.Location,
		Email:         org.Email,
		AvatarURL:     org.AvatarURL,
		HTMLURL:       org.HTMLURL,
		PublicRepos:   org.PublicRepos,
		PublicMembers: org.PublicMembersURL,
	}, nil
}

// Members projects organization member records
func Members(raws []json.RawMessage) ([]domain.Member, error) {
	return normalizeAll("member", raws, func(raw json.RawMessage) (domain.Member, bool, error) {
		var u github.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return domain.Member{}, false, err
		}
		return domain.Member{
			Login:     u.GetLogin(),
			ID:        u.GetID(),
			AvatarURL: u.GetAvatarURL(),
		}, true, nil
	})
}

// Repositories projects organization repository records
func Repositories(raws []json.RawMessage) ([]domain.Repository, error) {
	return normalizeAll("repository", raws, func(raw json.RawMessage) (domain.Repository, bool, error) {
		var r github.Repository
		if err := json.Unmarshal(raw, &r); err != nil {
			return domain.Repository{}, false, err
		}

		var license *string
		if r.License != nil {
			name := r.License.GetName()
			license = &name
		}
		topics := r.Topics
		if topics == nil {
			topics = []string{}
		}

		return domain.Repository{
			Name:            r.GetName(),
			FullName:        r.GetFullName(),
			Private:         r.GetPrivate(),
			Description:     r.Description,
			HTMLURL:         r.GetHTMLURL(),
			Language:        r.Language,
			CreatedAt:       timestamp(r.CreatedAt),
			UpdatedAt:       timestamp(r.UpdatedAt),
			PushedAt:        timestamp(r.PushedAt),
			Size:            r.GetSize(),
			StargazersCount: r.GetStargazersCount(),
			WatchersCount:   r.GetWatchersCount(),
			ForksCount:      r.GetForksCount(),
			OpenIssuesCount: r.GetOpenIssuesCount(),
			License:         license,
			DefaultBranch:   r.GetDefaultBranch(),
			Topics:          topics,
		}, true, nil
	})
}
