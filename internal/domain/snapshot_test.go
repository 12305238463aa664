package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_AllSectionsPresentAndEmpty(t *testing.T) {
	var zero Snapshot
	zero.Normalize()

	for _, snap := range []*Snapshot{NewSnapshot(), &zero} {
		snap.OrganizationProfile = &OrganizationProfile{Login: "acme"}
		data, err := json.Marshal(snap)
		require.NoError(t, err)

		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Len(t, doc, len(SectionNames))
		for _, name := range SectionNames {
			raw, ok := doc[name]
			require.True(t, ok, "missing key %s", name)
			if name != SectionOrganizationProfile {
				assert.Equal(t, "[]", string(raw), name)
			}
		}
	}
}

func TestSnapshot_ProfileAbsentWhenUnavailable(t *testing.T) {
	data, err := json.Marshal(NewSnapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(data), SectionOrganizationProfile)
	assert.Contains(t, string(data), `"repository_members":[]`)
}

func TestSnapshot_KeyOrder(t *testing.T) {
	snap := NewSnapshot()
	snap.OrganizationProfile = &OrganizationProfile{Login: "acme"}
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	last := -1
	for _, name := range SectionNames {
		idx := strings.Index(string(data), `"`+name+`":`)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, last, name)
		last = idx
	}
}

func TestSnapshotRun_Section(t *testing.T) {
	run := &SnapshotRun{Sections: []SectionReport{
		{Name: SectionBranches, Status: SectionStatusPartial, Items: 2},
	}}
	report, ok := run.Section(SectionBranches)
	assert.True(t, ok)
	assert.Equal(t, SectionStatusPartial, report.Status)

	_, ok = run.Section(SectionCommits)
	assert.False(t, ok)
}
