package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/config"
	"study-planner/internal/logger"
	"study-planner/internal/model"
)

const demoSeed = `
templates:
  - title: Calculus I
    subject: Math
    items:
      - title: Limits
        link_url: https://example.com/limits
      - title: Derivatives
users:
  - name: kim
    plans:
      - title: Algebra
        subject: Math
        color: "#336699"
        tasks:
          - date: "2025-01-02"
            description: Groups
            status: done
          - date: "2025-01-03"
            description: Rings
      - title: Reading
        subject: English
  - name: lee
`

func newTestApp(t *testing.T) *app {
	t.Helper()

	a, err := newApp(config.Config{DatabaseURL: ":memory:"}, logger.NewDiscard())
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestParseSeed(t *testing.T) {
	seed, err := parseSeed([]byte(demoSeed))
	require.NoError(t, err)

	require.Len(t, seed.Users, 2)
	require.Len(t, seed.Users[0].Plans, 2)
	plan := seed.Users[0].Plans[0]
	assert.Equal(t, "#336699", *plan.Color)
	assert.Equal(t, model.StatusDone, plan.Tasks[0].Status)
	assert.Equal(t, "2025-01-02", plan.Tasks[0].Date)
	assert.Equal(t, "https://example.com/limits", *seed.Templates[0].Items[0].LinkURL)
	assert.Nil(t, seed.Templates[0].Items[1].LinkURL)

	_, err = parseSeed([]byte("users: [\n"))
	assert.Error(t, err)
	_, err = parseSeed([]byte("other: 1\n"))
	assert.EqualError(t, err, "seed file has no users and no templates")
}

func TestApplySeed(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	seed, err := parseSeed([]byte(demoSeed))
	require.NoError(t, err)

	res, err := applySeed(ctx, a, seed)
	require.NoError(t, err)
	assert.Equal(t, seedResult{Users: 2, Plans: 2, Tasks: 2, Templates: 1}, res)

	kim, err := a.users.GetByName(ctx, "kim")
	require.NoError(t, err)
	stats, err := a.plans.Stats(ctx, kim, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPlans)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 50, stats.CompletionRate)

	tpls, err := a.templates.List(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 1)
	items, err := a.templates.Items(ctx, tpls[0].ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// seeding twice reuses the users
	res, err = applySeed(ctx, a, &seedFile{Users: []seedUser{{Name: "kim"}}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Users)
}

func TestApplySeed_invalidTask(t *testing.T) {
	a := newTestApp(t)
	seed := &seedFile{Users: []seedUser{{
		Name: "kim",
		Plans: []seedPlan{{
			Title: "Algebra", Subject: "Math",
			Tasks: []seedTask{{Date: "02/01/2025", Description: "Groups"}},
		}},
	}}}

	_, err := applySeed(context.Background(), a, seed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tasks of plan "Algebra"`)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}
