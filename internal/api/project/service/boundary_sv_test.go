package projectService

import (
	"FarmWatch/internal/api/project"
	"FarmWatch/internal/entity"
	"context"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two unit squares in degrees, side by side with a 0.5 degree gap.
var (
	geomWest = jsoniter.RawMessage(`{"type":"Polygon","coordinates":[[[10,0],[11,0],[11,1],[10,1],[10,0]]]}`)
	geomEast = jsoniter.RawMessage(`{"type":"Polygon","coordinates":[[[11.5,0],[12.5,0],[12.5,1],[11.5,1],[11.5,0]]]}`)
	// Overlaps geomWest's eastern half.
	geomOverlap = jsoniter.RawMessage(`{"type":"Polygon","coordinates":[[[10.5,0],[11.5,0],[11.5,1],[10.5,1],[10.5,0]]]}`)
	// Shares only the edge at lon=11 with geomWest.
	geomTouching = jsoniter.RawMessage(`{"type":"Polygon","coordinates":[[[11,0],[12,0],[12,1],[11,1],[11,0]]]}`)
)

func TestCreateBoundary(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeRepository, IProjectService) {
		repo := newFakeRepository()
		seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "owner-1")
		return repo, newTestService(repo)
	}

	t.Run("creates boundary with computed area", func(t *testing.T) {
		repo, svc := setup()

		resp, err := svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{
			Name:     "West Field",
			Geometry: geomWest,
		})
		require.NoError(t, err)

		assert.Equal(t, "p1", resp.ProjectID)
		assert.Greater(t, resp.AreaHectares, 0.0)
		assert.True(t, repo.committed)
		assert.Contains(t, repo.projects.locked, "p1")
	})

	t.Run("disjoint boundaries coexist", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{Name: "West", Geometry: geomWest})
		require.NoError(t, err)

		_, err = svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{Name: "East", Geometry: geomEast})
		require.NoError(t, err)
	})

	t.Run("overlapping boundary is rejected and names the conflict", func(t *testing.T) {
		_, svc := setup()

		west, err := svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{Name: "West", Geometry: geomWest})
		require.NoError(t, err)

		_, err = svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{Name: "Clash", Geometry: geomOverlap})
		assert.ErrorIs(t, err, project.ErrBoundaryOverlap)
		assert.Contains(t, err.Error(), west.ID)
	})

	t.Run("inactive boundaries do not block new geometry", func(t *testing.T) {
		repo, svc := setup()
		repo.boundaries.boundaries["old"] = entity.FarmBoundary{
			ID:        "old",
			ProjectID: "p1",
			Name:      "Retired Field",
			Geometry:  geomWest,
			Active:    false,
		}

		_, err := svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{Name: "Clash", Geometry: geomOverlap})
		assert.NoError(t, err)
	})

	t.Run("touching boundary counts as overlap", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{Name: "West", Geometry: geomWest})
		require.NoError(t, err)

		_, err = svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{Name: "Edge", Geometry: geomTouching})
		assert.ErrorIs(t, err, project.ErrBoundaryOverlap)
	})

	t.Run("invalid geometry is rejected", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.CreateBoundary(ctx, "owner-1", "p1", project.CreateBoundaryRequest{
			Name:     "Broken",
			Geometry: jsoniter.RawMessage(`{"type":"Point","coordinates":[10,0]}`),
		})
		assert.ErrorIs(t, err, project.ErrInvalidGeometry)
	})

	t.Run("only the owner creates boundaries", func(t *testing.T) {
		repo, svc := setup()
		repo.members.members[memberKey("p1", "member-1")] = entity.ProjectMember{
			ID: "m1", ProjectID: "p1", UserID: "member-1", Role: entity.RoleMember, Active: true,
		}

		_, err := svc.CreateBoundary(ctx, "member-1", "p1", project.CreateBoundaryRequest{Name: "West", Geometry: geomWest})
		assert.ErrorIs(t, err, project.ErrNotProjectOwner)
	})
}
