package projectService

import (
	"FarmWatch/internal/api/project"
	"FarmWatch/internal/entity"
	"FarmWatch/pkg/utils"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *fakeRepository) IProjectService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, repo, newFakeRedis(), utils.New())
}

func seedProject(repo *fakeRepository, id, name, slug, accessCode, ownerID string) {
	repo.projects.projects[id] = entity.Project{
		ID:         id,
		Name:       name,
		Slug:       slug,
		AccessCode: accessCode,
		OwnerID:    ownerID,
		Active:     true,
		CreatedAt:  time.Now(),
	}
	repo.members.members[memberKey(id, ownerID)] = entity.ProjectMember{
		ID:        id + "-owner",
		ProjectID: id,
		UserID:    ownerID,
		Role:      entity.RoleOwner,
		Active:    true,
	}
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("creates project with slug and owner membership", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)

		resp, err := svc.CreateProject(ctx, "user-1", project.CreateProjectRequest{Name: "North Farm"})
		require.NoError(t, err)

		assert.Equal(t, "north-farm", resp.Slug)
		assert.Len(t, resp.AccessCode, 12)
		assert.Equal(t, string(entity.RoleOwner), resp.Role)
		assert.True(t, repo.committed)

		member, err := repo.members.GetMember(ctx, resp.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleOwner, member.Role)
	})

	t.Run("suffixes slug on collision", func(t *testing.T) {
		repo := newFakeRepository()
		seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "user-1")
		seedProject(repo, "p2", "North Farm", "north-farm-1", "DDDDEEEEFFFF", "user-1")
		svc := newTestService(repo)

		resp, err := svc.CreateProject(ctx, "user-2", project.CreateProjectRequest{Name: "North Farm"})
		require.NoError(t, err)
		assert.Equal(t, "north-farm-2", resp.Slug)
	})

	t.Run("access codes are unique across projects", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)

		first, err := svc.CreateProject(ctx, "user-1", project.CreateProjectRequest{Name: "Farm A"})
		require.NoError(t, err)
		second, err := svc.CreateProject(ctx, "user-1", project.CreateProjectRequest{Name: "Farm B"})
		require.NoError(t, err)

		assert.NotEqual(t, first.AccessCode, second.AccessCode)
	})

	t.Run("same name under the same owner is rejected", func(t *testing.T) {
		repo := newFakeRepository()
		seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "user-1")
		svc := newTestService(repo)

		_, err := svc.CreateProject(ctx, "user-1", project.CreateProjectRequest{Name: "North Farm"})
		assert.ErrorIs(t, err, project.ErrProjectNameTaken)
	})

	t.Run("same name under another owner succeeds", func(t *testing.T) {
		repo := newFakeRepository()
		seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "user-1")
		svc := newTestService(repo)

		resp, err := svc.CreateProject(ctx, "user-2", project.CreateProjectRequest{Name: "North Farm"})
		require.NoError(t, err)
		assert.Equal(t, "north-farm-1", resp.Slug)
	})

	t.Run("slug falls back to a timestamp after suffix exhaustion", func(t *testing.T) {
		repo := newFakeRepository()
		repo.projects.slugAlwaysTaken = true
		svc := newTestService(repo)

		resp, err := svc.CreateProject(ctx, "user-1", project.CreateProjectRequest{Name: "North Farm"})
		require.NoError(t, err)

		// Base check plus one per numeric suffix, then the time-derived
		// disambiguator without a further lookup.
		assert.Equal(t, 1001, repo.projects.slugChecks)
		require.True(t, strings.HasPrefix(resp.Slug, "north-farm-"))
		suffix, err := strconv.ParseInt(strings.TrimPrefix(resp.Slug, "north-farm-"), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, suffix, int64(1000))
	})

	t.Run("access code falls back after bounded retries", func(t *testing.T) {
		repo := newFakeRepository()
		repo.projects.codeAlwaysTaken = true
		svc := newTestService(repo)

		resp, err := svc.CreateProject(ctx, "user-1", project.CreateProjectRequest{Name: "North Farm"})
		require.NoError(t, err)

		assert.Equal(t, 100, repo.projects.codeChecks)
		assert.Len(t, resp.AccessCode, 12)
	})
}

func TestGetProject(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepository()
	seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "owner-1")
	repo.members.members[memberKey("p1", "member-1")] = entity.ProjectMember{
		ID: "m1", ProjectID: "p1", UserID: "member-1", Role: entity.RoleMember, Active: true,
	}
	svc := newTestService(repo)

	t.Run("owner sees access code", func(t *testing.T) {
		resp, err := svc.GetProject(ctx, "owner-1", "p1")
		require.NoError(t, err)
		assert.Equal(t, "AAAABBBBCCCC", resp.AccessCode)
	})

	t.Run("member does not see access code", func(t *testing.T) {
		resp, err := svc.GetProject(ctx, "member-1", "p1")
		require.NoError(t, err)
		assert.Empty(t, resp.AccessCode)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		_, err := svc.GetProject(ctx, "stranger", "p1")
		assert.ErrorIs(t, err, project.ErrNotProjectMember)
	})
}

func TestJoinProject(t *testing.T) {
	ctx := context.Background()

	t.Run("valid access code adds member", func(t *testing.T) {
		repo := newFakeRepository()
		seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "owner-1")
		svc := newTestService(repo)

		resp, err := svc.JoinProject(ctx, "user-2", project.JoinProjectRequest{AccessCode: "AAAABBBBCCCC"})
		require.NoError(t, err)
		assert.Equal(t, "p1", resp.ID)
		assert.Empty(t, resp.AccessCode)

		member, err := repo.members.GetMember(ctx, "p1", "user-2")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleMember, member.Role)
		assert.True(t, member.Active)
		assert.Equal(t, "AAAABBBBCCCC", member.AccessCodeUsed.String)
	})

	t.Run("inactive project cannot be joined", func(t *testing.T) {
		repo := newFakeRepository()
		seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "owner-1")
		p := repo.projects.projects["p1"]
		p.Active = false
		repo.projects.projects["p1"] = p
		svc := newTestService(repo)

		_, err := svc.JoinProject(ctx, "user-2", project.JoinProjectRequest{AccessCode: "AAAABBBBCCCC"})
		assert.ErrorIs(t, err, project.ErrInvalidAccessCode)
	})

	t.Run("unknown access code", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)

		_, err := svc.JoinProject(ctx, "user-2", project.JoinProjectRequest{AccessCode: "ZZZZZZZZZZZZ"})
		assert.ErrorIs(t, err, project.ErrInvalidAccessCode)
	})

	t.Run("joining twice is rejected", func(t *testing.T) {
		repo := newFakeRepository()
		seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "owner-1")
		svc := newTestService(repo)

		_, err := svc.JoinProject(ctx, "user-2", project.JoinProjectRequest{AccessCode: "AAAABBBBCCCC"})
		require.NoError(t, err)

		_, err = svc.JoinProject(ctx, "user-2", project.JoinProjectRequest{AccessCode: "AAAABBBBCCCC"})
		assert.ErrorIs(t, err, project.ErrAlreadyProjectMember)
	})
}

func TestRegenerateAccessCode(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepository()
	seedProject(repo, "p1", "North Farm", "north-farm", "AAAABBBBCCCC", "owner-1")
	repo.members.members[memberKey("p1", "member-1")] = entity.ProjectMember{
		ID: "m1", ProjectID: "p1", UserID: "member-1", Role: entity.RoleMember, Active: true,
	}
	svc := newTestService(repo)

	t.Run("owner rotates the code", func(t *testing.T) {
		code, err := svc.RegenerateAccessCode(ctx, "owner-1", "p1")
		require.NoError(t, err)
		assert.Len(t, code, 12)
		assert.NotEqual(t, "AAAABBBBCCCC", code)

		p, err := repo.projects.GetProjectByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, code, p.AccessCode)
	})

	t.Run("member cannot rotate", func(t *testing.T) {
		_, err := svc.RegenerateAccessCode(ctx, "member-1", "p1")
		assert.ErrorIs(t, err, project.ErrNotProjectOwner)
	})
}
