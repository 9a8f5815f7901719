// Package releaseapi publishes releases and uploads firmware assets to the
// GitHub Releases API.
package releaseapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/oshokin/firmware-releaser/internal/domain/release"
	"github.com/oshokin/firmware-releaser/internal/logger"
)

// API is the remote release surface consumed by the publisher.
type API interface {
	// CreateRelease creates one release for the run and returns its identifier.
	CreateRelease(ctx context.Context, version string, channel release.Channel,
		timestamp time.Time) (int64, error)
	// UploadAsset uploads one artifact against the release and returns the
	// remote asset identifier.
	UploadAsset(ctx context.Context, releaseID int64, asset *release.Asset) (int64, error)
}

// GitHubClient implements API on top of the GitHub Releases endpoints.
type GitHubClient struct {
	// client is the authenticated GitHub API client.
	client *github.Client
	// owner is the repository owner releases are published to.
	owner string
	// repo is the repository releases are published to.
	repo string
}

// NewGitHubClient creates a client authenticated with the provided token.
func NewGitHubClient(ctx context.Context, owner, repo, token string) *GitHubClient {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))

	return &GitHubClient{
		client: github.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
	}
}

// CreateRelease creates a dated release tagged for the channel and run timestamp.
// Nightly releases are marked as prereleases.
func (c *GitHubClient) CreateRelease(ctx context.Context, version string,
	channel release.Channel, timestamp time.Time,
) (int64, error) {
	tag := fmt.Sprintf("%s-%s-%d", version, channel, timestamp.Unix())
	name := fmt.Sprintf("Firmware %s (%s) %s", version, channel, timestamp.Format("2006-01-02"))

	created, _, err := c.client.Repositories.CreateRelease(ctx, c.owner, c.repo,
		&github.RepositoryRelease{
			TagName:    github.String(tag),
			Name:       github.String(name),
			Prerelease: github.Bool(channel == release.ChannelNightly),
		})
	if err != nil {
		return 0, fmt.Errorf("create release %s: %w", tag, err)
	}

	logger.InfoKV(ctx, "Created release", "tag", tag, "release_id", created.GetID())

	return created.GetID(), nil
}

// UploadAsset uploads the artifact against the release. For update actions the
// previously uploaded asset is removed first so the release set never carries
// a stale duplicate.
//
// A missing prior asset is tolerated: after a crash between uploads and the
// state write, the tracker still points at an asset a previous run already
// deleted, and re-invocation is the only recovery mechanism there is.
func (c *GitHubClient) UploadAsset(ctx context.Context, releaseID int64,
	asset *release.Asset,
) (int64, error) {
	if asset.Action == release.ActionUpdate && asset.AssetID != 0 {
		_, err := c.client.Repositories.DeleteReleaseAsset(ctx, c.owner, c.repo, asset.AssetID)

		switch {
		case isNotFound(err):
			logger.WarnKV(ctx, "Previous asset is already gone, uploading anyway",
				"build", asset.BuildName, "asset_id", asset.AssetID)
		case err != nil:
			return 0, fmt.Errorf("delete previous asset %d for %s: %w", asset.AssetID, asset.BuildName, err)
		}
	}

	file, err := os.Open(asset.ArtifactPath)
	if err != nil {
		return 0, fmt.Errorf("open artifact %s: %w", asset.ArtifactPath, err)
	}

	defer func() {
		_ = file.Close()
	}()

	uploaded, _, err := c.client.Repositories.UploadReleaseAsset(ctx, c.owner, c.repo, releaseID,
		&github.UploadOptions{Name: asset.Filename}, file)
	if err != nil {
		return 0, fmt.Errorf("upload asset %s: %w", asset.Filename, err)
	}

	logger.InfoKV(ctx, "Uploaded asset",
		"build", asset.BuildName, "filename", asset.Filename, "asset_id", uploaded.GetID())

	return uploaded.GetID(), nil
}

// isNotFound reports whether the API answered 404 for the request.
func isNotFound(err error) bool {
	var apiErr *github.ErrorResponse

	return errors.As(err, &apiErr) &&
		apiErr.Response != nil &&
		apiErr.Response.StatusCode == http.StatusNotFound
}
