package githubsync

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// DefaultCommitMessage is used when the caller does not supply one.
const DefaultCommitMessage = "Update CallSensei workspace"

// PullResult is a decoded workspace document plus the blob SHA needed to
// update the same file later.
type PullResult struct {
	Document domain.ExportDocument
	SHA      string
}

// Client pushes and pulls workspace documents to files in GitHub
// repositories via the contents API.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates a sync client. token may be empty for pulls from
// public repositories; pushes require it.
func NewClient(token string, logger *slog.Logger) *Client {
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Client{gh: gh, logger: logger}
}

// newClientWithHTTP is used by tests to point the client at a local server.
func newClientWithHTTP(httpClient *http.Client, baseURL string, logger *slog.Logger) (*Client, error) {
	gh := github.NewClient(httpClient)
	var err error
	gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{gh: gh, logger: logger}, nil
}

// Pull fetches and decodes the workspace file at target. The returned SHA
// must be passed back to Push when overwriting the same file.
func (c *Client) Pull(ctx context.Context, target domain.SyncTarget) (*PullResult, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	c.logger.Info("pulling workspace",
		slog.String("target", target.String()))

	fileContent, _, _, err := c.gh.Repositories.GetContents(
		ctx, target.Owner, target.Repo, target.FilePath,
		&github.RepositoryContentGetOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target.String(), err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("%s is a directory, not a file", target.FilePath)
	}

	raw, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", target.FilePath, err)
	}

	doc, err := workspace.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse workspace file: %w", err)
	}

	c.logger.Info("pulled workspace",
		slog.Int("activities", len(doc.Activities)),
		slog.Int("folders", len(doc.Folders)))

	return &PullResult{Document: doc, SHA: fileContent.GetSHA()}, nil
}

// Push writes doc to the file at target. Pass the SHA from a prior Pull to
// update an existing file; an empty SHA creates a new one. Returns the new
// blob SHA for subsequent pushes.
func (c *Client) Push(ctx context.Context, target domain.SyncTarget, doc domain.ExportDocument, message, sha string) (string, error) {
	if err := validateTarget(target); err != nil {
		return "", err
	}
	if message == "" {
		message = DefaultCommitMessage
	}

	data, err := workspace.Encode(doc)
	if err != nil {
		return "", fmt.Errorf("encode workspace: %w", err)
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: data,
	}

	var resp *github.RepositoryContentResponse
	if sha == "" {
		c.logger.Info("creating workspace file",
			slog.String("target", target.String()))
		resp, _, err = c.gh.Repositories.CreateFile(
			ctx, target.Owner, target.Repo, target.FilePath, opts)
	} else {
		opts.SHA = github.String(sha)
		c.logger.Info("updating workspace file",
			slog.String("target", target.String()))
		resp, _, err = c.gh.Repositories.UpdateFile(
			ctx, target.Owner, target.Repo, target.FilePath, opts)
	}
	if err != nil {
		return "", fmt.Errorf("push %s: %w", target.String(), err)
	}

	newSHA := resp.Content.GetSHA()
	c.logger.Info("pushed workspace", slog.String("sha", newSHA))
	return newSHA, nil
}

func validateTarget(target domain.SyncTarget) error {
	if strings.TrimSpace(target.Owner) == "" {
		return apperrors.ValidationError{Field: "owner", Message: "repository owner must not be empty"}
	}
	if strings.TrimSpace(target.Repo) == "" {
		return apperrors.ValidationError{Field: "repo", Message: "repository name must not be empty"}
	}
	if strings.TrimSpace(target.FilePath) == "" {
		return apperrors.ValidationError{Field: "filePath", Message: "file path must not be empty"}
	}
	if strings.Contains(target.FilePath, "..") {
		return apperrors.ValidationError{Field: "filePath", Message: "file path must not contain \"..\""}
	}
	return nil
}
