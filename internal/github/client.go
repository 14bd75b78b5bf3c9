// Package github implements the minimal GitHub REST client used to trigger
// the external uploader workflow and to read commits for changelog
// previews.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "telegram-dispatch/internal/errors"
)

const apiVersion = "2022-11-28"

// Client is an authenticated GitHub REST API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a GitHub client for the given API base URL and token.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, apperrors.NewConfigError("github base URL is required", nil)
	}
	if token == "" {
		return nil, apperrors.NewConfigError("github token is required", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "github_client"),
	}, nil
}

// DispatchWorkflow triggers one workflow_dispatch run of the named workflow
// file. GitHub answers 204 No Content on success. The call is single-shot:
// retrying is left to the caller, and this client never retries on its own.
func (c *Client) DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, gitRef string, inputs map[string]string) error {
	if owner == "" || repo == "" || workflowFile == "" {
		return apperrors.NewValidationError("workflow owner, repo, and file are required", nil)
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/dispatches", owner, repo, workflowFile)
	body := dispatchPayload{Ref: gitRef, Inputs: inputs}

	if err := c.doRequest(ctx, http.MethodPost, path, body, nil); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Workflow dispatch accepted",
		"owner", owner, "repo", repo, "workflow", workflowFile, "ref", gitRef)
	return nil
}

// ListCommits returns up to limit recent commits of the repository's
// default branch, newest first.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, limit int) ([]Commit, error) {
	if owner == "" || repo == "" {
		return nil, apperrors.NewValidationError("repository owner and name are required", nil)
	}
	if limit <= 0 {
		limit = 30
	} else if limit > 100 {
		// GitHub caps per_page at 100.
		limit = 100
	}

	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=%d", owner, repo, limit)

	var commits []Commit
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &commits); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "Listed commits", "owner", owner, "repo", repo, "count", len(commits))
	return commits, nil
}

type dispatchPayload struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs,omitempty"`
}

// Commit is a single entry from the commits listing.
type Commit struct {
	SHA    string       `json:"sha"`
	Commit CommitDetail `json:"commit"`
}

// CommitDetail holds the commit message and author metadata.
type CommitDetail struct {
	Message string       `json:"message"`
	Author  CommitAuthor `json:"author"`
}

// CommitAuthor identifies who authored a commit and when.
type CommitAuthor struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

type apiResponseError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

// doRequest handles the HTTP request/response cycle with proper error
// handling. A nil response means the caller expects no body.
func (c *Client) doRequest(ctx context.Context, method, path string, body, response interface{}) error {
	req, err := c.buildRequest(ctx, method, path, body)
	if err != nil {
		return apperrors.NewAPIError("failed to build github request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewAPIError("github request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr apiResponseError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Message == "" {
			return apperrors.NewAPIError(fmt.Sprintf("github API returned status %d", resp.StatusCode), nil)
		}
		return apperrors.NewAPIError(
			fmt.Sprintf("github API returned status %d: %s", resp.StatusCode, apiErr.Message), nil)
	}

	if response == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return apperrors.NewAPIError("failed to decode github response", err)
	}

	return nil
}

// buildRequest creates a new HTTP request with proper headers.
func (c *Client) buildRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
