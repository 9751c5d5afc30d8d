package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/structures"
)

const githubRecentLimit = 3

// GitHubAdapter merges two REST calls: the user profile and the public
// event feed. Contributions are approximated by counting push events in
// the recent feed; the profile API exposes no true contribution count.
type GitHubAdapter struct {
	client  *http.Client
	baseURL string
	logger  providers.Logger
}

func NewGitHubAdapter(conf *structures.Config, client *http.Client, logger providers.Logger) *GitHubAdapter {
	return &GitHubAdapter{
		client:  client,
		baseURL: conf.Platforms.GitHubBaseURL,
		logger:  logger,
	}
}

func (a *GitHubAdapter) Name() models.Platform {
	return models.PlatformGitHub
}

func (a *GitHubAdapter) FetchProfile(ctx context.Context, handle string) (*models.ProfileSnapshot, error) {
	var user, events gjson.Result

	// Both calls run concurrently; either failure fails the adapter.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = a.call(ctx, "/users/"+url.PathEscape(handle))
		return err
	})
	g.Go(func() error {
		var err error
		events, err = a.call(ctx, "/users/"+url.PathEscape(handle)+"/events")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !user.Get("public_repos").Exists() {
		return nil, models.NewMalformedError(models.PlatformGitHub, "user response is missing public_repos")
	}
	if !events.IsArray() {
		return nil, models.NewMalformedError(models.PlatformGitHub, "events response is not an array")
	}

	var contributions int
	var recent []models.RecentItem
	events.ForEach(func(_, event gjson.Result) bool {
		if event.Get("type").String() == "PushEvent" {
			contributions++
		}
		if len(recent) < githubRecentLimit {
			recent = append(recent, models.RecentItem{
				Label: event.Get("repo.name").String(),
				Tag:   event.Get("type").String(),
				Date:  event.Get("created_at").String(),
			})
		}
		return true
	})

	return &models.ProfileSnapshot{
		Platform: models.PlatformGitHub,
		Name:     models.PlatformGitHub.DisplayName(),
		Icon:     "🐙",
		Stats: map[string]any{
			"repositories": user.Get("public_repos").Value(),
			// The profile API has no aggregate star count; the dashboard
			// shows zero here.
			"stars":         0,
			"followers":     user.Get("followers").Value(),
			"contributions": contributions,
		},
		Recent: recent,
	}, nil
}

func (a *GitHubAdapter) call(ctx context.Context, path string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformGitHub, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := a.client.Do(req)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformGitHub, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformGitHub, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return gjson.Result{}, models.NewNotFoundError(models.PlatformGitHub, "user not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, models.NewTransportError(models.PlatformGitHub,
			fmt.Errorf("%s returned status %d", path, resp.StatusCode))
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, models.NewMalformedError(models.PlatformGitHub, path+" returned invalid JSON")
	}
	return gjson.ParseBytes(body), nil
}
