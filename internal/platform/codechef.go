package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/structures"
)

const codechefRecentLimit = 3

// CodeChefAdapter reads a self-hosted scraper endpoint, since CodeChef
// has no public stats API. The scraper reports lookup failures as an
// error field in an otherwise 200 response.
type CodeChefAdapter struct {
	client     *http.Client
	scraperURL string
	logger     providers.Logger
}

func NewCodeChefAdapter(conf *structures.Config, client *http.Client, logger providers.Logger) *CodeChefAdapter {
	return &CodeChefAdapter{
		client:     client,
		scraperURL: conf.Platforms.CodeChefScraperURL,
		logger:     logger,
	}
}

func (a *CodeChefAdapter) Name() models.Platform {
	return models.PlatformCodeChef
}

func (a *CodeChefAdapter) FetchProfile(ctx context.Context, handle string) (*models.ProfileSnapshot, error) {
	if a.scraperURL == "" {
		return nil, models.NewTransportError(models.PlatformCodeChef,
			errors.New("scraper endpoint is not configured"))
	}

	u := fmt.Sprintf("%s/get-cc-data?uname=%s", a.scraperURL, url.QueryEscape(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, models.NewTransportError(models.PlatformCodeChef, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, models.NewTransportError(models.PlatformCodeChef, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, models.NewTransportError(models.PlatformCodeChef, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewTransportError(models.PlatformCodeChef,
			fmt.Errorf("scraper returned status %d", resp.StatusCode))
	}
	if !gjson.ValidBytes(body) {
		return nil, models.NewMalformedError(models.PlatformCodeChef, "scraper returned invalid JSON")
	}

	doc := gjson.ParseBytes(body)
	if msg := doc.Get("error"); msg.Exists() {
		return nil, models.NewNotFoundError(models.PlatformCodeChef, msg.String())
	}
	if !doc.Get("current_rating").Exists() {
		return nil, models.NewMalformedError(models.PlatformCodeChef, "scraper response is missing current_rating")
	}

	contests := doc.Get("contests").Array()
	var recent []models.RecentItem
	for i, contest := range contests {
		if i == codechefRecentLimit {
			break
		}
		var label string
		if solved := contest.Get("problems_solved").Array(); len(solved) > 0 {
			label = solved[0].String()
		}
		recent = append(recent, models.RecentItem{
			Label: label,
			Tag:   "Accepted",
			Date:  "N/A", // the scraper has no per-problem dates
		})
	}

	return &models.ProfileSnapshot{
		Platform: models.PlatformCodeChef,
		Name:     models.PlatformCodeChef.DisplayName(),
		Icon:     "👨‍🍳",
		Stats: map[string]any{
			"rating":   doc.Get("current_rating").Value(),
			"solved":   doc.Get("total_problems_solved").Value(),
			"rank":     doc.Get("highest_rating").String(),
			"contests": len(contests),
		},
		Recent: recent,
	}, nil
}
