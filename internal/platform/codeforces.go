package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/structures"
)

const codeforcesRecentLimit = 10

// CodeforcesAdapter reads the public Codeforces REST API. Every call
// returns an envelope with a status field ("OK" or "FAILED") and a
// result payload.
type CodeforcesAdapter struct {
	client  *http.Client
	baseURL string
	logger  providers.Logger
}

func NewCodeforcesAdapter(conf *structures.Config, client *http.Client, logger providers.Logger) *CodeforcesAdapter {
	return &CodeforcesAdapter{
		client:  client,
		baseURL: conf.Platforms.CodeforcesBaseURL,
		logger:  logger,
	}
}

func (a *CodeforcesAdapter) Name() models.Platform {
	return models.PlatformCodeforces
}

func (a *CodeforcesAdapter) FetchProfile(ctx context.Context, handle string) (*models.ProfileSnapshot, error) {
	info, err := a.call(ctx, "user.info", url.Values{"handles": {handle}})
	if err != nil {
		return nil, err
	}
	users := info.Get("result").Array()
	if info.Get("status").String() != "OK" || len(users) == 0 {
		return nil, models.NewNotFoundError(models.PlatformCodeforces, "user not found")
	}
	user := users[0]

	// Subsequent calls use the canonical handle casing the API returned.
	canonical := user.Get("handle").String()
	if canonical == "" {
		canonical = handle
	}

	subs, err := a.call(ctx, "user.status", url.Values{
		"handle": {canonical},
		"from":   {"1"},
		"count":  {"1000"},
	})
	if err != nil {
		return nil, err
	}
	if subs.Get("status").String() != "OK" {
		return nil, models.NewTransportError(models.PlatformCodeforces,
			fmt.Errorf("failed to fetch submissions: %s", subs.Get("comment").String()))
	}
	submissions := subs.Get("result")
	if !submissions.IsArray() {
		return nil, models.NewMalformedError(models.PlatformCodeforces, "user.status result is not an array")
	}

	// Solved = distinct accepted problems, keyed contestId-index.
	seen := make(map[string]struct{})
	var recent []models.RecentItem
	submissions.ForEach(func(_, sub gjson.Result) bool {
		if sub.Get("verdict").String() == "OK" {
			key := fmt.Sprintf("%d-%s", sub.Get("problem.contestId").Int(), sub.Get("problem.index").String())
			seen[key] = struct{}{}
		}
		if len(recent) < codeforcesRecentLimit {
			verdict := sub.Get("verdict").String()
			if verdict == "" {
				verdict = "Unknown"
			}
			recent = append(recent, models.RecentItem{
				Label: fmt.Sprintf("%d-%s: %s",
					sub.Get("problem.contestId").Int(),
					sub.Get("problem.index").String(),
					sub.Get("problem.name").String()),
				Tag:  verdict,
				Date: time.Unix(sub.Get("creationTimeSeconds").Int(), 0).UTC().Format(time.RFC3339),
			})
		}
		return true
	})

	ratings, err := a.call(ctx, "user.rating", url.Values{"handle": {canonical}})
	if err != nil {
		return nil, err
	}
	if ratings.Get("status").String() != "OK" {
		return nil, models.NewTransportError(models.PlatformCodeforces,
			fmt.Errorf("failed to fetch contests: %s", ratings.Get("comment").String()))
	}

	return &models.ProfileSnapshot{
		Platform: models.PlatformCodeforces,
		Name:     models.PlatformCodeforces.DisplayName(),
		Icon:     "🏆",
		Stats: map[string]any{
			"rating":   user.Get("rating").Value(),
			"solved":   len(seen),
			"rank":     user.Get("rank").String(),
			"contests": len(ratings.Get("result").Array()),
		},
		Recent: recent,
	}, nil
}

// FetchPerformance returns the contest rating history, keeping only
// entries where the rating actually changed from the previous contest.
func (a *CodeforcesAdapter) FetchPerformance(ctx context.Context, handle string) ([]models.RatingPoint, error) {
	doc, err := a.call(ctx, "user.rating", url.Values{"handle": {handle}})
	if err != nil {
		return nil, err
	}
	if doc.Get("status").String() != "OK" {
		comment := doc.Get("comment").String()
		if strings.Contains(strings.ToLower(comment), "not found") {
			return nil, models.NewNotFoundError(models.PlatformCodeforces, "user not found")
		}
		return nil, models.NewTransportError(models.PlatformCodeforces,
			fmt.Errorf("failed to fetch rating history: %s", comment))
	}
	history := doc.Get("result")
	if !history.IsArray() {
		return nil, models.NewMalformedError(models.PlatformCodeforces, "user.rating result is not an array")
	}

	var points []models.RatingPoint
	var prevRating int64
	history.ForEach(func(_, contest gjson.Result) bool {
		rating := contest.Get("newRating").Int()
		if len(points) == 0 || rating != prevRating {
			points = append(points, models.RatingPoint{
				Contest: contest.Get("contestName").String(),
				Date:    time.Unix(contest.Get("ratingUpdateTimeSeconds").Int(), 0).UTC().Format("2006-01-02"),
				Rating:  float64(rating),
			})
		}
		prevRating = rating
		return true
	})
	return points, nil
}

// call performs one API request and parses the response envelope.
// Envelope status handling is left to the caller since "FAILED" means
// different things per method.
func (a *CodeforcesAdapter) call(ctx context.Context, method string, q url.Values) (gjson.Result, error) {
	u := fmt.Sprintf("%s/%s?%s", a.baseURL, method, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformCodeforces, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformCodeforces, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformCodeforces, err)
	}

	// The API reports errors inside the envelope with non-2xx codes, so
	// the body is parsed first and the status code only matters when
	// there is no envelope to read.
	if !gjson.ValidBytes(body) {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return gjson.Result{}, models.NewTransportError(models.PlatformCodeforces,
				fmt.Errorf("%s returned status %d", method, resp.StatusCode))
		}
		return gjson.Result{}, models.NewMalformedError(models.PlatformCodeforces, method+" returned invalid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.Get("status").Exists() {
		return gjson.Result{}, models.NewMalformedError(models.PlatformCodeforces, method+" response is missing the status envelope")
	}
	return doc, nil
}
