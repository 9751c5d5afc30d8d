package platform

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/structures"
)

const leetcodeRecentLimit = 5

const leetcodeProfileQuery = `
query getLeetCodeCPData($username: String!, $recentLimit: Int!) {
  matchedUser(username: $username) {
    profile {
      ranking
    }
    submitStatsGlobal {
      acSubmissionNum {
        count
      }
    }
  }
  userContestRanking(username: $username) {
    attendedContestsCount
    rating
    globalRanking
  }
  recentAcSubmissionList(username: $username, limit: $recentLimit) {
    title
    timestamp
    id
  }
}`

const leetcodePerformanceQuery = `
query getContestParticipation($username: String!) {
  userContestRankingHistory(username: $username) {
    contest {
      title
      startTime
    }
    rating
  }
}`

// LeetCodeAdapter talks to the LeetCode GraphQL endpoint with fixed
// query shapes.
type LeetCodeAdapter struct {
	client   *http.Client
	endpoint string
	logger   providers.Logger
}

func NewLeetCodeAdapter(conf *structures.Config, client *http.Client, logger providers.Logger) *LeetCodeAdapter {
	return &LeetCodeAdapter{
		client:   client,
		endpoint: conf.Platforms.LeetCodeURL,
		logger:   logger,
	}
}

func (a *LeetCodeAdapter) Name() models.Platform {
	return models.PlatformLeetCode
}

func (a *LeetCodeAdapter) FetchProfile(ctx context.Context, handle string) (*models.ProfileSnapshot, error) {
	doc, err := a.query(ctx, leetcodeProfileQuery, map[string]any{
		"username":    handle,
		"recentLimit": leetcodeRecentLimit,
	})
	if err != nil {
		return nil, err
	}

	matched := doc.Get("data.matchedUser")
	if !matched.Exists() {
		return nil, models.NewMalformedError(models.PlatformLeetCode, "response is missing matchedUser")
	}
	if matched.Type == gjson.Null {
		return nil, models.NewNotFoundError(models.PlatformLeetCode, "user not found")
	}

	// The contest ranking block is null for users who never attended a
	// contest; the source serves null stats in that case.
	contest := doc.Get("data.userContestRanking")

	var solved any
	if acNums := matched.Get("submitStatsGlobal.acSubmissionNum"); acNums.IsArray() {
		var sum int64
		acNums.ForEach(func(_, item gjson.Result) bool {
			sum += item.Get("count").Int()
			return true
		})
		solved = sum
	}

	var recent []models.RecentItem
	doc.Get("data.recentAcSubmissionList").ForEach(func(_, sub gjson.Result) bool {
		recent = append(recent, models.RecentItem{
			Label: sub.Get("title").String(),
			Tag:   "Accepted",
			Date:  time.Unix(sub.Get("timestamp").Int(), 0).UTC().Format("2006-01-02"),
		})
		return true
	})

	return &models.ProfileSnapshot{
		Platform: models.PlatformLeetCode,
		Name:     models.PlatformLeetCode.DisplayName(),
		Icon:     "🧠",
		Stats: map[string]any{
			"rating":   nullable(contest.Get("rating")),
			"solved":   solved,
			"rank":     nullable(contest.Get("globalRanking")),
			"contests": nullable(contest.Get("attendedContestsCount")),
		},
		Recent: recent,
	}, nil
}

// FetchPerformance returns the contest rating history, keeping only
// entries where the rating changed from the previous contest.
func (a *LeetCodeAdapter) FetchPerformance(ctx context.Context, handle string) ([]models.RatingPoint, error) {
	doc, err := a.query(ctx, leetcodePerformanceQuery, map[string]any{"username": handle})
	if err != nil {
		return nil, err
	}

	history := doc.Get("data.userContestRankingHistory")
	if !history.Exists() {
		return nil, models.NewMalformedError(models.PlatformLeetCode, "response is missing userContestRankingHistory")
	}
	if history.Type == gjson.Null {
		return nil, models.NewNotFoundError(models.PlatformLeetCode, "user not found")
	}

	var points []models.RatingPoint
	var prevRating float64
	history.ForEach(func(_, entry gjson.Result) bool {
		rating := entry.Get("rating").Float()
		if len(points) == 0 || rating != prevRating {
			points = append(points, models.RatingPoint{
				Contest: entry.Get("contest.title").String(),
				Date:    time.Unix(entry.Get("contest.startTime").Int(), 0).UTC().Format("2006-01-02"),
				Rating:  rating,
			})
		}
		prevRating = rating
		return true
	})
	return points, nil
}

func (a *LeetCodeAdapter) query(ctx context.Context, query string, variables map[string]any) (gjson.Result, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformLeetCode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformLeetCode, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformLeetCode, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return gjson.Result{}, models.NewTransportError(models.PlatformLeetCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, models.NewTransportError(models.PlatformLeetCode,
			fmt.Errorf("graphql endpoint returned status %d", resp.StatusCode))
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, models.NewMalformedError(models.PlatformLeetCode, "graphql endpoint returned invalid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.Get("data").Exists() {
		return gjson.Result{}, models.NewMalformedError(models.PlatformLeetCode, "response is missing the data envelope")
	}
	return doc, nil
}

// nullable keeps JSON null and absent fields as nil instead of zero
// values, matching what the source API reports for contest-less users.
func nullable(r gjson.Result) any {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return r.Value()
}
