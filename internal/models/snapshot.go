package models

// RecentItem is one entry of a profile's recent activity, already
// normalized: label is the problem/repo name, tag the verdict or event
// type, date whatever ISO-ish string the adapter produced.
type RecentItem struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
	Date  string `json:"date"`
}

// ProfileSnapshot is the normalized view of one platform's public stats
// at fetch time. Stats keys differ per platform: contest platforms use
// rating/solved/rank/contests, GitHub uses repositories/stars/followers/
// contributions. Values are whatever the source reported, coerced to
// JSON-friendly types but never recomputed.
type ProfileSnapshot struct {
	Platform Platform       `json:"platform"`
	Name     string         `json:"name"`
	Icon     string         `json:"icon"`
	Stats    map[string]any `json:"stats"`
	Recent   []RecentItem   `json:"recent"`
}

// AggregateResult is the merged output of one aggregator run. Profiles
// holds platforms that were configured and fetched successfully,
// Failures the ones that were configured but failed. Err is set only
// when no platform was configured at all.
type AggregateResult struct {
	Profiles map[Platform]*ProfileSnapshot `json:"profiles"`
	Failures map[Platform]string           `json:"failures,omitempty"`
	Err      string                        `json:"error,omitempty"`
}

// CachedSnapshot pairs an aggregate result with its fetch time in epoch
// milliseconds. Each refresh replaces the previous value in full.
type CachedSnapshot struct {
	Result    *AggregateResult `json:"result"`
	FetchedAt int64            `json:"fetchedAt"`
}

// RatingPoint is one entry of a contest rating history.
type RatingPoint struct {
	Contest string  `json:"contestName"`
	Date    string  `json:"date"`
	Rating  float64 `json:"rating"`
}
