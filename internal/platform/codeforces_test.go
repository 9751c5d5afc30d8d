package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cptrack/internal/models"
	"cptrack/internal/structures"
	"cptrack/internal/testutil"
)

func newCodeforcesAdapter(t *testing.T, handler http.Handler) *CodeforcesAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &structures.Config{}
	conf.Platforms.CodeforcesBaseURL = srv.URL
	return NewCodeforcesAdapter(conf, srv.Client(), &testutil.MockLogger{})
}

func codeforcesFixture() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[{"handle":"Tourist","rating":3800,"rank":"legendary grandmaster"}]}`))
	})
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[
			{"verdict":"OK","creationTimeSeconds":1600000200,"problem":{"contestId":1,"index":"A","name":"Theatre Square"}},
			{"verdict":"WRONG_ANSWER","creationTimeSeconds":1600000100,"problem":{"contestId":1,"index":"A","name":"Theatre Square"}},
			{"verdict":"OK","creationTimeSeconds":1600000000,"problem":{"contestId":1,"index":"A","name":"Theatre Square"}},
			{"verdict":"OK","creationTimeSeconds":1599999000,"problem":{"contestId":2,"index":"B","name":"Two Buttons"}}
		]}`))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[
			{"contestName":"Round 1","newRating":1500,"ratingUpdateTimeSeconds":1500000000},
			{"contestName":"Round 2","newRating":1500,"ratingUpdateTimeSeconds":1510000000},
			{"contestName":"Round 3","newRating":1612,"ratingUpdateTimeSeconds":1520000000}
		]}`))
	})
	return mux
}

func TestCodeforces_FetchProfile(t *testing.T) {
	a := newCodeforcesAdapter(t, codeforcesFixture())

	snap, err := a.FetchProfile(context.Background(), "tourist")
	require.NoError(t, err)

	assert.Equal(t, models.PlatformCodeforces, snap.Platform)
	assert.Equal(t, "Codeforces", snap.Name)
	assert.Equal(t, "🏆", snap.Icon)
	assert.Equal(t, float64(3800), snap.Stats["rating"])
	assert.Equal(t, "legendary grandmaster", snap.Stats["rank"])
	// 1-A accepted twice counts once
	assert.Equal(t, 2, snap.Stats["solved"])
	assert.Equal(t, 3, snap.Stats["contests"])
}

func TestCodeforces_FetchProfileRecent(t *testing.T) {
	a := newCodeforcesAdapter(t, codeforcesFixture())

	snap, err := a.FetchProfile(context.Background(), "tourist")
	require.NoError(t, err)

	require.Len(t, snap.Recent, 4)
	assert.Equal(t, "1-A: Theatre Square", snap.Recent[0].Label)
	assert.Equal(t, "OK", snap.Recent[0].Tag)
	assert.Equal(t, "2020-09-13T12:30:00Z", snap.Recent[0].Date)
	assert.Equal(t, "WRONG_ANSWER", snap.Recent[1].Tag)
}

func TestCodeforces_FetchProfileRecentCapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[{"handle":"busy","rating":1200,"rank":"pupil"}]}`))
	})
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		body := `{"status":"OK","result":[`
		for i := 0; i < 25; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"verdict":"OK","creationTimeSeconds":1600000000,"problem":{"contestId":5,"index":"A","name":"Same"}}`
		}
		body += `]}`
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[]}`))
	})
	a := newCodeforcesAdapter(t, mux)

	snap, err := a.FetchProfile(context.Background(), "busy")
	require.NoError(t, err)
	assert.Len(t, snap.Recent, 10)
	assert.Equal(t, 1, snap.Stats["solved"])
}

func TestCodeforces_FetchProfileMissingVerdict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[{"handle":"x","rating":1000,"rank":"newbie"}]}`))
	})
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[{"creationTimeSeconds":1600000000,"problem":{"contestId":3,"index":"C","name":"Pending"}}]}`))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[]}`))
	})
	a := newCodeforcesAdapter(t, mux)

	snap, err := a.FetchProfile(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, snap.Recent, 1)
	assert.Equal(t, "Unknown", snap.Recent[0].Tag)
	assert.Equal(t, 0, snap.Stats["solved"])
}

func TestCodeforces_FetchProfileNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle nosuch not found"}`))
	})
	a := newCodeforcesAdapter(t, mux)

	_, err := a.FetchProfile(context.Background(), "nosuch")
	assert.Equal(t, models.FetchNotFound, models.FetchKind(err))
}

func TestCodeforces_FetchProfileServerError(t *testing.T) {
	a := newCodeforcesAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))

	_, err := a.FetchProfile(context.Background(), "tourist")
	assert.Equal(t, models.FetchTransport, models.FetchKind(err))
}

func TestCodeforces_FetchProfileInvalidJSON(t *testing.T) {
	a := newCodeforcesAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))

	_, err := a.FetchProfile(context.Background(), "tourist")
	assert.Equal(t, models.FetchMalformedResponse, models.FetchKind(err))
}

func TestCodeforces_FetchProfileMissingEnvelope(t *testing.T) {
	a := newCodeforcesAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))

	_, err := a.FetchProfile(context.Background(), "tourist")
	assert.Equal(t, models.FetchMalformedResponse, models.FetchKind(err))
}

func TestCodeforces_FetchPerformance(t *testing.T) {
	a := newCodeforcesAdapter(t, codeforcesFixture())

	points, err := a.FetchPerformance(context.Background(), "tourist")
	require.NoError(t, err)

	// Round 2 repeats Round 1's rating and is dropped
	require.Len(t, points, 2)
	assert.Equal(t, "Round 1", points[0].Contest)
	assert.Equal(t, float64(1500), points[0].Rating)
	assert.Equal(t, "2017-07-14", points[0].Date)
	assert.Equal(t, "Round 3", points[1].Contest)
	assert.Equal(t, float64(1612), points[1].Rating)
}

func TestCodeforces_FetchPerformanceNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"FAILED","comment":"handle: User with handle ghost not found"}`))
	})
	a := newCodeforcesAdapter(t, mux)

	_, err := a.FetchPerformance(context.Background(), "ghost")
	assert.Equal(t, models.FetchNotFound, models.FetchKind(err))
}

func TestCodeforces_FetchPerformanceEmptyHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[]}`))
	})
	a := newCodeforcesAdapter(t, mux)

	points, err := a.FetchPerformance(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Empty(t, points)
}
