package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 25
	testDuration = 10 * time.Second
)

var platforms = []string{"codeforces", "leetcode", "codechef", "github"}

var usernames = []string{"tourist", "octocat", "someone", "chefuser", "alice42", "bob1990"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== cptrack Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s per phase\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Seed one handle per platform so the dashboard has something to show
	fmt.Println("\n--- Seeding handles (POST /handles) ---")
	for i, p := range platforms {
		r := doSetHandle(p, usernames[i%len(usernames)])
		fmt.Printf("  %s -> %d\n", p, r.status)
	}

	// One refresh so dashboard reads hit a warm snapshot; the refresh
	// endpoint fans out to the real platforms, so it stays out of the
	// hot loop below.
	fmt.Println("\n--- Priming snapshot (POST /dashboard/refresh) ---")
	r := doRefresh()
	fmt.Printf("  refresh -> %d in %s\n", r.status, r.latency)

	// Phase 1: pure reads
	fmt.Println("\n--- Phase 1: Read-only load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch rng.Intn(3) {
		case 0:
			return doGetDashboard()
		case 1:
			return doGetHandles()
		default:
			return doGetHealth()
		}
	})

	// Phase 2: reads with concurrent handle writes
	fmt.Println("\n--- Phase 2: Mixed load (90% GET, 10% POST /handles) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doSetHandle(platforms[rng.Intn(len(platforms))], usernames[rng.Intn(len(usernames))])
		case r < 0.55:
			return doGetDashboard()
		case r < 0.85:
			return doGetHandles()
		default:
			return doGetHealth()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, avg, p50, p95, p99)
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doSetHandle(platform, username string) result {
	data, _ := json.Marshal(map[string]string{
		"platform": platform,
		"username": username,
	})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/handles", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /handles", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /handles", resp.StatusCode, lat, resp.StatusCode != 204}
}

func doRefresh() result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/dashboard/refresh", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /dashboard/refresh", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /dashboard/refresh", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetDashboard() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/dashboard")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /dashboard", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /dashboard", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetHandles() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/handles")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /handles", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /handles", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetHealth() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/health")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /health", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /health", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}
