// Countcheck fires concurrent requests at a running responder's
// /error/count/{T}/ endpoint and verifies that exactly min(K, T) of them
// answered 500.
//
// Usage:
//
//	go run ./scripts/countcheck -url http://localhost:3000 -threshold 40 -requests 100 -concurrency 20
//	go run ./scripts/countcheck -url http://localhost:3000 -threshold 5 -requests 10 -out summary.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/responder/internal/healthcheck"
	"github.com/angeloszaimis/responder/pkg/logger"
)

type summary struct {
	URL         string        `json:"url"`
	Threshold   int64         `json:"threshold"`
	Requests    int           `json:"requests"`
	Concurrency int           `json:"concurrency"`
	Expected500 int64         `json:"expected_500"`
	Got500      int64         `json:"got_500"`
	Got200      int64         `json:"got_200"`
	Other       int64         `json:"other"`
	Errors      int64         `json:"errors"`
	Elapsed     time.Duration `json:"elapsed"`
	Passed      bool          `json:"passed"`
}

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:3000", "Responder base URL")
		threshold   = flag.Int64("threshold", 40, "Error threshold T")
		requests    = flag.Int("requests", 100, "Total number of requests K")
		concurrency = flag.Int("concurrency", 20, "Number of concurrent workers")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		waitSec     = flag.Int("wait", 10, "Seconds to wait for the responder to come up")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
		verbose     = flag.Bool("v", false, "Log every request")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(level, false, "dev", logger.WithOutput(os.Stderr))

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	waitCtx, cancel := context.WithTimeout(context.Background(), time.Duration(*waitSec)*time.Second)
	err := healthcheck.WaitReady(waitCtx, client, *baseURL, 200*time.Millisecond, log)
	cancel()
	if err != nil {
		log.Error("Responder never became ready", slog.Any("err", err))
		os.Exit(1)
	}

	if err := get(client, *baseURL+"/error/count/reset/", http.StatusOK); err != nil {
		log.Error("Failed to reset the error counter", slog.Any("err", err))
		os.Exit(1)
	}

	target := fmt.Sprintf("%s/error/count/%d/", *baseURL, *threshold)
	result := summary{
		URL:         target,
		Threshold:   *threshold,
		Requests:    *requests,
		Concurrency: *concurrency,
		Expected500: min(int64(*requests), *threshold),
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var got500, got200, other, failed atomic.Int64

	start := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				resp, err := client.Get(target)
				if err != nil {
					failed.Add(1)
					log.Debug("Request failed", slog.Int("worker", workerID), slog.Int("idx", idx), slog.Any("err", err))
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()

				switch resp.StatusCode {
				case http.StatusInternalServerError:
					got500.Add(1)
				case http.StatusOK:
					got200.Add(1)
				default:
					other.Add(1)
				}
				log.Debug("Request done", slog.Int("worker", workerID), slog.Int("idx", idx), slog.Int("status", resp.StatusCode))
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()

	result.Elapsed = time.Since(start)
	result.Got500 = got500.Load()
	result.Got200 = got200.Load()
	result.Other = other.Load()
	result.Errors = failed.Load()
	result.Passed = result.Got500 == result.Expected500 &&
		result.Got200 == int64(*requests)-result.Expected500

	log.Info("Count check finished",
		slog.Int64("expected_500", result.Expected500),
		slog.Int64("got_500", result.Got500),
		slog.Int64("got_200", result.Got200),
		slog.Int64("other", result.Other),
		slog.Int64("errors", result.Errors),
		slog.Duration("elapsed", result.Elapsed),
		slog.Bool("passed", result.Passed))

	if *outJSON != "" {
		b, err := json.MarshalIndent(result, "", "  ")
		if err == nil {
			err = os.WriteFile(*outJSON, b, 0o644)
		}
		if err != nil {
			log.Error("Failed to write summary", slog.Any("err", err))
		}
	}

	if !result.Passed {
		os.Exit(1)
	}
}

func get(client *http.Client, url string, want int) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != want {
		return fmt.Errorf("GET %s: got %d, want %d", url, resp.StatusCode, want)
	}
	return nil
}
