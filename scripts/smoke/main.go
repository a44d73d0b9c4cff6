// Command smoke exercises every report endpoint of a running instance and
// verifies the envelope contract: success flag, count/data agreement, and
// the expected status for the known failure cases.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type check struct {
	Path       string
	WantStatus int
	WantList   bool
}

type result struct {
	Check    check
	Status   int
	Duration time.Duration
	Err      error
}

var checks = []check{
	{Path: "/health", WantStatus: http.StatusOK},
	{Path: "/", WantStatus: http.StatusOK},
	{Path: "/api/students/grade/10", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/students/1/enrollments", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/students/all-with-enrollments", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/students/in-courses?courseIds=1,2", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/students/in-courses", WantStatus: http.StatusBadRequest},
	{Path: "/api/courses/popular/5", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/analytics/students-per-grade", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/analytics/student-performance?minGPA=3.0", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/analytics/course-details/1", WantStatus: http.StatusOK},
	{Path: "/api/analytics/course-details/999999", WantStatus: http.StatusNotFound},
	{Path: "/api/analytics/top-performers", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/analytics/departments", WantStatus: http.StatusOK, WantList: true},
	{Path: "/api/analytics/departments/export?format=csv", WantStatus: http.StatusOK},
	{Path: "/api/analytics/departments/export?format=xlsx", WantStatus: http.StatusBadRequest},
}

func main() {
	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:3000", "API base URL")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	var failures int
	for _, c := range checks {
		res := run(client, base, c)
		printResult(res)
		if res.Err != nil {
			failures++
		}
	}

	fmt.Printf("\n%d/%d checks passed\n", len(checks)-failures, len(checks))
	if failures > 0 {
		os.Exit(1)
	}
}

func run(client *http.Client, base string, c check) result {
	res := result{Check: c}
	url := strings.TrimRight(base, "/") + c.Path

	start := time.Now()
	resp, err := client.Get(url)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if resp.StatusCode != c.WantStatus {
		res.Err = fmt.Errorf("status %d, want %d", resp.StatusCode, c.WantStatus)
		return res
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("read body: %w", err)
		return res
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		res.Err = verifyEnvelope(body, c)
	}
	return res
}

// verifyEnvelope checks the fixed response shape: success mirrors the HTTP
// status, errors carry a message, and list payloads agree with their count.
func verifyEnvelope(body []byte, c check) error {
	var envelope struct {
		Success *bool           `json:"success"`
		Count   *int            `json:"count"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if envelope.Success == nil {
		// The index and health endpoints use their own shapes.
		return nil
	}

	wantSuccess := c.WantStatus < http.StatusBadRequest
	if *envelope.Success != wantSuccess {
		return fmt.Errorf("success=%t on a %d response", *envelope.Success, c.WantStatus)
	}
	if !wantSuccess && envelope.Error == "" {
		return fmt.Errorf("failure envelope without error message")
	}

	if c.WantList {
		if envelope.Count == nil {
			return fmt.Errorf("list envelope missing count")
		}
		var rows []json.RawMessage
		if err := json.Unmarshal(envelope.Data, &rows); err != nil {
			return fmt.Errorf("list envelope data is not an array: %w", err)
		}
		if len(rows) != *envelope.Count {
			return fmt.Errorf("count=%d but data has %d rows", *envelope.Count, len(rows))
		}
	}
	return nil
}

func printResult(res result) {
	status := "OK"
	if res.Err != nil {
		status = "FAIL"
	}
	fmt.Printf("[%s] GET %s (%d, %s)\n", status, res.Check.Path, res.Status, res.Duration)
	if res.Err != nil {
		log.Printf("  %v", res.Err)
	}
}
