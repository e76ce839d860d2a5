// Command timetable_parity compares timetable responses between the legacy
// backend and this API during the migration window. Both servers must hold a
// generated timetable for every semester under comparison.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type target struct {
	name string
	path string
}

type comparison struct {
	target       target
	goStatus     int
	legacyStatus int
	statusMatch  bool
	bodyMatch    bool
	err          error
}

func main() {
	var (
		goBase     string
		legacyBase string
		semesters  string
		sections   string
		token      string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "legacy API base URL")
	flag.StringVar(&semesters, "semesters", "", "comma-separated semester ids to compare")
	flag.StringVar(&sections, "sections", "", "comma-separated section labels to compare per semester")
	flag.StringVar(&token, "token", "", "bearer token forwarded to both servers")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := buildTargets(splitList(semesters), splitList(sections))
	if len(targets) == 0 {
		log.Fatal("no targets: pass at least one semester id via -semesters")
	}

	client := &http.Client{Timeout: timeout}
	diffs := 0
	for _, tgt := range targets {
		comp := compare(client, goBase, legacyBase, token, tgt)
		report(comp)
		if comp.err != nil || !comp.statusMatch || !comp.bodyMatch {
			diffs++
		}
	}

	fmt.Printf("Targets: %d, diffs: %d\n", len(targets), diffs)
	if diffs > 0 {
		os.Exit(1)
	}
}

func buildTargets(semesters, sections []string) []target {
	var targets []target
	for _, sem := range semesters {
		targets = append(targets, target{
			name: "combined " + sem,
			path: "/timetables/" + sem,
		})
		for _, section := range sections {
			targets = append(targets, target{
				name: fmt.Sprintf("section %s/%s", sem, section),
				path: fmt.Sprintf("/timetables/%s/sections/%s", sem, section),
			})
		}
	}
	return targets
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func compare(client *http.Client, goBase, legacyBase, token string, tgt target) comparison {
	comp := comparison{target: tgt}

	goStatus, goBody, err := fetch(client, goBase, tgt.path, token)
	if err != nil {
		comp.err = fmt.Errorf("go request failed: %w", err)
		return comp
	}
	legacyStatus, legacyBody, err := fetch(client, legacyBase, tgt.path, token)
	if err != nil {
		comp.err = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}

	comp.goStatus = goStatus
	comp.legacyStatus = legacyStatus
	comp.statusMatch = goStatus == legacyStatus
	comp.bodyMatch = bodiesEqual(goBody, legacyBody)
	return comp
}

func fetch(client *http.Client, base, path, token string) (int, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// bodiesEqual compares byte-for-byte first, then falls back to normalized
// JSON comparison. The legacy server emits integers as floats and orders
// object keys differently, so a structural compare is required.
func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(comp comparison) {
	status := "OK"
	if comp.err != nil {
		status = "ERROR"
	} else if !comp.statusMatch || !comp.bodyMatch {
		status = "DIFF"
	}
	fmt.Printf("[%s] %s\n", status, comp.target.name)
	if comp.err != nil {
		fmt.Printf("  error: %v\n", comp.err)
		return
	}
	fmt.Printf("  go=%d legacy=%d status match=%t body match=%t\n", comp.goStatus, comp.legacyStatus, comp.statusMatch, comp.bodyMatch)
}
