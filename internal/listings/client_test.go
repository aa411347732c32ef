package listings

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthenticateHashesPasswordAndStoresToken(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "token": "tok-123"})
	}))
	defer server.Close()

	client := New(server.URL)
	token, err := client.Authenticate(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q, want tok-123", token)
	}

	digest := sha1.Sum([]byte("hunter2"))
	if gotBody["password"] != hex.EncodeToString(digest[:]) {
		t.Fatalf("password = %q, want sha1 hex digest", gotBody["password"])
	}
	if gotBody["username"] != "alice" {
		t.Fatalf("username = %q, want alice", gotBody["username"])
	}
	if client.token != "tok-123" {
		t.Fatalf("client token = %q, want tok-123", client.token)
	}
}

func TestAuthenticateRejectionReturnsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"code": 4003, "message": "invalid credentials"})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Authenticate(context.Background(), "alice", "wrong")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
	if authErr.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", authErr.StatusCode)
	}
}

func TestAuthenticateEmptyTokenFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "token": ""})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Authenticate(context.Background(), "alice", "hunter2")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
}

func TestStatusRequiresLineups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "lineups": []any{}})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Status(context.Background())
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
}

func TestStatusSendsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			json.NewEncoder(w).Encode(map[string]any{"code": 0, "token": "tok-456"})
		case "/status":
			if r.Header.Get("token") != "tok-456" {
				t.Errorf("token header = %q, want tok-456", r.Header.Get("token"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"code":    0,
				"lineups": []map[string]string{{"lineup": "USA-OTA-90210", "name": "Antenna"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.Authenticate(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	lineups, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(lineups) != 1 || lineups[0].Lineup != "USA-OTA-90210" {
		t.Fatalf("lineups = %+v, want one USA-OTA-90210", lineups)
	}
}

func TestLineupChannelsEmptyMapFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lineups/USA-OTA-90210" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"map": []any{}})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.LineupChannels(context.Background(), "USA-OTA-90210")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
}

func TestSchedulesRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req []scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode schedules request: %v", err)
		}
		if len(req) != 2 {
			t.Errorf("len(request) = %d, want 2", len(req))
		}
		if req[0].StationID != "1001" || len(req[0].Date) != 2 || req[0].Date[0] != "2026-08-29" {
			t.Errorf("unexpected first entry: %+v", req[0])
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"stationID": "1001", "programs": []map[string]any{
				{"programID": "EP1", "airDateTime": "2026-08-29T01:00:00Z", "duration": 1800},
			}},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	schedules, err := client.Schedules(context.Background(), []string{"1001", "1002"}, []string{"2026-08-29", "2026-08-30"})
	if err != nil {
		t.Fatalf("Schedules: %v", err)
	}
	if len(schedules) != 1 || schedules[0].StationID != "1001" {
		t.Fatalf("schedules = %+v", schedules)
	}
	if len(schedules[0].Airings) != 1 || schedules[0].Airings[0].Duration != 1800 {
		t.Fatalf("airings = %+v", schedules[0].Airings)
	}
}

func TestProgramsChunksAtBatchLimit(t *testing.T) {
	ids := make([]string, 2*maxProgramBatch+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("EP%06d", i)
	}

	var batches [][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []string
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Errorf("decode programs request: %v", err)
		}
		batches = append(batches, batch)
		programs := make([]map[string]any, 0, len(batch))
		for _, id := range batch {
			programs = append(programs, map[string]any{"programID": id})
		}
		json.NewEncoder(w).Encode(programs)
	}))
	defer server.Close()

	client := New(server.URL)
	programs, err := client.Programs(context.Background(), ids)
	if err != nil {
		t.Fatalf("Programs: %v", err)
	}

	if len(batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(batches))
	}
	if len(batches[0]) != maxProgramBatch || len(batches[1]) != maxProgramBatch || len(batches[2]) != 1 {
		t.Fatalf("batch sizes = %d/%d/%d", len(batches[0]), len(batches[1]), len(batches[2]))
	}
	if len(programs) != len(ids) {
		t.Fatalf("len(programs) = %d, want %d", len(programs), len(ids))
	}
	for i, p := range programs {
		if p.ProgramID != ids[i] {
			t.Fatalf("programs[%d] = %s, want %s (order not preserved)", i, p.ProgramID, ids[i])
		}
	}
}

func TestProgramsEmptyInputSkipsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request for empty input")
	}))
	defer server.Close()

	client := New(server.URL)
	programs, err := client.Programs(context.Background(), nil)
	if err != nil {
		t.Fatalf("Programs: %v", err)
	}
	if len(programs) != 0 {
		t.Fatalf("len(programs) = %d, want 0", len(programs))
	}
}

func TestProgramsBatchFailureAborts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"server error"}`)
			return
		}
		var batch []string
		json.NewDecoder(r.Body).Decode(&batch)
		programs := make([]map[string]any, 0, len(batch))
		for _, id := range batch {
			programs = append(programs, map[string]any{"programID": id})
		}
		json.NewEncoder(w).Encode(programs)
	}))
	defer server.Close()

	ids := make([]string, maxProgramBatch+10)
	for i := range ids {
		ids[i] = fmt.Sprintf("EP%06d", i)
	}

	client := New(server.URL)
	_, err := client.Programs(context.Background(), ids)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if provErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", provErr.StatusCode)
	}
}
