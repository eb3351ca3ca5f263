package buildkite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newPublicTestClient(t *testing.T, handler http.HandlerFunc) (*PublicClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewPublicClient()
	client.SetBaseURL(server.URL)
	return client, server
}

func TestPublicClient_PublicBuild(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantPublic bool
		wantErr    bool
	}{
		{name: "public", status: http.StatusOK, wantPublic: true},
		{name: "private", status: http.StatusForbidden, wantPublic: false},
		{name: "other error", status: http.StatusUnauthorized, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newPublicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/foo/bar/builds/1" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "" {
					t.Error("public requests must not be authenticated")
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"jobs": []}`))
			})

			public, err := client.PublicBuild(context.Background(), "foo", "bar", 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PublicBuild() error = %v, wantErr %v", err, tt.wantErr)
			}
			if public != tt.wantPublic {
				t.Errorf("PublicBuild() = %v, want %v", public, tt.wantPublic)
			}
		})
	}
}

func TestPublicClient_JobLogPaths_MemoizesBuild(t *testing.T) {
	requests := 0
	client, _ := newPublicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs": [{"base_path": "/foo/bar/123"}, {"base_path": "/foo/bar/456"}]}`))
	})

	ctx := context.Background()
	if _, err := client.PublicBuild(ctx, "foo", "bar", 1); err != nil {
		t.Fatalf("PublicBuild() error = %v", err)
	}

	paths, err := client.JobLogPaths(ctx, "foo", "bar", 1)
	if err != nil {
		t.Fatalf("JobLogPaths() error = %v", err)
	}

	want := []string{"/foo/bar/123/raw_log", "/foo/bar/456/raw_log"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("JobLogPaths() mismatch (-want +got):\n%s", diff)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestPublicClient_DownloadLog(t *testing.T) {
	var logRequested bool
	var server *httptest.Server
	client, server := newPublicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/foo/bar/123/raw_log":
			w.Header().Set("Location", server.URL+"/storage/log")
			w.WriteHeader(http.StatusFound)
		case "/storage/log":
			logRequested = true
			w.Write([]byte("abc"))
		}
	})

	content, err := client.DownloadLog(context.Background(), "/foo/bar/123/raw_log")
	if err != nil {
		t.Fatalf("DownloadLog() error = %v", err)
	}
	if string(content) != "abc" {
		t.Errorf("DownloadLog() = %q, want abc", content)
	}
	if !logRequested {
		t.Error("redirect location was not downloaded")
	}
}
