package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTree(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestUnderscore(t *testing.T) {
	tests := map[string]string{
		"FooBarHTTPTest":   "foo_bar_http_test",
		"UserTest":         "user_test",
		"ABc":              "a_bc",
		"Version2Test":     "version2_test",
		"already_snake":    "already_snake",
		"Some-Thing":       "some_thing",
		"Admin::UsersTest": "admin/users_test",
	}

	for in, want := range tests {
		if got := Underscore(in); got != want {
			t.Errorf("Underscore(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolve_Candidate(t *testing.T) {
	root := newTree(t, "test/foo_test.rb")
	r := New(root)

	got, err := r.Resolve("", "FooTest", "test_one", "test/foo_test.rb")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := Failure{Class: "FooTest", TestName: "test_one", Path: filepath.Join(root, "test/foo_test.rb")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_RerootsCIPaths(t *testing.T) {
	root := newTree(t, "test/models/user_test.rb", "spec/foo_spec.rb")
	r := New(root)

	tests := []struct {
		candidate string
		want      string
	}{
		{"/home/runner/work/app/app/test/models/user_test.rb", "test/models/user_test.rb"},
		{"/Users/runner/work/app/spec/foo_spec.rb", "spec/foo_spec.rb"},
		{"./spec/foo_spec.rb", "spec/foo_spec.rb"},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			got, err := r.Resolve("", "", "works", tt.candidate)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Path != filepath.Join(root, tt.want) {
				t.Errorf("Path = %q, want %q", got.Path, filepath.Join(root, tt.want))
			}
		})
	}
}

func TestResolve_FallbackChain(t *testing.T) {
	root := newTree(t, "test/models/user_test.rb", "test/integration/login_test.rb", "test/lib/reload_test.rb")
	r := New(root)

	tests := []struct {
		name   string
		class  string
		buffer string
		gem    string
		want   string
	}{
		{
			name:  "invocation echo preferred over stack trace",
			class: "UserTest",
			buffer: "UserTest#test_valid:\n" +
				"  /home/runner/work/app/app/test/integration/login_test.rb:3:in `block in <class:UserTest>'\n" +
				"rails test test/models/user_test.rb:12\n",
			want: "test/models/user_test.rb",
		},
		{
			name:  "file derived from class",
			class: "Integration::LoginTest",
			buffer: "Integration::LoginTest#test_login:\n" +
				"  /home/runner/work/app/app/test/integration/login_test.rb:8:in `test_login'\n",
			want: "test/integration/login_test.rb",
		},
		{
			name:  "stack trace",
			class: "TestReloading",
			buffer: "TestReloading#test_reload:\n" +
				"  /home/runner/work/z/z/lib/z/helpers.rb:118:in `const_get'\n" +
				"  /home/runner/work/z/z/test/lib/reload_test.rb:223:in `block (2 levels) in <class:TestReloading>'\n",
			gem:  "/opt/ruby/3.1.0/lib/ruby/3.1.0/gems/minitest-5.16.3/lib/minitest/test.rb",
			want: "test/lib/reload_test.rb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.buffer, tt.class, "test_x", tt.gem)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Path != filepath.Join(root, tt.want) {
				t.Errorf("Path = %q, want %q", got.Path, filepath.Join(root, tt.want))
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	root := newTree(t, "test/foo_test.rb")
	r := New(root)

	// Walks up from root far enough to reach the filesystem root.
	outside := filepath.Join(filepath.Dir(root), "outside_test.rb")
	if err := os.WriteFile(outside, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	escape := strings.Repeat("../", strings.Count(root, string(filepath.Separator))+2) + strings.TrimPrefix(filepath.ToSlash(outside), "/")

	tests := []struct {
		name      string
		class     string
		testName  string
		buffer    string
		candidate string
	}{
		{name: "empty test name", class: "FooTest", candidate: "test/foo_test.rb"},
		{name: "no location", class: "FooTest", testName: "test_one", buffer: "FooTest#test_one:\nboom\n"},
		{name: "path not in tree", class: "BarTest", testName: "test_one", candidate: "/ci/test/bar_test.rb"},
		{name: "no class and no candidate", testName: "works"},
		{
			name:      "relative path escaping the tree",
			class:     "FooTest",
			testName:  "test_one",
			buffer:    "FooTest#test_one [" + escape + "]:\n",
			candidate: escape,
		},
		{name: "escape through a marker directory", class: "FooTest", testName: "test_one", candidate: "test/" + escape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure, err := r.Resolve(tt.buffer, tt.class, tt.testName, tt.candidate)
			if err == nil && !strings.HasPrefix(failure.Path, root) {
				t.Fatalf("Resolve() = %s, outside %s", failure.Path, root)
			}

			var resErr *ResolutionError
			if !errors.As(err, &resErr) {
				t.Fatalf("Resolve() error = %v, want *ResolutionError", err)
			}
		})
	}
}
