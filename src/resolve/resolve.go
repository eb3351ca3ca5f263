// Package resolve maps a failure reported in a CI log to a test file of the
// local working tree.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Failure is a test that failed on CI, located in the local working tree.
type Failure struct {
	// Class is empty for frameworks that don't report one (RSpec).
	Class    string `json:"class,omitempty"`
	TestName string `json:"test_name"`
	// Path is absolute.
	Path string `json:"path"`
}

// ResolutionError is returned when a failure can't be tied to a local file.
type ResolutionError struct {
	Class    string
	TestName string
	Reason   string
}

func (e *ResolutionError) Error() string {
	name := e.TestName
	if e.Class != "" {
		name = e.Class + "#" + e.TestName
	}
	return fmt.Sprintf("Can't find test location of %s: %s", name, e.Reason)
}

const reasonNoLocation = "cannot determine test location"

var (
	// Paths inside installed gems are never the test file.
	installedPackage = regexp.MustCompile(`ruby/.*?/gems|vendor/bundle/|/gems/[^/]+-\d[^/]*/`)

	// bin/rails test test/models/user_test.rb:12
	invocationEcho = regexp.MustCompile(`rails\s+test\s+(\S+?):\d+`)
)

// rootMarkers are the directories test files live under.
var rootMarkers = map[string]bool{"test": true, "spec": true}

// Resolver resolves failures against the working tree at Root.
type Resolver struct {
	Root string
}

// New returns a resolver for root.
func New(root string) *Resolver {
	return &Resolver{Root: root}
}

// Resolve locates a failure. candidate is the path the failure pattern
// captured, possibly empty; buffer is the log block the failure was found in
// and is searched when the candidate can't be used.
func (r *Resolver) Resolve(buffer, class, testName, candidate string) (Failure, error) {
	if testName == "" {
		return Failure{}, &ResolutionError{Class: class, Reason: "the test name is empty"}
	}

	path := candidate
	if !usable(candidate) {
		path = findLocation(buffer, class)
		if path == "" {
			return Failure{}, &ResolutionError{Class: class, TestName: testName, Reason: reasonNoLocation}
		}
	}

	abs, err := r.normalize(path)
	if err != nil {
		return Failure{}, &ResolutionError{Class: class, TestName: testName, Reason: err.Error()}
	}

	return Failure{Class: class, TestName: testName, Path: abs}, nil
}

func usable(candidate string) bool {
	return candidate != "" && !installedPackage.MatchString(candidate)
}

// findLocation tries, in order: the command echoed by rails when a test
// fails, a file named after the class, and the stack trace.
func findLocation(buffer, class string) string {
	if m := invocationEcho.FindStringSubmatch(buffer); m != nil {
		return m[1]
	}

	if class == "" {
		return ""
	}

	segments := strings.Split(class, "::")
	fileName := Underscore(segments[len(segments)-1])
	derived := regexp.MustCompile(`(/.*` + regexp.QuoteMeta(fileName) + `.*?):\d+`)
	if m := derived.FindStringSubmatch(buffer); m != nil {
		return m[1]
	}

	stack := regexp.MustCompile(`\s*(/.*?):\d+:in.*` + regexp.QuoteMeta(class))
	if m := stack.FindStringSubmatch(buffer); m != nil {
		return m[1]
	}

	return ""
}

// normalize turns a path found in the log into an existing file under Root.
// CI checks the project out somewhere else, so absolute paths are re-rooted
// at each test or spec directory in turn.
func (r *Resolver) normalize(path string) (string, error) {
	root := r.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}

	if !filepath.IsAbs(path) {
		joined := filepath.Join(root, path)
		if within(root, joined) && exists(joined) {
			return joined, nil
		}
	} else if within(root, path) && exists(path) {
		return filepath.Clean(path), nil
	}

	segments := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	for i, segment := range segments {
		if !rootMarkers[segment] || i == len(segments)-1 {
			continue
		}
		candidate := filepath.Join(append([]string{root}, segments[i:]...)...)
		if within(root, candidate) && exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s doesn't exist in %s", path, root)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Underscore converts a class name to the snake case file name convention:
// FooBarHTTPTest becomes foo_bar_http_test.
func Underscore(word string) string {
	if !strings.ContainsAny(word, "ABCDEFGHIJKLMNOPQRSTUVWXYZ-") && !strings.Contains(word, "::") {
		return word
	}

	runes := []rune(strings.ReplaceAll(word, "::", "/"))

	var sb strings.Builder
	for i, c := range runes {
		if i > 0 && isUpper(c) {
			prev := runes[i-1]
			switch {
			case isLower(prev) || unicode.IsDigit(prev):
				sb.WriteByte('_')
			case isUpper(prev) && i+1 < len(runes) && isLower(runes[i+1]):
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(c)
	}

	return strings.ToLower(strings.ReplaceAll(sb.String(), "-", "_"))
}

func isUpper(c rune) bool { return c >= 'A' && c <= 'Z' }
func isLower(c rune) bool { return c >= 'a' && c <= 'z' }
