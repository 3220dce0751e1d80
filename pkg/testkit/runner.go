package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Runner fires scenarios at Handler.
type Runner struct {
	Handler http.Handler
	// Vars fills ${NAME} placeholders. Unknown names are left as written.
	Vars map[string]string
}

// Run executes the scenario file at path as a subtest.
func (r *Runner) Run(t *testing.T, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Run(s.Name, func(t *testing.T) { r.run(t, s) })
}

// RunDir executes every scenario in dir, in file name order, each as a
// subtest. Scenarios share the handler, so later files see earlier writes.
func (r *Runner) RunDir(t *testing.T, dir string) {
	t.Helper()

	scenarios, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) { r.run(t, s) })
	}
}

// Do fires s and returns the recorded response without asserting on it.
func (r *Runner) Do(t *testing.T, s *Scenario) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	raw, err := s.requestBody()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	if raw != nil {
		body = bytes.NewReader([]byte(r.expand(string(raw))))
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), r.expand(s.RequestURL), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, r.expand(v))
	}

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)
	return rec
}

func (r *Runner) run(t *testing.T, s *Scenario) {
	t.Helper()

	rec := r.Do(t, s)
	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	expected, err := s.expectedBody()
	if err != nil {
		t.Errorf("[%s] read expected body: %v", s.Name, err)
		return
	}
	if expected != nil {
		AssertJSONSubset(t, s, []byte(r.expand(string(expected))), rec.Body.Bytes())
	}
}

func (r *Runner) expand(s string) string {
	return os.Expand(s, func(name string) string {
		if v, ok := r.Vars[name]; ok {
			return v
		}
		return "${" + name + "}"
	})
}
