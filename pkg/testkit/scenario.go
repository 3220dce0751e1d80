// Package testkit drives HTTP API tests from JSON scenario files.
//
// Each scenario describes one request and what the response must contain:
//
//	{
//	  "name": "staff fulfils a request",
//	  "requestMethod": "POST",
//	  "requestUrl": "/api/staff/requests/${REQUEST_ID}/fulfill",
//	  "headers": {"Authorization": "Bearer ${STAFF_TOKEN}"},
//	  "expectedCode": 200,
//	  "expectedBody": {"data": {"status": "fulfilled"}}
//	}
//
// Bodies may be inline (requestBody, expectedBody) or in files next to the
// scenario (requestFileName, responseFileName). ${NAME} placeholders in the
// URL, headers and request body are filled from Runner.Vars. The expected
// body is a subset match: keys it omits are not checked.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scenario is one API test case.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"`
	RequestBody     json.RawMessage   `json:"requestBody"`
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int             `json:"expectedCode"`
	ResponseFileName string          `json:"responseFileName"`
	ExpectedBody     json.RawMessage `json:"expectedBody"`

	dir string
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

// LoadDir loads every *.json file directly in dir, in file name order.
// Request and response body files belong in a subdirectory so they are not
// mistaken for scenarios.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files found in %q", dir)
	}
	sort.Strings(paths)

	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	if len(s.RequestBody) > 0 && s.RequestFileName != "" {
		return fmt.Errorf("requestBody and requestFileName are exclusive")
	}
	if len(s.ExpectedBody) > 0 && s.ResponseFileName != "" {
		return fmt.Errorf("expectedBody and responseFileName are exclusive")
	}
	return nil
}

// requestBody returns the raw request body, or nil when there is none.
func (s *Scenario) requestBody() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	if s.RequestFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.RequestFileName))
}

// expectedBody returns the expected response subset, or nil when unchecked.
func (s *Scenario) expectedBody() ([]byte, error) {
	if len(s.ExpectedBody) > 0 {
		return s.ExpectedBody, nil
	}
	if s.ResponseFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.ResponseFileName))
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
