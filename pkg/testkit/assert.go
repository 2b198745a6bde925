package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] status code", s.Name)
}

// AssertJSONBody compares the response with the expected fixture as JSON,
// so key order and whitespace are ignored. An empty fixture matches anything.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}
	if !json.Valid(expected) {
		t.Fatalf("[%s] response fixture is not valid JSON", s.Name)
	}
	assert.JSONEq(t, string(expected), string(actual), "[%s] response body", s.Name)
}

// AssertMocksAllCalled fails for every isMock step the handler never hit.
func AssertMocksAllCalled(t *testing.T, s *Scenario, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err, "[%s]", s.Name)
	}
}
