package genai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"railcrm/backend/internal/genai"
	"railcrm/backend/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a Client pointed at a stub chat-completions server
// that always answers with the given model output.
func newTestClient(t *testing.T, modelOutput string) (*genai.Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		// The prompt must carry the full department list and the complaint.
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		messages := req["messages"].([]any)
		prompt := messages[0].(map[string]any)["content"].(string)
		assert.Contains(t, prompt, "TRAIN_DELAY")
		assert.Contains(t, prompt, "Department: <DEPT>")

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": modelOutput}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	client := &genai.Client{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gemini-2.5-flash",
		HTTP:    srv.Client(),
	}
	return client, srv
}

// TestClassify_Success verifies the happy path: a well-formed two-line
// answer yields the parsed department and rephrased text.
func TestClassify_Success(t *testing.T) {
	// Arrange
	client, _ := newTestClient(t, "Department: TRAIN_DELAY\nRephrased: The train departure was delayed.")

	// Act
	result, err := client.Classify(context.Background(), "the train was late")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, taxonomy.TrainDelay, result.Department)
	assert.Equal(t, "The train departure was delayed.", result.Rephrased)
}

// TestClassify_CaseInsensitiveParsing verifies that both prefixes are
// matched regardless of casing.
func TestClassify_CaseInsensitiveParsing(t *testing.T) {
	client, _ := newTestClient(t, "department: catering\nrephrased: The onboard meal quality was unsatisfactory.")

	result, err := client.Classify(context.Background(), "bad food")

	require.NoError(t, err)
	assert.Equal(t, taxonomy.Catering, result.Department)
	assert.Equal(t, "The onboard meal quality was unsatisfactory.", result.Rephrased)
}

// TestClassify_UnknownDepartmentFallsBackToOther verifies taxonomy
// validation is applied after parsing.
func TestClassify_UnknownDepartmentFallsBackToOther(t *testing.T) {
	client, _ := newTestClient(t, "Department: PAYMENT\nRephrased: A payment issue was reported.")

	result, err := client.Classify(context.Background(), "refund not received")

	require.NoError(t, err)
	assert.Equal(t, taxonomy.Other, result.Department)
	assert.Equal(t, "A payment issue was reported.", result.Rephrased)
}

// TestClassify_MissingRephraseFallsBackToOriginal covers the degraded
// parse cases: no Rephrased line, or a blank one.
func TestClassify_MissingRephraseFallsBackToOriginal(t *testing.T) {
	tests := []struct {
		name        string
		modelOutput string
		wantDept    taxonomy.Department
	}{
		{"No rephrased line", "Department: SECURITY", taxonomy.Security},
		{"Blank rephrase", "Department: SECURITY\nRephrased:   ", taxonomy.Security},
		{"Unparseable blob", "I cannot help with that.", taxonomy.Other},
		{"Empty output", "", taxonomy.Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.modelOutput)

			result, err := client.Classify(context.Background(), "someone stole my bag")

			require.NoError(t, err)
			assert.Equal(t, tt.wantDept, result.Department)
			assert.Equal(t, "someone stole my bag", result.Rephrased, "original text must be preserved")
		})
	}
}

// TestClassify_IndentedRephrasedLine verifies the line scan tolerates
// leading whitespace the model sometimes adds.
func TestClassify_IndentedRephrasedLine(t *testing.T) {
	client, _ := newTestClient(t, "Department: CLEANLINESS\n   Rephrased: The coach was not cleaned before departure.")

	result, err := client.Classify(context.Background(), "dirty coach")

	require.NoError(t, err)
	assert.Equal(t, taxonomy.Cleanliness, result.Department)
	assert.Equal(t, "The coach was not cleaned before departure.", result.Rephrased)
}

// TestClassify_ServerError verifies that HTTP failures surface as errors so
// the pipeline can take its fallback path.
func TestClassify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := &genai.Client{BaseURL: srv.URL, APIKey: "k", Model: "m", HTTP: srv.Client()}

	_, err := client.Classify(context.Background(), "anything")
	assert.Error(t, err)
}

// TestClassify_MalformedBody verifies a non-JSON body is an error, not a
// silent OTHER classification.
func TestClassify_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	client := &genai.Client{BaseURL: srv.URL, APIKey: "k", Model: "m", HTTP: srv.Client()}

	_, err := client.Classify(context.Background(), "anything")
	assert.Error(t, err)
}

// TestClassify_ContextTimeout verifies the bounded wait: an expired context
// aborts the call with an error.
func TestClassify_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := &genai.Client{BaseURL: srv.URL, APIKey: "k", Model: "m", HTTP: srv.Client()}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Classify(ctx, "anything")
	assert.Error(t, err)
}
