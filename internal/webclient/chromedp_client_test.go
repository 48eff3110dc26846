package webclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/visitor-counter/internal/testutil"
	"github.com/raysh454/visitor-counter/internal/webclient"
)

func newChromedpClient(t *testing.T) *webclient.ChromedpClient {
	t.Helper()
	client, err := webclient.NewChromedpClient(webclient.Config{Client: webclient.ClientChromedp, Headless: true}, &testutil.DummyLogger{})
	if err != nil {
		t.Skipf("Skipping chromedp test (environment does not support chromedp): %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// TestChromedpClient_DoRejectsNonGET verifies that Do() returns error for non-GET methods
func TestChromedpClient_DoRejectsNonGET(t *testing.T) {
	t.Parallel()
	client := newChromedpClient(t)

	_, err := client.Do(context.Background(), &webclient.Request{
		Method: "POST",
		URL:    "http://example.com",
	})
	if err == nil {
		t.Fatal("Expected error for POST request, got nil")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("Expected error about method not supported, got: %v", err)
	}
}

func TestChromedpClient_GetReadsJSONBodyAndStatus(t *testing.T) {
	t.Parallel()
	client := newChromedpClient(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"count":42}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, ts.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(resp.Body)) != `{"count":42}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
}
