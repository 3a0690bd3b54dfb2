package review

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storytrace/internal/domain"
)

func sampleDigest() domain.EscalationDigest {
	return domain.EscalationDigest{
		RunID: "run-1",
		Items: []domain.EscalationItem{{
			ProblemID:        "P2",
			BestConfidence:   "Low",
			EscalateReasons:  []string{"no_full_coverage", "residual_gaps"},
			UnresolvedFacets: []string{"causal_root"},
		}},
	}
}

func TestPublishDigestPostsJSON(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "secret")
	require.NoError(t, notifier.PublishDigest(context.Background(), sampleDigest()))

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)

	var decoded domain.EscalationDigest
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, sampleDigest(), decoded)
}

func TestPublishDigestOmitsAuthWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "")
	require.NoError(t, notifier.PublishDigest(context.Background(), sampleDigest()))
	assert.Empty(t, gotAuth)
}

func TestPublishDigestNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "")
	err := notifier.PublishDigest(context.Background(), sampleDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "queue full")
}

func TestPublishDigestMisconfigured(t *testing.T) {
	t.Parallel()

	notifier := NewWebhookNotifier("", "")
	assert.Error(t, notifier.PublishDigest(context.Background(), sampleDigest()))
}
