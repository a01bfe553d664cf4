package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"sage/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// TutorOllamaClient implements ai.TutorAIClient using a locally-hosted
// Ollama server as the backend.
type TutorOllamaClient struct {
	chatModel     string
	analysisModel string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client

	Client *api.Client
}

// NewTutorOllamaClientParams contains configuration options for creating a
// new TutorOllamaClient.
type NewTutorOllamaClientParams struct {
	ChatModel     string
	AnalysisModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewTutorOllamaClient creates a new Ollama-based AI client. It connects
// to the Ollama server at BaseURL (or the default if empty) and uses the
// configured models for chat and structured analysis.
func NewTutorOllamaClient(
	params NewTutorOllamaClientParams,
) (*TutorOllamaClient, error) {
	rawURL := params.BaseURL
	if rawURL == "" {
		rawURL = "http://127.0.0.1:11434"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	cli := api.NewClient(u, httpClient)

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &TutorOllamaClient{
		chatModel:     params.ChatModel,
		analysisModel: params.AnalysisModel,

		reqLock: semaphore.NewWeighted(maxConcurrent),

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		baseURL:    u,
		apiKey:     params.ApiKey,
		httpClient: httpClient,

		Client: cli,
	}, nil
}

func (c *TutorOllamaClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// GetMetrics returns the metrics accumulated since the last reset.
func (c *TutorOllamaClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}

// ResetMetrics zeroes the accumulated metrics.
func (c *TutorOllamaClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics = ai.ModelMetrics{}
}
