package openai

import (
	"sync"

	"sage/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// TutorOpenAIClient implements ai.TutorAIClient against any
// OpenAI-compatible chat completion endpoint.
//
// A TutorOpenAIClient should be created using NewTutorOpenAIClient.
type TutorOpenAIClient struct {
	chatModel     string
	analysisModel string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewTutorOpenAIClientParams defines the configuration parameters for
// creating a new TutorOpenAIClient.
//
// ChatModel is used for conversational replies; AnalysisModel for the
// structured problem analysis. ChatURL may be empty to use the default
// OpenAI endpoint.
type NewTutorOpenAIClientParams struct {
	ChatModel     string
	AnalysisModel string

	ChatURL string
	ChatKey string
}

// NewTutorOpenAIClient creates and returns a new TutorOpenAIClient
// configured with the provided parameters.
//
// Example:
//
//	client := openai.NewTutorOpenAIClient(openai.NewTutorOpenAIClientParams{
//		ChatModel:     "gpt-4o-mini",
//		AnalysisModel: "gpt-4o-mini",
//		ChatKey:       os.Getenv("OPENAI_API_KEY"),
//	})
func NewTutorOpenAIClient(
	params NewTutorOpenAIClientParams,
) *TutorOpenAIClient {
	return &TutorOpenAIClient{
		chatModel:     params.ChatModel,
		analysisModel: params.AnalysisModel,

		chatURL: params.ChatURL,
		chatKey: params.ChatKey,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient: newOpenaiClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

func (c *TutorOpenAIClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// GetMetrics returns the metrics accumulated since the last reset.
func (c *TutorOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}

// ResetMetrics zeroes the accumulated metrics.
func (c *TutorOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics = ai.ModelMetrics{}
}
