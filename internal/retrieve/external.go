package retrieve

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hanbeop/lawdex/internal/models"
)

const caseSystemPrompt = `당신은 공정거래 전문 변호사입니다.
주어진 케이스와 관련 법령을 바탕으로 다음과 같이 분석해주세요:

1. **관련 법령 식별**: 케이스와 가장 관련성이 높은 법령과 조문을 찾아주세요.
2. **법적 쟁점 분석**: 케이스에서 발생할 수 있는 법적 쟁점을 분석해주세요.
3. **위반 가능성 평가**: 공정거래법 위반 가능성을 평가해주세요.
4. **권고사항**: 기업이 취해야 할 조치사항을 제시해주세요.

분석은 객관적이고 실무적으로 작성해주세요.`

const summarySystemPrompt = `당신은 법령 전문가입니다.
주어진 법령 정보를 바탕으로 다음과 같이 요약해주세요:

1. **법령 개요**: 각 법령의 목적과 주요 내용
2. **핵심 조문**: 가장 중요한 조문들과 그 의미
3. **적용 범위**: 어떤 기업이나 거래에 적용되는지
4. **주요 제재**: 위반 시 어떤 제재가 있는지

요약은 일반인이 이해하기 쉽게 작성해주세요.`

// ExternalConfig configures the external reasoning service client.
type ExternalConfig struct {
	// APIKey overrides APIKeyEnv when set.
	APIKey string
	// APIKeyEnv is the environment variable holding the key; defaults to
	// OPENAI_API_KEY.
	APIKeyEnv string
	// BaseURL overrides the service endpoint, e.g. for a local proxy.
	BaseURL string
	// Model defaults to gpt-3.5-turbo.
	Model string
	// ExcerptRunes bounds each provision's excerpt in the prompt context;
	// defaults to DefaultExcerptRunes.
	ExcerptRunes int
}

// ExternalAnalyzer sends the assembled context plus the scenario to an
// OpenAI-compatible chat completion service and returns its prose verbatim.
// Failures are returned as errors; the engine decides whether to fall back.
type ExternalAnalyzer struct {
	client       *openai.Client
	model        string
	excerptRunes int
}

// NewExternalAnalyzer builds the chat client. Returns an error when no API
// key can be resolved, so misconfiguration surfaces at startup rather than
// on the first query.
func NewExternalAnalyzer(cfg ExternalConfig) (*ExternalAnalyzer, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "OPENAI_API_KEY"
	}
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv(keyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("external analyzer: no API key (set %s)", keyEnv)
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	excerpt := cfg.ExcerptRunes
	if excerpt <= 0 {
		excerpt = DefaultExcerptRunes
	}
	return &ExternalAnalyzer{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        model,
		excerptRunes: excerpt,
	}, nil
}

// Analyze assembles the ranked provisions into a context block and asks the
// service for a legal analysis of the scenario.
func (a *ExternalAnalyzer) Analyze(ctx context.Context, scenario string, results []models.RankedResult) (string, error) {
	contextBlock, err := AssembleContext(results, a.excerptRunes)
	if err != nil {
		return "", err
	}
	user := fmt.Sprintf("케이스: %s\n\n%s\n\n위 케이스를 분석해주세요.", scenario, contextBlock)
	return a.complete(ctx, caseSystemPrompt, user)
}

// Summarize asks the service for a statute summary over the ranked
// provisions. The subject only seeds retrieval upstream; the prompt carries
// the provisions themselves.
func (a *ExternalAnalyzer) Summarize(ctx context.Context, _ string, results []models.RankedResult) (string, error) {
	contextBlock, err := AssembleContext(results, a.excerptRunes)
	if err != nil {
		return "", err
	}
	user := fmt.Sprintf("다음 법령 정보를 요약해주세요:\n\n%s", contextBlock)
	return a.complete(ctx, summarySystemPrompt, user)
}

func (a *ExternalAnalyzer) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
