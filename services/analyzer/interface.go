package analyzer

import (
	"context"

	"go.uber.org/zap"

	"fixhub/models"
	"fixhub/utils"
)

// Analyzer turns a free-text damage description into a structured
// AnalysisResult. It either returns a complete result or an error; callers
// never see partial results.
type Analyzer interface {
	Analyze(ctx context.Context, description string) (models.AnalysisResult, error)
}

// DefaultAnalyzerService composes the AI strategy with the deterministic
// mock fallback. When the AI strategy is absent (no API key) or fails for
// any reason, the mock result is returned instead; a single failure
// triggers an immediate fallback, never a retry, and the caller never sees
// the upstream error.
type DefaultAnalyzerService struct {
	AI Analyzer // nil when no API key is configured
}

// NewDefaultAnalyzerService builds the service. An empty apiKey leaves the
// AI strategy unset so every request takes the mock path.
func NewDefaultAnalyzerService(apiKey string) *DefaultAnalyzerService {
	logger := utils.GetLogger()
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set; analysis will use the mock strategy only")
		return &DefaultAnalyzerService{}
	}

	ai, err := NewGeminiAnalyzer(apiKey)
	if err != nil {
		logger.Error("Failed to initialize Gemini analyzer, running mock-only", zap.Error(err))
		return &DefaultAnalyzerService{}
	}
	return &DefaultAnalyzerService{AI: ai}
}

// Analyze always returns a complete result.
func (s *DefaultAnalyzerService) Analyze(ctx context.Context, description string) (models.AnalysisResult, error) {
	logger := utils.GetLogger()

	if s.AI == nil {
		return MockAnalysis(description), nil
	}

	result, err := s.AI.Analyze(ctx, description)
	if err != nil {
		logger.Warn("AI analysis failed, falling back to mock", zap.Error(err))
		return MockAnalysis(description), nil
	}
	return result, nil
}
