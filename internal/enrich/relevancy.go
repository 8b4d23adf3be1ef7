package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/narrisia/inbox-intel/internal/model"
	"github.com/narrisia/inbox-intel/pkg/anthropic"
)

// NoContextExplanation is the explanation carried by the neutral
// relevancy placeholder.
const NoContextExplanation = "no domain context provided"

// NeutralRelevancy is the documented placeholder returned when no
// domain context is supplied. It marks a skipped scoring pass, never a
// failure.
func NeutralRelevancy() model.RelevancyAssessment {
	return model.RelevancyAssessment{
		Score:       50,
		Explanation: NoContextExplanation,
		Confidence:  0,
	}
}

// RelevancyScorer scores a message against a business-domain
// description with one inference call.
type RelevancyScorer struct {
	ai        anthropic.Client
	model     string
	maxTokens int64
}

// NewRelevancyScorer builds a scorer on the given inference client.
func NewRelevancyScorer(ai anthropic.Client, modelName string, maxTokens int64) *RelevancyScorer {
	return &RelevancyScorer{
		ai:        ai,
		model:     modelName,
		maxTokens: maxTokens,
	}
}

// Score rates how relevant msg is to domainContext on a 0-100 scale.
// An empty or whitespace context short-circuits to the neutral
// placeholder without touching the inference client. Inference or
// parse failures degrade to score 50 / confidence 0 with the reason in
// the explanation; the field is never dropped.
func (s *RelevancyScorer) Score(ctx context.Context, msg model.RawMessage, companyName, domainContext string) model.RelevancyAssessment {
	if strings.TrimSpace(domainContext) == "" {
		return NeutralRelevancy()
	}

	resp, err := s.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    relevancySystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildRelevancyPrompt(msg, companyName, domainContext)},
		},
	})
	if err != nil {
		zap.L().Warn("relevancy: inference failed",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return model.RelevancyAssessment{
			Score:       50,
			Explanation: "relevancy call failed: " + err.Error(),
			Confidence:  0,
		}
	}

	var payload struct {
		Score       float64 `json:"score"`
		Explanation string  `json:"explanation"`
		Confidence  float64 `json:"confidence"`
	}
	if err := decodeJSON(resp.Text(), &payload); err != nil {
		zap.L().Warn("relevancy: unparsable response",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return model.RelevancyAssessment{
			Score:       50,
			Explanation: "relevancy response unparsable: " + err.Error(),
			Confidence:  0,
		}
	}

	explanation := payload.Explanation
	if explanation == "" {
		explanation = "no explanation provided"
	}
	return model.RelevancyAssessment{
		Score:       clamp(payload.Score, 0, 100),
		Explanation: explanation,
		Confidence:  clamp(payload.Confidence, 0, 1),
	}
}
