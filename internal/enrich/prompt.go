package enrich

import (
	"fmt"
	"unicode/utf8"

	"github.com/narrisia/inbox-intel/internal/model"
)

// maxPromptBody caps how much message body is quoted into a prompt.
const maxPromptBody = 1500

const analysisSystemPrompt = `You are a business intelligence analyst. Given one inbound email and the company believed to be behind its sender, produce a single JSON object and nothing else, in exactly this shape:
{
  "company": {
    "name": "<canonical company name>",
    "industry": "<e.g. Technology, Finance, Recruitment Technology>",
    "company_size": "Startup (1-50)/Small (51-200)/Medium (201-1000)/Large (1000+)",
    "founded": <year or 0>,
    "market_cap_usd": <number>,
    "revenue_usd": <number>,
    "funding_status": "Public/Private/Startup/Series A-C/Unknown",
    "investors": ["<investor>", ...],
    "domain_age_years": <number>,
    "employee_count": <integer>,
    "headquarters": "City, Country",
    "website": "https://...",
    "description": "<one or two sentences>",
    "business_model": "B2B/B2C/SaaS/Unknown",
    "sentiment_score": <0.0-1.0>,
    "certified": <bool>,
    "funded_by_top_investors": <bool>
  },
  "intent": {
    "intent": "<short category like 'business inquiry', 'job application', 'newsletter', 'spam'>",
    "intent_confidence": <0.0-1.0>,
    "business_relevant": <bool>,
    "business_category": "<sales | budget | quotation | finance | invoice | other>",
    "business_confidence": <0.0-1.0>,
    "notes": "<optional rationale>"
  },
  "summary": "<one-sentence summary of the email>"
}
Provide realistic estimates based on public knowledge of the company; use 0 or "Unknown" where you genuinely cannot estimate.`

const relevancySystemPrompt = `You are a business relevancy analyst. Score how relevant an inbound email is to the user's business context on a 0-100 scale (90-100 direct industry match and clear opportunity, 70-89 related industry or clear value, 50-69 some potential, 30-49 minimal connection, 0-29 unrelated). Respond with only a JSON object: {"score": <0-100>, "explanation": "<one sentence>", "confidence": <0.0-1.0>}`

// buildAnalysisPrompt renders the combined company/intent/summary
// request for one message.
func buildAnalysisPrompt(msg model.RawMessage, companyName string) string {
	return fmt.Sprintf(`Company behind the sender: %s

Email:
From: %s
Subject: %s
Body:
%s`, companyName, msg.SenderHeader, msg.Subject, truncate(msg.Content(), maxPromptBody))
}

// buildRelevancyPrompt renders the relevancy request for one message
// against the caller's domain context.
func buildRelevancyPrompt(msg model.RawMessage, companyName, domainContext string) string {
	return fmt.Sprintf(`User's business context:
%q

Email:
Company: %s
Subject: %s
Content:
%s`, domainContext, companyName, msg.Subject, truncate(msg.Content(), 1000))
}

// truncate caps s at max bytes without splitting the final rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
