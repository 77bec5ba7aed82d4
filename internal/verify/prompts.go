package verify

import (
	"fmt"
	"strings"
)

// MaxPromptReferences is how many reference texts go into one prompt
const MaxPromptReferences = 3

const referenceSeparator = "\n\n---\n\n"

// AnalysisSystemPrompt frames the authenticity analysis call
const AnalysisSystemPrompt = "You are a professional fact-checker, news analyst, and misinformation expert. " +
	"Analyze content thoroughly and respond only with clean JSON. " +
	"Include claim-by-claim analysis, bias detection, emotional manipulation detection, and sensational tone analysis."

// CredibilitySystemPrompt frames the social-text credibility call
const CredibilitySystemPrompt = "You are a fact-checking expert. Analyze social media content and WhatsApp forwards " +
	"for misinformation. Respond only with clean JSON."

// HeadlineSystemPrompt frames the headline extraction call
const HeadlineSystemPrompt = "You are a professional news analyst. Respond only with clean JSON."

const analysisSchema = `{
    "authenticity_score": <0-100>,
    "key_findings": ["finding1", "finding2", "finding3"],
    "differences": ["difference1", "difference2"],
    "supporting_evidence": [{"quote": "...", "source": "..."}],
    "score_breakdown": {
        "factual_accuracy": <0-40>,
        "source_consistency": <0-30>,
        "detail_accuracy": <0-20>,
        "context_accuracy": <0-10>
    },
    "claims_analysis": [
        {
            "claim": "exact sentence from article",
            "classification": "verified_true|misleading|false|unverified",
            "explanation": "why this classification",
            "corrected_statement": "factual correction if needed",
            "confidence": <0-100>
        }
    ],
    "bias_detection": {
        "detected": true/false,
        "type": "political|commercial|sensational|none",
        "indicators": ["indicator1", "indicator2"]
    },
    "emotional_manipulation": {
        "detected": true/false,
        "tactics": ["fear", "anger", "urgency"],
        "examples": ["example phrase from text"]
    },
    "sensational_tone": {
        "detected": true/false,
        "score": <0-100>,
        "indicators": ["clickbait phrases", "exaggerations"]
    }
}`

const credibilitySchema = `{
    "credibility_score": <0-100>,
    "verdict": "Likely True" | "Needs Verification" | "Likely False" | "Misinformation",
    "claims": [
        {
            "claim": "the claim text",
            "assessment": "true|unverified|false|misleading",
            "explanation": "why this assessment"
        }
    ],
    "red_flags": ["list of red flags found"],
    "recommendations": ["what the reader should do to verify"],
    "summary": "brief summary of analysis"
}`

// BuildAnalysisPrompt embeds the article verbatim and at most
// MaxPromptReferences reference texts. It must not be called with zero
// references; the orchestrator short-circuits that case.
func BuildAnalysisPrompt(original string, references []string) string {
	if len(references) > MaxPromptReferences {
		references = references[:MaxPromptReferences]
	}

	var b strings.Builder
	b.WriteString("You are a professional fact-checker and news analyst.\n")
	b.WriteString("Analyze the given content for misinformation by comparing it against trusted sources.\n\n")
	b.WriteString("Original News Article:\n")
	b.WriteString(original)
	b.WriteString("\n\nTrusted Sources:\n")
	b.WriteString(strings.Join(references, referenceSeparator))
	b.WriteString(`

Perform a detailed analysis:
1. Identify each claim in the article and classify it as:
   - "verified_true" - Confirmed by trusted sources
   - "misleading" - Partially true but missing context
   - "false" - Contradicted by trusted sources
   - "unverified" - Cannot be confirmed

2. For every misleading or false claim, provide:
   - The exact sentence from the article
   - Why it is misleading or false
   - Missing context if any
   - Corrected factual statement
   - Confidence percentage (0-100)

3. Detect and report:
   - Bias indicators (political lean, one-sided reporting)
   - Emotional manipulation tactics (fear, anger, outrage triggers)
   - Sensational headline or tone (clickbait, exaggeration)
   - Hallucinated or unsourced statistics

Respond with a JSON object containing:
`)
	b.WriteString(analysisSchema)
	b.WriteString("\n")
	return b.String()
}

// BuildCredibilityPrompt embeds a social-media text and the credibility schema
func BuildCredibilityPrompt(text string) string {
	return fmt.Sprintf(`You are an expert fact-checker specialized in identifying misinformation in social media posts and WhatsApp forwards.

Analyze the following text for credibility:

TEXT TO VERIFY:
%s

Perform a detailed analysis:
1. Identify the main claims in the text
2. Assess each claim's credibility
3. Look for red flags like:
   - Lack of credible sources
   - Emotional manipulation
   - Urgency tactics ("share before deleted!")
   - Unverified statistics
   - Anonymous sources
   - Conspiracy language
4. Check for common misinformation patterns

Respond with a JSON object:
%s
`, text, credibilitySchema)
}

// BuildHeadlinePrompt asks for three search-ready headlines
func BuildHeadlinePrompt(text string) string {
	return fmt.Sprintf(`Extract 3 concise headlines from the following news article.
Each headline must be clear and concise, focusing on the main facts and events, places, people, organizations, and dates.

News article:

%s

Respond in pure JSON:
{
    "news_headline": [
        "news_headline_1",
        "news_headline_2",
        "news_headline_3"
    ]
}
`, text)
}
