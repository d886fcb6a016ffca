package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const cryptoInstruction = `You are a cryptocurrency market analyst.
Read the news items below and write one comprehensive summary of the current Bitcoin and crypto landscape.
Focus on:
1. Bitcoin price movements and trends
2. Major cryptocurrency developments
3. Industry news and adoption
4. Regulatory updates

Write ONE complete analysis of the current state of the crypto market.`

const macroInstruction = `You are a macro-economic analyst.
Read the news items below and write one comprehensive summary of the current global financial landscape.
Focus on:
1. Major market movements
2. Economic indicators
3. Central bank policies
4. Global market trends that could impact Bitcoin

Write ONE complete analysis of the current state of global markets.`

const digestInstruction = `You are a direct, data-driven financial analyst. Write a concise, well-structured market update.

Use the BTC price data and market news below to cover:
1. Price movement
   - Current price and significant changes
   - Key technical levels if relevant
2. Market context
   - Most impactful recent events
   - Notable institutional activity
3. Forward look
   - Key levels to watch
   - Potential catalysts ahead

Rules:
- Clear, flowing paragraphs
- No generic commentary or filler
- Only significant information; skip a section when nothing is noteworthy
- At most 3 short paragraphs
- No greetings or sign-offs

Format:
- First line: the subject line, one clear insight about the current state
- Then 2-3 concise paragraphs
- Optional bullet points for key levels

Context:
%s`

// CategoryInstruction returns the analyst instruction for a news category.
// Unknown categories get the macro instruction.
func CategoryInstruction(category string) string {
	if category == "crypto" {
		return cryptoInstruction
	}
	return macroInstruction
}

// NewsPrompt combines the category instruction with the raw search results.
func NewsPrompt(category string, items []json.RawMessage) (string, error) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode news items: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(CategoryInstruction(category))
	sb.WriteString("\n\nAnalyze these financial news items and provide a comprehensive market summary:\n")
	sb.Write(data)
	return sb.String(), nil
}

func DigestPrompt(context string) string {
	return fmt.Sprintf(digestInstruction, context)
}
