package summarization

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"resgeo/types"
)

// Summarize asks OpenAI for a short operator-facing situation summary of a
// region report. With no client configured it returns a deterministic
// template so reports always carry something readable.
func Summarize(ctx context.Context, client *openai.Client, rep *types.RegionAnalysisReport) (string, error) {
	if client == nil {
		return templateSummary(rep), nil
	}

	prompt := buildPrompt(rep)

	resp, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an assistant that summarizes satellite flood-analysis results for disaster-response operators concisely.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   150,
			N:           1,
			Temperature: 0.5, // Lower temperature for more focused summary
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned empty response or choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(rep *types.RegionAnalysisReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Region: %s\n", rep.Region)
	fmt.Fprintf(&b, "Tiles analyzed: %d of %d fetched (%d fetch failures)\n", rep.AnalyzedTiles, rep.FetchedTiles, rep.FailedTiles)
	fmt.Fprintf(&b, "Flooded tiles: %d (%.1f%%)\n", rep.FloodedTiles, rep.FloodedPercentage)
	for _, ft := range rep.Flagged {
		fmt.Fprintf(&b, "- %s: water %.1f%%, %d objects detected", ft.TileFile, ft.WaterPercentage, ft.DetectionCount)
		if ft.Place != "" {
			fmt.Fprintf(&b, " near %s", ft.Place)
		}
		b.WriteString("\n")
	}
	if rep.Degraded {
		b.WriteString("Note: some stages ran in degraded/mock mode.\n")
	}

	return fmt.Sprintf("Summarize the following satellite flood analysis for disaster responders. Focus on the extent of flooding, the most affected areas, and any detected persons or objects. Provide a concise summary (2-3 sentences maximum):\n\n---\n%s---\n\nSummary:", b.String())
}

// templateSummary is the degraded-mode summary: plain numbers, no prose model.
func templateSummary(rep *types.RegionAnalysisReport) string {
	if rep.FloodedTiles == 0 {
		return fmt.Sprintf("No significant flooding detected in %s across %d analyzed tiles.", rep.Region, rep.AnalyzedTiles)
	}
	return fmt.Sprintf("%d of %d analyzed tiles in %s show significant flooding (%.1f%%). Review the flagged tiles for detected persons.",
		rep.FloodedTiles, rep.AnalyzedTiles, rep.Region, rep.FloodedPercentage)
}
