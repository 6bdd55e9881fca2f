package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mattwhite/yearposter/internal/summary"
)

// ErrNoAPIKey is returned when neither the environment nor the config file
// provides a key.
var ErrNoAPIKey = errors.New("no Anthropic API key found; set ANTHROPIC_API_KEY or anthropic_api_key in config.toml")

const systemPrompt = `You are a friendly running coach writing the caption for a runner's year-in-review poster.

Based on the statistics provided, write a short recap of the year:
- One opening sentence celebrating the headline number (distance or runs)
- Two or three sentences on consistency (streak, active days) and notable efforts (races, longest run)
- One forward-looking sentence for next year

Keep it under 120 words, warm but not gushing. Do not invent numbers that are not in the statistics. Plain text, no headings or lists.`

// Prompt renders the year's statistics as the user message.
func Prompt(year int, unit string, stats summary.YearStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Year: %d\n", year)
	fmt.Fprintf(&b, "Runs: %d\n", stats.TotalRuns)
	fmt.Fprintf(&b, "Active days: %d\n", stats.ActiveDays)
	fmt.Fprintf(&b, "Total distance: %.1f %s\n", stats.TotalDistance, unit)
	fmt.Fprintf(&b, "Total moving time: %s\n", summary.FormatDuration(stats.TotalTime))
	fmt.Fprintf(&b, "Average pace: %s per %s\n", stats.AvgPace, unit)
	fmt.Fprintf(&b, "Longest streak: %d days\n", stats.Streak)
	fmt.Fprintf(&b, "Longest run: %.1f %s\n", stats.LongestRun, unit)
	fmt.Fprintf(&b, "Marathons: %d, half marathons: %d, 10K or longer: %d\n",
		stats.MarathonCount, stats.HalfMarathonCount, stats.TenKCount)

	b.WriteString("Monthly distance:")
	for i, m := range stats.Months {
		if m.Distance > 0 {
			fmt.Fprintf(&b, " %s %.0f", monthAbbr[i], m.Distance)
		}
	}
	b.WriteString("\n")
	return b.String()
}

var monthAbbr = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Recap asks the model for a short caption for the poster.
func Recap(ctx context.Context, apiKey string, year int, unit string, stats summary.YearStats) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrNoAPIKey
	}
	if stats.TotalRuns == 0 {
		return "", fmt.Errorf("no activities in %d to summarise", year)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	userPrompt := fmt.Sprintf("Here are my running statistics for the year:\n\n%s\nPlease write the recap.", Prompt(year, unit, stats))
	response, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 400,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt, Type: "text"}},
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{{OfText: &anthropic.TextBlockParam{Text: userPrompt, Type: "text"}}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	for _, content := range response.Content {
		if content.Type == "text" && content.Text != "" {
			return strings.TrimSpace(content.Text), nil
		}
	}
	return "", fmt.Errorf("no text in Anthropic response")
}
