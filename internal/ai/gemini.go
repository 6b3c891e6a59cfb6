package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"fintrack/internal/categories"
	apperrors "fintrack/internal/errors"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// geminiGenerator talks to the Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExternalService, err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &geminiGenerator{client: client, model: model}, nil
}

// receiptPayload is the JSON shape the extraction prompt asks the model for.
type receiptPayload struct {
	Merchant string      `json:"merchant"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

// ExtractReceipt sends the receipt image to the model and parses its strict
// JSON answer into a Receipt.
func (g *geminiGenerator) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Receipt, error) {
	prompt := receiptPrompt()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExternalService, err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, apperrors.ErrReceiptUnreadable
	}

	return parseReceiptJSON(rawText)
}

// receiptPrompt builds the extraction instructions, listing the expense
// taxonomy so the model classifies into a category we recognize.
func receiptPrompt() string {
	return "You are a receipt parser for a personal finance tracker.\n\n" +
		"Task:\n" +
		"- Read the attached receipt image.\n" +
		"- Output STRICT JSON only (no comments, no extra text).\n" +
		"- Output a single JSON object.\n\n" +
		"The object must have these fields:\n" +
		"- \"merchant\": string (the store or vendor name)\n" +
		"- \"amount\": number (the receipt total, e.g. 12.50)\n" +
		"- \"category\": string (one of: " + strings.Join(categories.Expense(), ", ") + ")\n" +
		"- \"date\": string, ISO format \"YYYY-MM-DD\", or null if unreadable\n\n" +
		"Rules:\n" +
		"- If the image is not a receipt, set every field to null.\n" +
		"- Pick the category that best fits the merchant and items.\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Do NOT use ```json or any Markdown.\n" +
		"Output must begin with \"{\" and end with \"}\".\n"
}

// parseReceiptJSON turns the model's answer into a Receipt, tolerating the
// fences the model sometimes adds despite instructions.
func parseReceiptJSON(raw string) (*Receipt, error) {
	clean := cleanModelJSON(raw, "{", "}")

	var payload receiptPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrReceiptUnreadable, err)
	}
	if payload.Merchant == "" && payload.Amount == "" {
		return nil, apperrors.ErrReceiptUnreadable
	}

	amount, err := decimal.NewFromString(payload.Amount.String())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrReceiptUnreadable, err)
	}
	cents := amount.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() || cents.IntPart() <= 0 {
		return nil, apperrors.ErrReceiptUnreadable
	}

	receipt := &Receipt{
		Merchant: payload.Merchant,
		Amount:   cents.IntPart(),
		Category: categories.Normalize(payload.Category),
	}
	if payload.Date != "" && payload.Date != "null" {
		if d, err := time.Parse("2006-01-02", payload.Date); err == nil {
			receipt.Date = d
		}
	}
	return receipt, nil
}

// GenerateInsight asks the model for spending advice over the given facts.
// The answer carries a one-liner and a longer body in labelled sections.
func (g *geminiGenerator) GenerateInsight(ctx context.Context, facts InsightFacts) (*Insight, error) {
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prompt := "You are a personal finance advisor. Amounts below are in cents.\n\n" +
		"Here is the user's current month in JSON:\n" +
		string(factsJSON) + "\n\n" +
		"Write practical, specific advice about their spending and budgets.\n" +
		"Answer in exactly this format, with no Markdown:\n" +
		"OneLiner: <a single short sentence>\n" +
		"FullInsight: <two to four sentences of detail>\n"

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExternalService, err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, apperrors.Wrap(apperrors.ErrExternalService, fmt.Errorf("empty response from model"))
	}
	return parseInsightText(rawText), nil
}

// parseInsightText splits the model's answer into its two sections. A reply
// that ignores the format becomes the full insight with its first line as the
// one-liner.
func parseInsightText(raw string) *Insight {
	text := strings.TrimSpace(raw)
	insight := &Insight{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "OneLiner:"):
			insight.OneLiner = strings.TrimSpace(strings.TrimPrefix(line, "OneLiner:"))
		case strings.HasPrefix(line, "FullInsight:"):
			insight.FullInsight = strings.TrimSpace(strings.TrimPrefix(line, "FullInsight:"))
		case insight.FullInsight != "" && line != "":
			insight.FullInsight += " " + line
		}
	}

	if insight.OneLiner == "" && insight.FullInsight == "" {
		insight.FullInsight = text
		if idx := strings.Index(text, "\n"); idx != -1 {
			insight.OneLiner = strings.TrimSpace(text[:idx])
		} else {
			insight.OneLiner = text
		}
	}
	return insight
}
