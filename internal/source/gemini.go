package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-insight/internal/blob"
	"github.com/dvloznov/statement-insight/internal/domain"
)

// DefaultModelName is the Gemini model used for statement parsing.
const DefaultModelName = "gemini-2.5-flash"

// DocumentResolver maps a document name to its archived blob. Implemented by
// the store layer.
type DocumentResolver interface {
	ResolveBlob(ctx context.Context, documentName string) (uri, mimeType string, err error)
}

// Gemini is the real-model Source: it sends the archived statement bytes to
// Gemini and maps the strict-JSON response into transaction records.
type Gemini struct {
	blobs    blob.Store
	resolver DocumentResolver
	model    string
}

// NewGemini creates a Gemini-backed source.
func NewGemini(blobs blob.Store, resolver DocumentResolver, model string) *Gemini {
	if model == "" {
		model = DefaultModelName
	}
	return &Gemini{blobs: blobs, resolver: resolver, model: model}
}

// Generate implements Source. Any provider-side failure wraps
// domain.ErrSourceUnavailable so callers can retry the run.
func (g *Gemini) Generate(ctx context.Context, documentName string) ([]domain.TransactionRecord, error) {
	uri, mimeType, err := g.resolver.ResolveBlob(ctx, documentName)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve blob for %q: %v", domain.ErrSourceUnavailable, documentName, err)
	}

	data, err := g.blobs.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %q: %v", domain.ErrSourceUnavailable, uri, err)
	}

	raw, err := g.callModel(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}

	batch, err := mapModelOutput(raw, documentName)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: model returned no transactions for %q", domain.ErrSourceUnavailable, documentName)
	}
	return batch, nil
}

func (g *Gemini) callModel(ctx context.Context, data []byte, mimeType string) ([]map[string]interface{}, error) {
	prompt :=
		"You are a financial statement parser.\n\n" +
			"Task:\n" +
			"- Parse ALL transactions in the attached statement.\n" +
			"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
			"- Output a JSON array of objects.\n\n" +
			"Each object must have these fields:\n" +
			"- \"category\": string\n" +
			"- \"risk\": string, one of \"low\", \"medium\", \"high\"\n" +
			"- \"amount\": number (positive for money IN, negative for money OUT)\n" +
			"- \"currency\": string (e.g. \"GBP\")\n" +
			"- \"date\": string, format \"dd.mm.yyyy\"\n" +
			"- \"time\": string, format \"HH:MM\"\n" +
			"- \"counterparty\": string\n" +
			"- \"taxId\": string or null\n" +
			"- \"regCode\": string or null\n" +
			"- \"purpose\": string\n" +
			"- \"status\": string\n" +
			"- \"channel\": string\n" +
			"- \"tag\": string\n\n" +
			"Return ONLY valid raw JSON.\n" +
			"Do NOT wrap the response in code fences.\n" +
			"Output must begin with \"[\" and end with \"]\".\n"

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create genai client: %v", domain.ErrSourceUnavailable, err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", domain.ErrSourceUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text())
	text = stripCodeFences(text)

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: model output is not a JSON array: %v", domain.ErrSourceUnavailable, err)
	}
	return items, nil
}

// stripCodeFences removes a Markdown code fence the model sometimes adds
// despite the prompt.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func mapModelOutput(items []map[string]interface{}, documentName string) ([]domain.TransactionRecord, error) {
	batch := make([]domain.TransactionRecord, 0, len(items))
	for i, obj := range items {
		riskStr, err := getString(obj, "risk", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		risk, err := domain.ParseRiskLevel(riskStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		amount, err := getFloat64(obj, "amount")
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		date, err := getString(obj, "date", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		counterparty, err := getString(obj, "counterparty", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		rec := domain.TransactionRecord{
			ID:           i + 1,
			Document:     documentName,
			Risk:         risk,
			Amount:       amount,
			Date:         date,
			Counterparty: counterparty,
		}
		rec.Category, _ = getString(obj, "category", false)
		rec.Currency, _ = getString(obj, "currency", false)
		rec.Time, _ = getString(obj, "time", false)
		rec.TaxID, _ = getString(obj, "taxId", false)
		rec.RegCode, _ = getString(obj, "regCode", false)
		rec.Purpose, _ = getString(obj, "purpose", false)
		rec.Status, _ = getString(obj, "status", false)
		rec.Channel, _ = getString(obj, "channel", false)
		rec.Tag, _ = getString(obj, "tag", false)

		batch = append(batch, rec)
	}
	return batch, nil
}

func getString(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
	if required && strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("required field %q is empty", key)
	}
	return s, nil
}

func getFloat64(m map[string]interface{}, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing required field %q", key)
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
