package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/sesitech/agrichat/internal/domain"
)

// VertexClient implements domain.AnswerClient and domain.ReportClient on
// top of Vertex AI (Gemini), with JSON-schema-constrained outputs.
type VertexClient struct {
	client    *genai.Client
	modelName string
}

func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project id and location must be set")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

var answerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"answer": {Type: genai.TypeString, Description: "The answer to the question."},
		"source": {Type: genai.TypeString, Description: "The source of the answer (document name and page numbers), \"General Knowledge\", or \"N/A\"."},
	},
	Required: []string{"answer", "source"},
}

var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"farm_details":         {Type: genai.TypeString},
		"what_we_checked":      {Type: genai.TypeString},
		"what_we_found":        {Type: genai.TypeString},
		"what_you_should_do":   {Type: genai.TypeString},
		"money_matters":        {Type: genai.TypeString},
		"extra_tips":           {Type: genai.TypeString},
		"detailed_explanation": {Type: genai.TypeString},
	},
	Required: []string{
		"farm_details", "what_we_checked", "what_we_found",
		"what_you_should_do", "money_matters", "extra_tips",
		"detailed_explanation",
	},
}

// AnswerQuestion implements domain.AnswerClient.
func (v *VertexClient) AnswerQuestion(ctx context.Context, in domain.AnswerInput) (domain.AnswerOutput, error) {
	parts := []*genai.Part{genai.NewPartFromText("Question: " + in.Question)}

	if in.Document != nil {
		mimeType, data, err := decodeDataURI(in.Document.DataURI)
		if err != nil {
			return domain.AnswerOutput{}, fmt.Errorf("decoding document %q: %w", in.Document.Name, err)
		}
		parts = append(parts,
			genai.NewPartFromText(fmt.Sprintf("Attached document: %s", in.Document.Name)),
			genai.NewPartFromBytes(data, mimeType),
		)
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temp := float32(0.3)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(answerSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    answerSchema,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return domain.AnswerOutput{}, fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return domain.AnswerOutput{}, fmt.Errorf("vertex returned empty text")
	}

	var out struct {
		Answer string `json:"answer"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return domain.AnswerOutput{}, fmt.Errorf("parsing vertex answer: %w", err)
	}

	return domain.AnswerOutput{Answer: out.Answer, Source: out.Source}, nil
}

// FormatReport implements domain.ReportClient. The report text is the
// encoded document; it is handed to the model as inline data.
func (v *VertexClient) FormatReport(ctx context.Context, reportText string) (*domain.FarmerReport, error) {
	var parts []*genai.Part
	if mimeType, data, err := decodeDataURI(reportText); err == nil {
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	} else {
		parts = append(parts, genai.NewPartFromText("Here is the report content:\n"+reportText))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temp := float32(0.4)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(reportSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    reportSchema,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return nil, fmt.Errorf("vertex returned empty text")
	}

	var rep domain.FarmerReport
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		return nil, fmt.Errorf("parsing vertex report: %w", err)
	}
	return &rep, nil
}
