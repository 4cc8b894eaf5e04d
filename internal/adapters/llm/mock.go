package llm

import (
	"context"
	"fmt"

	"github.com/sesitech/agrichat/internal/domain"
)

// Mock is a deterministic stand-in for the real collaborators, used in dev
// and tests. When a document is attached it answers with the example
// citation the caller is expected to rewrite.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) AnswerQuestion(ctx context.Context, in domain.AnswerInput) (domain.AnswerOutput, error) {
	if in.Document != nil {
		return domain.AnswerOutput{
			Answer: fmt.Sprintf("This is a placeholder answer from the document. The question was: %s", in.Question),
			Source: "ExamplePDF.pdf, page 1",
		}, nil
	}
	return domain.AnswerOutput{
		Answer: fmt.Sprintf("Here is some general farming advice. The question was: %s", in.Question),
		Source: "General Knowledge",
	}, nil
}

func (m *Mock) FormatReport(ctx context.Context, reportText string) (*domain.FarmerReport, error) {
	return &domain.FarmerReport{
		FarmDetails:         "Demo Farm, 2 acres of soybean near Tamale.",
		WhatWeChecked:       "We checked nitrogen, phosphorus, potassium and soil pH.",
		WhatWeFound:         "Your soil does not have enough nitrogen, but the potassium level is okay.",
		WhatYouShouldDo:     "Apply one bag of NPK 15-15-15 per acre at planting.",
		MoneyMatters:        "Fertilizer will cost about GHS 400 and could bring GHS 3,600 profit.",
		ExtraTips:           "Add manure before the rains to help the soil hold water.",
		DetailedExplanation: "Low nitrogen means the leaves turn yellow and the plants grow slowly. The fertilizer replaces what the soil is missing.",
	}, nil
}
