package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func TestAnswerabilityRewardsLeadParagraphInSweetSpot(t *testing.T) {
	pm := model.PageModel{
		Paragraphs: []model.Paragraph{{Text: "lead", WordCount: 80}},
	}

	score := Answerability(pm)

	assert.Equal(t, 6.0, score.SubScores["direct_answer_presence"])
}

func TestAnswerabilityPenalizesLeadParagraphOutsideSweetSpot(t *testing.T) {
	pm := model.PageModel{
		Paragraphs: []model.Paragraph{{Text: "lead", WordCount: 10}},
	}

	score := Answerability(pm)

	assert.Equal(t, 3.0, score.SubScores["direct_answer_presence"])
}

func TestAnswerabilityQuestionCoverageAddsFAQBonus(t *testing.T) {
	pm := model.PageModel{
		FAQSchema: model.FAQSchema{ValidCount: 3},
	}

	score := Answerability(pm)

	assert.Equal(t, 3.0, score.SubScores["question_coverage"])
}

func TestAnswerabilityClampsTotalAtMax(t *testing.T) {
	pm := model.PageModel{
		Paragraphs: []model.Paragraph{
			{Text: "a", WordCount: 80}, {Text: "b", WordCount: 80}, {Text: "c", WordCount: 80},
		},
		AnswerPatterns: []model.AnswerPattern{
			{Kind: model.AnswerPatternTLDR}, {Kind: model.AnswerPatternDefinition}, {Kind: model.AnswerPatternCallout},
		},
		Headings: []model.Heading{{Level: 1}, {Level: 2}, {Level: 2}, {Level: 3}},
		Questions: []model.Question{{Text: "q1"}, {Text: "q2"}, {Text: "q3"}, {Text: "q4"}, {Text: "q5"}},
		FAQSchema: model.FAQSchema{ValidCount: 5},
		Lists:     []model.List{{Items: []string{"1", "2", "3"}}},
	}

	score := Answerability(pm)

	assert.LessOrEqual(t, score.Raw, MaxAnswerability)
	assert.Equal(t, MaxAnswerability, score.Max)
}

func TestAnswerabilityZeroForEmptyPage(t *testing.T) {
	score := Answerability(model.PageModel{})
	assert.Equal(t, 0.0, score.Raw)
}
