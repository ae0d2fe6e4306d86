package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aeoaudit/aeoaudit/pkg/model"
	"github.com/aeoaudit/aeoaudit/pkg/extractor/keywords"
)

var questionStartPattern = regexp.MustCompile(`(?i)^(How|What|Why|When|Where|Who|Which|Can|Is|Does|Do|Will|Should|Are)\b`)

var tldrPattern = regexp.MustCompile(`(?i)^(tl;?dr|in short|quick answer)\b`)

var definitionClassPattern = regexp.MustCompile(`(?i)(definition|callout|highlight|answer-box)`)

const maxAnswerChars = 500

// extractSemantic implements the Semantic extractor (spec §4.C): detected
// questions with their sibling answers, answer-pattern blocks, and
// TF-IDF-ranked main keywords.
func extractSemantic(main *html.Node, headings []model.Heading) ([]model.Question, []model.AnswerPattern, []string) {
	questions := extractQuestions(main)
	patterns := extractAnswerPatterns(main)
	kw := keywords.TopK(mainText(main), 20)
	return questions, patterns, kw
}

// extractQuestions finds every h2-h4 that looks like a question and
// captures the sibling content up to the next heading as its answer.
func extractQuestions(main *html.Node) []model.Question {
	var questions []model.Question
	collectQuestionCandidates(main, &questions)
	return questions
}

func collectQuestionCandidates(n *html.Node, out *[]model.Question) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isQuestionHeadingAtom(c.DataAtom) {
			text := strings.TrimSpace(textOf(c))
			if looksLikeQuestion(text) {
				answer := captureFollowingAnswer(c)
				*out = append(*out, model.Question{
					Text:   text,
					Source: model.QuestionSourceHeading,
					Answer: answer,
				})
			}
		}
		collectQuestionCandidates(c, out)
	}
}

func isQuestionHeadingAtom(a atom.Atom) bool {
	return a == atom.H2 || a == atom.H3 || a == atom.H4
}

func looksLikeQuestion(text string) bool {
	if text == "" {
		return false
	}
	if strings.HasSuffix(text, "?") {
		return true
	}
	return questionStartPattern.MatchString(text)
}

// captureFollowingAnswer walks subsequent siblings of a question heading
// until the next heading, concatenating text up to 500 chars.
func captureFollowingAnswer(heading *html.Node) string {
	var sb strings.Builder
	for sib := heading.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode {
			if _, ok := headingAtoms[sib.DataAtom]; ok {
				break
			}
		}
		sb.WriteString(textOf(sib))
		sb.WriteString(" ")
		if sb.Len() >= maxAnswerChars {
			break
		}
	}
	answer := strings.TrimSpace(sb.String())
	if len(answer) > maxAnswerChars {
		answer = answer[:maxAnswerChars]
	}
	return answer
}

// extractAnswerPatterns detects TL;DR, definition-box, blockquote, and
// callout structural blocks.
func extractAnswerPatterns(main *html.Node) []model.AnswerPattern {
	var patterns []model.AnswerPattern

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			text := strings.TrimSpace(textOf(n))

			if n.DataAtom == atom.Blockquote && text != "" {
				patterns = append(patterns, model.AnswerPattern{Kind: model.AnswerPatternBlockquote, Text: truncate(text, maxAnswerChars)})
				return
			}

			if tldrPattern.MatchString(text) {
				patterns = append(patterns, model.AnswerPattern{Kind: model.AnswerPatternTLDR, Text: truncate(text, maxAnswerChars)})
			}

			if classOrIDMatches(n, definitionClassPattern) && text != "" {
				kind := model.AnswerPatternDefinition
				if strings.Contains(strings.ToLower(attrOf(n, "class"))+attrOf(n, "id"), "callout") {
					kind = model.AnswerPatternCallout
				}
				patterns = append(patterns, model.AnswerPattern{Kind: kind, Text: truncate(text, maxAnswerChars)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(main)

	return patterns
}

func classOrIDMatches(n *html.Node, re *regexp.Regexp) bool {
	return re.MatchString(attrOf(n, "class")) || re.MatchString(attrOf(n, "id"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func mainText(main *html.Node) string {
	return textOf(main)
}
