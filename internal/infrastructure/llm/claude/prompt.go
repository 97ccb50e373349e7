package claude

import "fmt"

type PromptKind string

const (
	PromptTextAnalysis     PromptKind = "text_analysis"
	PromptDocumentAnalysis PromptKind = "document_analysis"
	PromptQuestion         PromptKind = "question"
)

// PromptParams carries the substitution values for BuildPrompt. Only the
// fields relevant to the chosen kind are read.
type PromptParams struct {
	Text      string
	Reference string
	MimeType  string
	Question  string
	Context   string
}

const analysisInstructions = `Analyze the document and respond with exactly these four sections:

Summary: a concise overview in two or three sentences.
Key Points: the most important facts, one per line, each starting with "-".
Details: notable specifics, figures and context.
Recommendations: concrete follow-up actions, one per line, each starting with "-".`

// BuildPrompt is a pure function; it keeps string templating out of the
// pipeline orchestration.
func BuildPrompt(kind PromptKind, params PromptParams) string {
	switch kind {
	case PromptTextAnalysis:
		return fmt.Sprintf("%s\n\nDocument:\n%s", analysisInstructions, params.Text)
	case PromptDocumentAnalysis:
		return fmt.Sprintf("%s\n\nDocument reference: %s\nDocument type: %s\nFetch the referenced document and analyze its contents.",
			analysisInstructions, params.Reference, params.MimeType)
	case PromptQuestion:
		return fmt.Sprintf(`Answer the question using only the context below.
If the context does not contain the answer, say so plainly instead of guessing.

Question:
%s

Context:
%s`, params.Question, params.Context)
	default:
		return ""
	}
}
