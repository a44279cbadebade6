package ai

import (
	"fmt"
	"strings"

	"tribunal/domain/trial"
	"tribunal/domain/verdict"
)

// System role instructions pinning the oracle's behavior. Both demand
// JSON-only output; the round variant acknowledges argument context.
const (
	JudgeSystemInitial = "You are an experienced AI judge delivering fair and reasoned verdicts based on evidence. Always respond with valid JSON only."
	JudgeSystemRound   = "You are an experienced AI judge delivering fair and reasoned verdicts based on evidence and arguments. Always respond with valid JSON only."
)

// Evidence truncation budgets. Capping each document bounds the total
// briefing size and therefore the cost of an oracle call; the loss is a
// deliberate trade, not a defect.
const (
	InitialEvidenceChars = 1000
	RoundEvidenceChars   = 800
)

// Assembler builds the bounded textual briefing the oracle judges from.
// It is a pure function of its inputs: same case, documents, arguments and
// prior verdict always produce the same briefing.
type Assembler struct {
	initialEvidenceChars int
	roundEvidenceChars   int
}

// NewAssembler creates an assembler with the default truncation budgets.
func NewAssembler() *Assembler {
	return &Assembler{
		initialEvidenceChars: InitialEvidenceChars,
		roundEvidenceChars:   RoundEvidenceChars,
	}
}

// Initial assembles the round-0 briefing. No arguments exist yet by
// construction, and there is no prior verdict.
func (a *Assembler) Initial(c *trial.Case, sideADocs, sideBDocs []trial.Document) string {
	var b strings.Builder

	b.WriteString("You are an AI judge presiding over a mock trial case.\n\n")
	a.writeCaseInfo(&b, c)

	b.WriteString("**CURRENT ROUND:** 0 (Initial Verdict - no arguments yet)\n\n")
	b.WriteString("Your task is to analyze the evidence submitted by both sides and deliver an initial verdict.\n\n")

	fmt.Fprintf(&b, "**SIDE A EVIDENCE:**\n%s\n\n", a.evidenceSection(sideADocs, a.initialEvidenceChars))
	fmt.Fprintf(&b, "**SIDE B EVIDENCE:**\n%s\n\n", a.evidenceSection(sideBDocs, a.initialEvidenceChars))

	b.WriteString(`**INSTRUCTIONS:**
1. Carefully review all evidence from both sides
2. Identify the key legal issues
3. Analyze each issue based on the evidence presented
4. Determine which side has the stronger case
5. Provide reasoning for your decision
6. Assign a confidence score (0.0 to 1.0)

`)
	a.writeOutputFormat(&b, "Brief 2-3 sentence summary of the case", "Detailed reasoning with evidence citations", "Your final verdict with reasoning (3-5 sentences)", "Document titles that were most important")

	return b.String()
}

// Round assembles the briefing for an argument round. The previous verdict
// is included verbatim when present, otherwise marked "N/A".
func (a *Assembler) Round(c *trial.Case, round int, sideADocs, sideBDocs []trial.Document, sideAArgs, sideBArgs []trial.Argument, prev *verdict.Verdict) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an AI judge presiding over a mock trial case. This is Round %d of arguments.\n\n", round)
	a.writeCaseInfo(&b, c)

	fmt.Fprintf(&b, "**CURRENT ROUND:** %d\n\n", round)
	b.WriteString(a.previousVerdictSection(prev))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**SIDE A EVIDENCE:**\n%s\n\n", a.evidenceSection(sideADocs, a.roundEvidenceChars))
	fmt.Fprintf(&b, "**SIDE A ARGUMENTS (Round %d):**\n%s\n\n", round, a.argumentSection(sideAArgs))
	fmt.Fprintf(&b, "**SIDE B EVIDENCE:**\n%s\n\n", a.evidenceSection(sideBDocs, a.roundEvidenceChars))
	fmt.Fprintf(&b, "**SIDE B ARGUMENTS (Round %d):**\n%s\n\n", round, a.argumentSection(sideBArgs))

	b.WriteString(`**INSTRUCTIONS:**
1. Review the previous verdict and the new arguments from both sides
2. Consider how the arguments address or challenge the previous findings
3. Re-evaluate the evidence in light of the new arguments
4. Determine if the arguments change your assessment
5. Update your verdict accordingly
6. Explain what impact (if any) the arguments had on your decision

`)
	a.writeOutputFormat(&b, "Brief 2-3 sentence summary of how this round affected the case", "Detailed reasoning with evidence and argument citations", "Your updated verdict with reasoning (3-5 sentences)", "Document and argument references that were most important")

	return b.String()
}

func (a *Assembler) writeCaseInfo(b *strings.Builder, c *trial.Case) {
	description := c.Description
	if description == "" {
		description = "N/A"
	}
	fmt.Fprintf(b, `**CASE INFORMATION:**
- Title: %s
- Case Number: %s
- Type: %s
- Jurisdiction: %s
- Description: %s

`, c.Title, c.CaseNumber, c.CaseType, c.Jurisdiction, description)
}

func (a *Assembler) evidenceSection(docs []trial.Document, limit int) string {
	sections := make([]string, 0, len(docs))
	for _, d := range docs {
		text := ""
		if d.FullText != nil {
			text = *d.FullText
		}
		sections = append(sections, fmt.Sprintf("**%s** (%s)\n%s", d.Title, d.FileType, truncate(text, limit)))
	}
	return strings.Join(sections, "\n\n")
}

func (a *Assembler) argumentSection(args []trial.Argument) string {
	if len(args) == 0 {
		return "No arguments submitted"
	}
	sections := make([]string, 0, len(args))
	for i, arg := range args {
		sections = append(sections, fmt.Sprintf("**Argument %d:**\n%s", i+1, arg.ArgumentText))
	}
	return strings.Join(sections, "\n\n")
}

func (a *Assembler) previousVerdictSection(prev *verdict.Verdict) string {
	if prev == nil {
		return "N/A"
	}
	return fmt.Sprintf(`
**Previous Verdict (Round %d):**
- Winner: %s
- Confidence: %.2f
- Summary: %s
- Decision: %s
`, prev.Round, prev.Payload.Winner, prev.Payload.ConfidenceScore, prev.Payload.Summary, prev.Payload.FinalDecision)
}

func (a *Assembler) writeOutputFormat(b *strings.Builder, summaryHint, reasoningHint, decisionHint, citedHint string) {
	fmt.Fprintf(b, `**IMPORTANT:** You must respond with ONLY a valid JSON object in the following format:

{
    "summary": "%s",
    "winner": "A" or "B" or "undecided",
    "confidence_score": 0.85,
    "issues": [
        {
            "issue": "Question or issue being decided",
            "finding": "Your finding on this issue",
            "reasoning": "%s"
        }
    ],
    "final_decision": "%s",
    "key_evidence_cited": ["%s"]
}

Provide your verdict as a JSON object only:`, summaryHint, reasoningHint, decisionHint, citedHint)
}

// truncate caps text at limit runes without splitting a multi-byte rune.
func truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
