// Package report renders a case transcript as markdown and HTML.
package report

import (
	"fmt"
	"strings"

	"tribunal/domain/trial"
	"tribunal/domain/verdict"
	"tribunal/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Input collects everything a case report covers.
type Input struct {
	Case      *trial.Case
	Counts    *ports.CaseCounts
	Documents []trial.Document
	Arguments []trial.Argument
	Verdicts  []verdict.Verdict
}

// Markdown renders the full case report as markdown.
func Markdown(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Case Report: %s\n\n", in.Case.Title)
	fmt.Fprintf(&b, "**Case Number:** %s  \n", in.Case.CaseNumber)
	fmt.Fprintf(&b, "**Type:** %s  \n", in.Case.CaseType)
	fmt.Fprintf(&b, "**Jurisdiction:** %s  \n", in.Case.Jurisdiction)
	fmt.Fprintf(&b, "**Status:** %s  \n", in.Case.Status)
	fmt.Fprintf(&b, "**Round:** %d of %d\n\n", in.Case.CurrentRound, in.Case.MaxRounds)

	if in.Counts != nil {
		fmt.Fprintf(&b, "**Record:** %d documents (Side A: %d, Side B: %d), %d arguments, %d verdicts\n\n",
			in.Counts.Documents, in.Counts.SideADocs, in.Counts.SideBDocs, in.Counts.Arguments, in.Counts.Verdicts)
	}

	if in.Case.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", in.Case.Description)
	}

	b.WriteString("## Evidence\n\n")
	if len(in.Documents) == 0 {
		b.WriteString("No documents submitted.\n\n")
	} else {
		sideA, sideB := trial.SplitBySide(in.Documents)
		writeDocumentList(&b, "Side A", sideA)
		writeDocumentList(&b, "Side B", sideB)
	}

	b.WriteString("## Arguments\n\n")
	if len(in.Arguments) == 0 {
		b.WriteString("No arguments submitted.\n\n")
	} else {
		for _, a := range in.Arguments {
			fmt.Fprintf(&b, "### Round %d, Side %s\n\n%s\n\n", a.Round, a.Side, a.ArgumentText)
		}
	}

	b.WriteString("## Verdicts\n\n")
	if len(in.Verdicts) == 0 {
		b.WriteString("No verdicts issued.\n\n")
	} else {
		for _, v := range in.Verdicts {
			writeVerdict(&b, v)
		}
	}

	return b.String()
}

// HTML renders the full case report as an HTML document body.
func HTML(in Input) []byte {
	md := []byte(Markdown(in))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func writeDocumentList(b *strings.Builder, label string, docs []trial.Document) {
	fmt.Fprintf(b, "### %s\n\n", label)
	if len(docs) == 0 {
		b.WriteString("No documents.\n\n")
		return
	}
	for _, d := range docs {
		line := fmt.Sprintf("- **%s** (%s, %s)", d.Title, d.FileType, d.Status)
		if d.WordCount != nil {
			line += fmt.Sprintf(", %d words", *d.WordCount)
		}
		if d.Status == trial.DocFailed && d.ErrorMessage != nil {
			line += fmt.Sprintf(" (failed: %s)", *d.ErrorMessage)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func writeVerdict(b *strings.Builder, v verdict.Verdict) {
	label := "Round " + fmt.Sprint(v.Round)
	if v.Round == 0 {
		label = "Initial Verdict"
	}
	fmt.Fprintf(b, "### %s\n\n", label)
	fmt.Fprintf(b, "**Winner:** Side %s  \n", v.Payload.Winner)
	fmt.Fprintf(b, "**Confidence:** %.0f%%\n\n", v.Payload.ConfidenceScore*100)
	fmt.Fprintf(b, "%s\n\n", v.Payload.Summary)

	if len(v.Payload.Issues) > 0 {
		b.WriteString("**Issues:**\n\n")
		for _, issue := range v.Payload.Issues {
			fmt.Fprintf(b, "- *%s*: %s. %s\n", issue.Issue, issue.Finding, issue.Reasoning)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "**Decision:** %s\n\n", v.Payload.FinalDecision)

	if len(v.Payload.KeyEvidenceCited) > 0 {
		fmt.Fprintf(b, "**Key Evidence:** %s\n\n", strings.Join(v.Payload.KeyEvidenceCited, "; "))
	}
}
