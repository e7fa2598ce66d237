package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Renderer writes results as JSON, Markdown or a terminal summary
type Renderer struct {
	includeTrace bool
	out          io.Writer
}

// NewRenderer creates a renderer that prints summaries to stdout
func NewRenderer(includeTrace bool) *Renderer {
	return &Renderer{includeTrace: includeTrace, out: os.Stdout}
}

// RenderJSON writes the result as indented JSON
func (r *Renderer) RenderJSON(result *model.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(result *model.Result, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(result)), 0644)
}

// Markdown formats the result as a Markdown report
func (r *Renderer) Markdown(result *model.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Coreference chains: %s\n\n", result.DocumentID)
	fmt.Fprintf(&b, "- Run: `%s`\n", result.RunID)
	fmt.Fprintf(&b, "- Mentions: %d surviving of %d\n", result.Stats.Surviving, result.Stats.InputMentions)
	fmt.Fprintf(&b, "- Chains: %d\n\n", len(result.Chains))

	b.WriteString("## Chains\n\n")
	if len(result.Chains) == 0 {
		b.WriteString("_No multi-mention chains._\n\n")
	} else {
		b.WriteString("| # | Name | Size | Signature | Mentions |\n")
		b.WriteString("|---|------|------|-----------|----------|\n")
		for _, c := range result.Chains {
			ids := make([]string, len(c.Mentions))
			for i, id := range c.Mentions {
				ids[i] = fmt.Sprint(id)
			}
			fmt.Fprintf(&b, "| %d | %s | %d | `%s` | %s |\n", c.ID, c.Name, c.Size, c.Signature, strings.Join(ids, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Diagnostics\n\n")
	for _, s := range result.Diagnostics.Signals {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Type, s.Severity, s.Description)
	}
	b.WriteString("\n")

	if r.includeTrace && len(result.Trace) > 0 {
		b.WriteString("## Rule trace\n\n")
		b.WriteString("| Rule | Mention | Antecedent |\n")
		b.WriteString("|------|---------|------------|\n")
		for _, rec := range result.Trace {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", rec.Rule, rec.Mention, rec.Antecedent)
		}
		b.WriteString("\n")
	}

	if len(result.Consumed) > 0 {
		b.WriteString("## Filtered mentions\n\n")
		for _, c := range result.Consumed {
			if c.ReplacedBy != nil {
				fmt.Fprintf(&b, "- %d: %s (now %d)\n", c.ID, c.Reason, *c.ReplacedBy)
			} else {
				fmt.Fprintf(&b, "- %d: %s\n", c.ID, c.Reason)
			}
		}
	}

	return b.String()
}

// RenderSummary prints a short overview
func (r *Renderer) RenderSummary(result *model.Result) {
	fmt.Fprintf(r.out, "Document: %s\n", result.DocumentID)
	fmt.Fprintf(r.out, "Chains:   %d (%d mentions kept, %d filtered)\n",
		len(result.Chains), result.Stats.Surviving, len(result.Consumed))
	for _, c := range result.Chains {
		fmt.Fprintf(r.out, "  [%d] %-18s size=%d %s\n", c.ID, c.Name, c.Size, c.Signature)
	}
	if result.Diagnostics.Degraded {
		fmt.Fprintln(r.out, "⚠️  Degraded input:")
		for _, s := range result.Diagnostics.Signals {
			if s.Severity != model.SeverityInfo {
				fmt.Fprintf(r.out, "   - %s\n", s.Description)
			}
		}
	}
}
