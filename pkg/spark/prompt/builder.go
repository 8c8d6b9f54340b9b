package prompt

import (
	"fmt"
	"strings"
	"time"

	"spark-journal-be/pkg/spark"
)

// GenerationBuilder builds the prompt asking the model to draft spark
// candidates against retrieved evidence.
type GenerationBuilder struct {
	paragraph string
	entryDate time.Time
	memories  []spark.EvidenceItem
	tuning    spark.TuningSettings
}

func NewGenerationBuilder(paragraph string, entryDate time.Time, evidence []spark.EvidenceItem, tuning spark.TuningSettings) *GenerationBuilder {
	return &GenerationBuilder{
		paragraph: paragraph,
		entryDate: entryDate,
		memories:  evidence,
		tuning:    tuning,
	}
}

func (b *GenerationBuilder) Build() string {
	if b.tuning.PromptOverride != "" {
		return b.tuning.PromptOverride + "\n\n" + b.buildContext()
	}

	var prompt strings.Builder

	b.writeTask(&prompt)
	prompt.WriteString(b.buildContext())
	b.writeOutputFormat(&prompt)

	if b.tuning.PromptAddendum != "" {
		prompt.WriteString("\n")
		prompt.WriteString(b.tuning.PromptAddendum)
		prompt.WriteString("\n")
	}

	return prompt.String()
}

func (b *GenerationBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You read a journal paragraph someone just wrote and their related past memories.\n")
	prompt.WriteString("Draft 0-3 short margin observations (\"sparks\") worth showing next to the paragraph.\n")
	prompt.WriteString("Each spark is one of three types:\n")
	prompt.WriteString("- tension: the paragraph pulls against something they recorded before\n")
	prompt.WriteString("- callback: a concrete earlier moment this paragraph echoes\n")
	prompt.WriteString("- eyebrow_raise: a pattern worth a second look, stated lightly\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GenerationBuilder) buildContext() string {
	var ctx strings.Builder

	ctx.WriteString("<paragraph>\n")
	ctx.WriteString(fmt.Sprintf("Entry date: %s\n", b.entryDate.Format("2006-01-02")))
	ctx.WriteString(b.paragraph)
	ctx.WriteString("\n</paragraph>\n\n")

	memCount := 0
	impCount := 0

	ctx.WriteString("<memories>\n")
	for _, item := range b.memories {
		if item.IsImplication {
			if impCount >= b.tuning.MaxImplicationsContext {
				continue
			}
			impCount++
			ctx.WriteString(fmt.Sprintf("- [implication, id=%s] %s\n", item.Id, item.Snippet))
			continue
		}
		if memCount >= b.tuning.MaxMemoriesContext {
			continue
		}
		memCount++
		ctx.WriteString(fmt.Sprintf("- [memory, id=%s, date=%s, activation=%.2f] %s\n",
			item.Id, item.Date.Format("2006-01-02"), item.ActivationScore, item.Snippet))
	}
	ctx.WriteString("</memories>\n\n")

	return ctx.String()
}

func (b *GenerationBuilder) writeOutputFormat(prompt *strings.Builder) {
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Reply with ONLY a JSON array. Each element:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"type\": \"tension\" | \"callback\" | \"eyebrow_raise\",\n")
	prompt.WriteString(fmt.Sprintf("  \"hook\": \"<= %d words, the observation itself\",\n", spark.MaxHookWords))
	prompt.WriteString(fmt.Sprintf("  \"why_now\": \"<= %d words, why it matters for this paragraph\",\n", spark.MaxWhyNowWords))
	prompt.WriteString(fmt.Sprintf("  \"action_prompt\": \"<= %d words, a gentle next step\",\n", spark.MaxActionWords))
	prompt.WriteString("  \"evidence_memory_id\": \"id of the one memory this is grounded in\",\n")
	prompt.WriteString("  \"evidence_memory_date\": \"YYYY-MM-DD of that memory\",\n")
	prompt.WriteString("  \"evidence_memory_snippet\": \"short quote from that memory\",\n")
	prompt.WriteString("  \"confidence\": 0.0-1.0\n")
	prompt.WriteString("}\n\n")
	prompt.WriteString("Rules:\n")
	prompt.WriteString("1. Every spark MUST be grounded in exactly one listed memory. No memory, no spark.\n")
	prompt.WriteString("2. Return [] if nothing is genuinely worth saying. Silence beats filler.\n")
	prompt.WriteString("3. No preamble, no markdown fences, just the array.\n")
	prompt.WriteString("</output_format>\n")
}

// JudgeBuilder builds the prompt asking the model to score drafted candidates.
type JudgeBuilder struct {
	paragraph  string
	candidates []spark.CandidateDraft
}

func NewJudgeBuilder(paragraph string, candidates []spark.CandidateDraft) *JudgeBuilder {
	return &JudgeBuilder{
		paragraph:  paragraph,
		candidates: candidates,
	}
}

func (b *JudgeBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("Score each drafted margin observation against the paragraph it annotates.\n")
	prompt.WriteString("Be strict: generic or ungrounded drafts score low.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<paragraph>\n")
	prompt.WriteString(b.paragraph)
	prompt.WriteString("\n</paragraph>\n\n")

	prompt.WriteString("<candidates>\n")
	for i, c := range b.candidates {
		prompt.WriteString(fmt.Sprintf("%d. [%s] hook=%q why_now=%q action=%q evidence=%q\n",
			i, c.Type, c.Hook, c.WhyNow, c.ActionPrompt, c.EvidenceMemorySnippet))
	}
	prompt.WriteString("</candidates>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Reply with ONLY a JSON array, one element per candidate, in order:\n")
	prompt.WriteString("{\"index\": <candidate number>, \"tension\": 0-5, \"actionability\": 0-5, \"novelty\": 0-5, \"specificity\": 0-5, \"overall_utility\": 0-5}\n")
	prompt.WriteString("Scoring axes:\n")
	prompt.WriteString("- tension: does it surface a real pull between now and then\n")
	prompt.WriteString("- actionability: could the writer actually do something with it\n")
	prompt.WriteString("- novelty: would this genuinely be news to the writer\n")
	prompt.WriteString("- specificity: names concrete people, dates, events, not vibes\n")
	prompt.WriteString("- overall_utility: worth interrupting the writing for\n")
	prompt.WriteString("</output_format>\n")

	return prompt.String()
}
