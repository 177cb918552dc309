// Package agent orchestrates the response pipeline: prompt context assembly,
// the two-tier generator, and the boundary operations the HTTP layer calls.
package agent

import (
	"strings"

	"github.com/mindwellhq/mindwell/pkg/knowledge"
	"github.com/mindwellhq/mindwell/pkg/profile"
	"github.com/mindwellhq/mindwell/pkg/providers"
)

// HistoryMessage is one prior turn as supplied by the caller.
type HistoryMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// PromptContext is the bounded multi-source payload handed to generation.
// Built once per request, never persisted.
type PromptContext struct {
	ProfileSummary   string
	RetrievalSummary string
	HistorySummary   string
	Message          string
}

const systemPersona = `You are Mindwell, a compassionate mental wellness assistant.
Your goal is to provide supportive, evidence-based responses to help users with their mental wellbeing.
Be empathetic, non-judgmental, and focus on active listening and validation.
Never provide medical diagnoses or replace professional mental health care.`

const responseGuidelines = `When responding to the user:
1. Show empathy and understanding
2. Ask follow-up questions to better understand their situation when appropriate
3. Provide practical, evidence-based suggestions
4. Encourage self-care and healthy coping strategies
5. Suggest professional help when appropriate
6. Keep responses concise, warm, and conversational`

// AssemblePromptContext merges profile, retrieved snippets, and history into
// a prompt context. Purely functional: deterministic, no I/O, no mutation.
func AssemblePromptContext(message string, prof profile.Profile, snippets []knowledge.Snippet, history []HistoryMessage) PromptContext {
	return PromptContext{
		ProfileSummary:   summarizeProfile(prof),
		RetrievalSummary: summarizeSnippets(snippets),
		HistorySummary:   summarizeHistory(history),
		Message:          message,
	}
}

// Messages renders the context as the chat payload: the persona, context
// sections, and guidelines as the system message, the raw message as the
// user message.
func (pc PromptContext) Messages() []providers.Message {
	var b strings.Builder
	b.WriteString(systemPersona)
	b.WriteString("\n\nUSER PROFILE:\n")
	b.WriteString(pc.ProfileSummary)
	b.WriteString("\n\nRELEVANT WELLBEING INFORMATION:\n")
	b.WriteString(pc.RetrievalSummary)
	b.WriteString("\n\nCONVERSATION HISTORY:\n")
	b.WriteString(pc.HistorySummary)
	b.WriteString("\n\n")
	b.WriteString(responseGuidelines)

	return []providers.Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: pc.Message},
	}
}

// summarizeProfile renders only populated, human-meaningful fields, one per
// line. Empty fields are omitted entirely.
func summarizeProfile(prof profile.Profile) string {
	lines := []string{}
	if prof.Name != "" {
		lines = append(lines, "User's name: "+prof.Name)
	}
	if prof.FeelingToday != "" {
		lines = append(lines, "User's recent feeling: "+prof.FeelingToday)
	}
	if prof.SleepQuality != "" {
		lines = append(lines, "User's sleep quality: "+prof.SleepQuality)
	}
	if prof.StressLevel != "" {
		lines = append(lines, "User's stress level: "+prof.StressLevel)
	}
	return strings.Join(lines, "\n")
}

// summarizeSnippets concatenates snippet texts in relevance order, separated
// by a blank line.
func summarizeSnippets(snippets []knowledge.Snippet) string {
	texts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, "\n\n")
}

// summarizeHistory renders prior turns in chronological arrival order. The
// caller is responsible for trimming history length beforehand.
func summarizeHistory(history []HistoryMessage) string {
	var b strings.Builder
	for _, msg := range history {
		sender := "Assistant"
		if msg.Sender == "user" {
			sender = "User"
		}
		b.WriteString(sender)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}
