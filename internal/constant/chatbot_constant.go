package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// SummaryMarker prefixes a session summary whenever it is placed in a message list,
	// so it can never be mistaken for an ordinary system message.
	SummaryMarker = "[SESSION SUMMARY]"

	// FallbackReply is returned to the user when the completion provider keeps failing.
	FallbackReply = "I'm having trouble reaching my knowledge service right now. Please try again in a moment, and feel free to share any code or error messages you're working with."

	// SummaryFallback is stored when the summary completion call fails.
	SummaryFallback = "The student has been practicing web development concepts in this session."

	TutorSystemPromptV1 = `You are a patient, encouraging web development tutor.
You help students learn HTML, CSS, JavaScript, responsive design, accessibility, performance and testing.

Guidelines:
- Adapt explanations to the student's current skill level and learning style when it is provided
- Prefer short runnable examples over long theory
- When the student shares an error, explain the cause before giving the fix
- Use the reference documentation when it is relevant and say so
- Keep answers focused; ask a clarifying question when the request is ambiguous`

	SummaryInstruction = `Summarize this tutoring session in 2-3 sentences. Cover:
- what the student practiced
- their current skill level
- challenges or breakthroughs
- the learning style you observed
Respond with the summary only.`
)

// Ollama defaults
const (
	OllamaDefaultBaseURL = "http://localhost:11434"
	OllamaDefaultModel   = "llama3.1:8b"
)
