package summary

import (
	"sort"
	"strings"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/pkg/utils"
)

const (
	MaxTopics = 5

	positivePoints = 15
	negativePoints = -10
	maxDelta       = 100
)

// Learning style values.
const (
	FormatStepByStep = "step-by-step"
	FormatExamples   = "examples"
	FormatConcepts   = "concepts"
	Mixed            = "mixed"

	PaceSlow   = "slow"
	PaceMedium = "medium"
	PaceFast   = "fast"

	FeedbackDetailed = "detailed"
	FeedbackBrief    = "brief"
)

type keywordGroup struct {
	name     string
	keywords []string
}

// topicGroups is also the output order of topics.
var topicGroups = []keywordGroup{
	{"html", []string{"html", "tag", "tags", "element", "elements", "div", "semantic", "form"}},
	{"css", []string{"css", "style", "styles", "styling", "flexbox", "flex", "grid", "selector", "margin", "padding", "center"}},
	{"javascript", []string{"javascript", "js", "function", "variable", "dom", "event", "promise", "async", "await", "closure"}},
	{"responsive", []string{"responsive", "media query", "mobile", "breakpoint", "viewport"}},
	{"accessibility", []string{"accessibility", "a11y", "aria", "screen reader", "alt text", "contrast"}},
	{"performance", []string{"performance", "optimize", "optimization", "lazy load", "bundle", "lighthouse"}},
	{"testing", []string{"test", "tests", "testing", "jest", "unit test", "assert"}},
}

var (
	positivePhrases = []string{"got it", "makes sense", "i understand", "that works", "it works", "it worked", "figured it out", "thank you", "thanks", "now i see"}
	negativePhrases = []string{"confused", "don't understand", "doesn't work", "not working", "stuck", "still broken", "error", "lost", "no idea"}
)

var (
	formatPhrases = map[string][]string{
		FormatStepByStep: {"step by step", "walk me through", "steps", "one step"},
		FormatExamples:   {"example", "examples", "show me", "sample", "demo"},
		FormatConcepts:   {"why", "concept", "theory", "how does it work", "under the hood", "explain the idea"},
	}
	pacePhrases = map[string][]string{
		PaceSlow: {"slow down", "too fast", "one at a time", "again", "more slowly"},
		PaceFast: {"skip", "quick", "quickly", "faster", "already know", "tl;dr"},
	}
	feedbackPhrases = map[string][]string{
		FeedbackDetailed: {"in detail", "more detail", "elaborate", "explain more", "thorough", "deep dive"},
		FeedbackBrief:    {"short", "brief", "briefly", "just the answer", "concise", "tl;dr"},
	}
)

// Analysis is the model-free part of a summary.
type Analysis struct {
	Topics        []string
	SkillDeltas   []entity.SkillSignal
	LearningStyle entity.LearningStyle
}

// Analyze derives topics, skill deltas and learning style from a chronological message log.
func Analyze(messages []*entity.ChatMessage) Analysis {
	var all strings.Builder
	var userText strings.Builder
	for _, m := range messages {
		all.WriteString(normalize(m.Content))
		if m.Role == constant.ChatMessageRoleUser {
			userText.WriteString(normalize(m.Content))
		}
	}

	return Analysis{
		Topics:        detectTopics(all.String()),
		SkillDeltas:   skillDeltas(messages),
		LearningStyle: learningStyle(userText.String()),
	}
}

func detectTopics(text string) []string {
	var topics []string
	for _, g := range topicGroups {
		if containsAny(text, g.keywords) != "" {
			topics = append(topics, g.name)
			if len(topics) == MaxTopics {
				break
			}
		}
	}
	return topics
}

// skillDeltas scores user messages. A phrase counts toward the areas the same message
// mentions, or the areas mentioned most recently when it mentions none.
func skillDeltas(messages []*entity.ChatMessage) []entity.SkillSignal {
	scores := make(map[string]*entity.SkillSignal)
	var current []string

	for _, m := range messages {
		text := normalize(m.Content)
		if areas := areasIn(text); len(areas) > 0 {
			current = areas
		}
		if m.Role != constant.ChatMessageRoleUser || len(current) == 0 {
			continue
		}

		delta, evidence := 0, ""
		if p := containsAny(text, positivePhrases); p != "" {
			delta, evidence = positivePoints, p
		}
		if p := containsAny(text, negativePhrases); p != "" {
			delta, evidence = delta+negativePoints, firstNonEmpty(evidence, p)
		}
		if evidence == "" {
			continue
		}

		for _, area := range current {
			s, ok := scores[area]
			if !ok {
				s = &entity.SkillSignal{Skill: area, Evidence: evidence}
				scores[area] = s
			}
			s.ScoreDelta = clamp(s.ScoreDelta + delta)
		}
	}

	out := make([]entity.SkillSignal, 0, len(scores))
	for _, s := range scores {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Skill < out[j].Skill })
	return out
}

func learningStyle(userText string) entity.LearningStyle {
	return entity.LearningStyle{
		PreferredFormat: strongest(userText, formatPhrases, []string{FormatStepByStep, FormatExamples, FormatConcepts}, Mixed),
		Pace:            strongest(userText, pacePhrases, []string{PaceSlow, PaceFast}, PaceMedium),
		FeedbackStyle:   strongest(userText, feedbackPhrases, []string{FeedbackDetailed, FeedbackBrief}, Mixed),
	}
}

// strongest returns the class with the most phrase hits, or fallback on no hits or a tie.
func strongest(text string, phrases map[string][]string, order []string, fallback string) string {
	best, bestHits, tie := fallback, 0, false
	for _, class := range order {
		hits := 0
		for _, p := range phrases[class] {
			hits += strings.Count(text, normalize(p))
		}
		switch {
		case hits > bestHits:
			best, bestHits, tie = class, hits, false
		case hits == bestHits && hits > 0:
			tie = true
		}
	}
	if tie {
		return fallback
	}
	return best
}

func areasIn(text string) []string {
	var areas []string
	for _, g := range topicGroups {
		if containsAny(text, g.keywords) != "" {
			areas = append(areas, g.name)
		}
	}
	return areas
}

// normalize lowercases and reduces text to single-space separated words, padded with
// spaces so phrase lookups match whole words only.
func normalize(s string) string {
	return " " + strings.Join(utils.Words(s), " ") + " "
}

// containsAny returns the first phrase found in normalized text.
func containsAny(text string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(text, normalize(p)) {
			return p
		}
	}
	return ""
}

func clamp(v int) int {
	if v > maxDelta {
		return maxDelta
	}
	if v < -maxDelta {
		return -maxDelta
	}
	return v
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
