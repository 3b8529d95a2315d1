package prompt

import (
	"fmt"
	"strings"

	"ai-tutor-be/internal/entity"
)

const (
	RecentMessageLimit = 6
	DocumentLimit      = 3

	summaryLabel   = "SESSION SUMMARY:"
	skillsLabel    = "SKILL PROGRESS:"
	recentLabel    = "RECENT CONVERSATION:"
	documentsLabel = "RELEVANT DOCUMENTATION:"
	questionLabel  = "CURRENT QUESTION:"
)

// Sections is everything that can appear in an enriched prompt.
type Sections struct {
	Summary   string
	Skills    []entity.SkillSignal
	Recent    []*entity.ChatMessage // oldest first
	Documents []*entity.ScoredChunk // best first
	Question  string
}

// Format renders the sections in a fixed order, blank-line separated. Empty sections are left out.
func Format(s Sections) string {
	var blocks []string

	if summary := strings.TrimSpace(s.Summary); summary != "" {
		blocks = append(blocks, summaryLabel+"\n"+summary)
	}

	if len(s.Skills) > 0 {
		lines := make([]string, len(s.Skills))
		for i, sk := range s.Skills {
			lines[i] = fmt.Sprintf("- %s: %+d", sk.Skill, sk.ScoreDelta)
			if sk.Evidence != "" {
				lines[i] += fmt.Sprintf(" (%q)", sk.Evidence)
			}
		}
		blocks = append(blocks, skillsLabel+"\n"+strings.Join(lines, "\n"))
	}

	if recent := lastMessages(s.Recent, RecentMessageLimit); len(recent) > 0 {
		lines := make([]string, len(recent))
		for i, m := range recent {
			lines[i] = m.Role + ": " + m.Content
		}
		blocks = append(blocks, recentLabel+"\n"+strings.Join(lines, "\n"))
	}

	if docs := topDocuments(s.Documents, DocumentLimit); len(docs) > 0 {
		lines := make([]string, len(docs))
		for i, d := range docs {
			lines[i] = fmt.Sprintf("[%d] %s/%s\n%s", i+1, d.Chunk.Source, d.Chunk.SourceId, d.Chunk.Text)
		}
		blocks = append(blocks, documentsLabel+"\n"+strings.Join(lines, "\n\n"))
	}

	blocks = append(blocks, questionLabel+" "+s.Question)
	return strings.Join(blocks, "\n\n")
}

func lastMessages(msgs []*entity.ChatMessage, n int) []*entity.ChatMessage {
	if len(msgs) > n {
		return msgs[len(msgs)-n:]
	}
	return msgs
}

func topDocuments(docs []*entity.ScoredChunk, n int) []*entity.ScoredChunk {
	if len(docs) > n {
		return docs[:n]
	}
	return docs
}
