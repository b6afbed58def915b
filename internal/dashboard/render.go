package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/research-matcher/internal/matching"
	"github.com/spigell/research-matcher/internal/researchapi"
)

const (
	progressWidth     = 30
	genericJobFailure = "Matching failed. Please try again later."
)

// Render writes a text view of the snapshot.
func Render(w io.Writer, s Snapshot) error {
	var b strings.Builder

	switch s.State {
	case Loading:
		b.WriteString("Loading your matches...\n")
	case ProfileMissing:
		b.WriteString("No student profile found.\n")
		b.WriteString("Complete your profile to start getting matched with professors.\n")
	case LoadFailed:
		fmt.Fprintf(&b, "Could not load your dashboard: %v\n", s.LoadErr)
		b.WriteString("Choose Retry to load it again.\n")
	case JobFailed:
		msg := genericJobFailure
		if s.Job != nil && strings.TrimSpace(s.Job.Error) != "" {
			msg = s.Job.Error
		}
		fmt.Fprintf(&b, "Matching failed: %s\n", msg)
		b.WriteString("Choose Retry to reload or Generate to start over.\n")
	case JobInProgress:
		progress := 0
		if s.Job != nil {
			progress = s.Job.Progress
		}
		fmt.Fprintf(&b, "Finding your matches %s %d%%\n", progressBar(progress), progress)
	case Empty:
		b.WriteString("No matches yet.\n")
		b.WriteString("Choose Generate to compute matches for your profile.\n")
	case Populated:
		writeHeader(&b, s)
		for i, match := range s.Matches.Items {
			writeMatch(&b, i+1, match)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func progressBar(progress int) string {
	progress = min(max(progress, 0), 100)
	filled := progress * progressWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}

func writeHeader(b *strings.Builder, s Snapshot) {
	name := "your profile"
	if s.Student != nil && s.Student.DisplayName() != "" {
		name = s.Student.DisplayName()
	}
	fmt.Fprintf(b, "%d matches for %s\n", s.Matches.Len(), name)
}

func writeMatch(b *strings.Builder, rank int, match researchapi.MatchRecord) {
	professor := researchapi.Professor{ID: match.CandidateID()}
	if match.Professor != nil {
		professor = *match.Professor
	}

	name := professor.Name
	if name == "" {
		name = professor.ID
	}

	fmt.Fprintf(b, "\n%d. %s\n", rank, name)
	if affiliation := joinNonEmpty(" / ", professor.Title, professor.Department, professor.Institution); affiliation != "" {
		fmt.Fprintf(b, "   %s\n", affiliation)
	}

	fmt.Fprintf(b, "   Score: %.0f (%s)", match.Score, matching.Strength(match.Score))
	if match.AIScore != nil {
		fmt.Fprintf(b, "  AI score: %.0f", *match.AIScore)
	}
	b.WriteString("\n")

	if len(professor.ResearchAreas) > 0 {
		fmt.Fprintf(b, "   Research areas: %s\n", strings.Join(professor.ResearchAreas, ", "))
	}
	for _, highlight := range match.Highlights {
		fmt.Fprintf(b, "   * %s\n", highlight)
	}
	if explanation := strings.TrimSpace(match.AIExplanation); explanation != "" {
		fmt.Fprintf(b, "   %s\n", explanation)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
