// Package render turns a computed board into the console layout the
// assistant has always printed. Pure string building; the engine stays
// presentation-free.
package render

import (
	"fmt"
	"strings"

	"github.com/warroom-labs/draftboard/internal/models"
)

const bannerWidth = 72

// Options tunes one rendering. Top caps the printed entries; zero prints
// the board's whole top view.
type Options struct {
	Top int
}

// FormatBoard renders the ranked board and scarcity summary as text.
func FormatBoard(board models.Board, settings models.LeagueSettings, opts Options) string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)
	rule := "  " + strings.Repeat("-", bannerWidth-4)

	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "  FANTASY DRAFT ASSISTANT -- %s %s League\n",
		strings.ToUpper(string(settings.Sport)), formatLabel(settings.Format))
	if board.Round > 0 {
		fmt.Fprintf(&b, "  Round %d, Pick %d\n", board.Round, board.Pick)
	}
	b.WriteString(banner + "\n\n")

	entries := board.Top
	if opts.Top > 0 && opts.Top < len(entries) {
		entries = entries[:opts.Top]
	}

	b.WriteString("  BEST AVAILABLE PLAYERS\n")
	b.WriteString(rule + "\n")

	if len(entries) == 0 {
		b.WriteString("  No players available.\n")
	}

	for i, rec := range entries {
		var tag string
		if rec.Sleeper {
			tag += " [SLEEPER]"
		}
		if rec.FillsNeed {
			tag += " [NEED]"
		}

		fmt.Fprintf(&b, "  %2d. %s (%s, %s) -- VOR: %+.1f%s\n",
			i+1, rec.Player.Name, strings.Join(rec.Player.Positions, "/"), rec.Player.Team, rec.VOR, tag)
		fmt.Fprintf(&b, "      Value: %.1f\n", rec.FantasyValue)

		if rec.Trend.Direction != models.TrendSteady {
			fmt.Fprintf(&b, "      Last %d: %s %.0f%% from season avg\n",
				settings.TrendWindow, rec.Trend.Direction, pctAbs(rec.Trend.DeltaPct))
		}

		for _, note := range rec.Rationale.Notes {
			fmt.Fprintf(&b, "      >> %s\n", note)
		}

		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString("  POSITIONAL SCARCITY\n\n")
	for _, s := range board.Scarcity {
		fmt.Fprintf(&b, "    %-3s: %2d quality options (%s)\n", s.Position, s.QualityCount, s.Tier)
	}

	b.WriteString("\n" + banner + "\n")
	return b.String()
}

// formatLabel capitalizes the league format for the header.
func formatLabel(format models.Format) string {
	switch format {
	case models.FormatH2H:
		return "H2H"
	case "":
		return ""
	}
	s := string(format)
	return strings.ToUpper(s[:1]) + s[1:]
}

func pctAbs(delta float64) float64 {
	pct := delta * 100
	if pct < 0 {
		return -pct
	}
	return pct
}
