package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/ui/components"
	"github.com/abhisek/vastu/internal/ui/layout"
	"github.com/abhisek/vastu/internal/ui/theme"
	"github.com/abhisek/vastu/internal/wizard"
)

func progressLabel(step, total int) string {
	return fmt.Sprintf("%d/%d", step, total)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var content string
	switch s.ctrl.State().Phase {
	case wizard.PhaseWelcome:
		content = s.renderWelcome(cw)
	case wizard.PhaseInProgress:
		content = s.renderQuestion(cw)
	case wizard.PhaseContact:
		content = s.renderContact(cw)
	case wizard.PhaseCompleted:
		content = s.renderResult(cw)
	}
	return components.Center(content, width, height)
}

func (s *Screen) renderWelcome(cw int) string {
	optional := s.catalog.OptionalCount()
	intro := fmt.Sprintf(
		"%d questions about the layout of your home. Answer each with Yes, No or Not Applicable.\n\n"+
			"%d of them are optional: choose Not Applicable when they don't fit your home and "+
			"they are left out of the score.",
		s.catalog.Len(), optional)

	body := strings.Join([]string{
		theme.Title.Width(cw - 6).Render("Vastu Self-Assessment"),
		"",
		theme.Body.Render(layout.Wrap(intro, cw-6)),
		"",
		components.Button{Label: "Begin", Focused: true}.View(),
	}, "\n")
	return components.Card(body, cw)
}

func (s *Screen) renderQuestion(cw int) string {
	q, ok := s.ctrl.State().Current(s.catalog)
	if !ok {
		return ""
	}

	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", s.ctrl.State().Step+1, s.catalog.Len()),
		s.ctrl.State().Progress(s.catalog), true, cw,
	).View()

	heading := theme.Hint.Render(q.Section)
	if q.Optional {
		heading += "  " + lipgloss.NewStyle().Foreground(theme.Warning).Render("optional")
	}

	var nav []string
	if s.ctrl.State().CanPrev() {
		nav = append(nav, theme.Hint.Render("← previous"))
	}
	if s.ctrl.State().CanNext(s.catalog) {
		label := "next →"
		if s.ctrl.State().IsLastStep(s.catalog) {
			label = "your details →"
		}
		nav = append(nav, theme.Hint.Render(label))
	}

	body := strings.Join([]string{
		heading,
		"",
		theme.Body.Bold(true).Render(layout.Wrap(q.Text, cw-6)),
		"",
		s.choice.View(),
		strings.Join(nav, "    "),
	}, "\n")

	return bar + "\n\n" + components.Card(body, cw)
}

func (s *Screen) renderContact(cw int) string {
	parts := []string{
		theme.Title.Width(cw - 6).Render("Where should we send your report?"),
		theme.Subtitle.Width(cw - 6).Render("All questions answered. Your score is computed when you submit."),
		"",
	}
	for _, f := range s.fields {
		parts = append(parts, f.View(), "")
	}
	parts = append(parts, components.Button{Label: "See my result", Focused: s.focus == focusSubmit}.View())
	return components.Card(strings.Join(parts, "\n"), cw)
}

func (s *Screen) renderResult(cw int) string {
	r := s.ctrl.State().Result
	if r == nil {
		return ""
	}

	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.GradeColor(r.Grade)).
		Padding(0, 2).
		Render("Grade " + string(r.Grade))

	score := theme.Body.Render(fmt.Sprintf("%d%%  ·  %d of %d scored answers positive",
		r.ScorePercent, r.UserScore, r.TotalAnswered))

	parts := []string{
		lipgloss.PlaceHorizontal(cw-6, lipgloss.Center, badge),
		lipgloss.PlaceHorizontal(cw-6, lipgloss.Center, score),
		"",
		theme.Body.Render(layout.Wrap(r.Interpretation, cw-6)),
		"",
		s.renderSendStatus(),
	}
	if s.bookingURL != "" {
		parts = append(parts, "", theme.Hint.Render("Book a consultation: "+s.bookingURL))
	}
	return components.Card(strings.Join(parts, "\n"), cw)
}

func (s *Screen) renderSendStatus() string {
	switch s.ctrl.State().SendStatus {
	case wizard.SendLoading:
		return theme.Hint.Render("Sending your report to " + s.ctrl.State().Respondent.Email + "...")
	case wizard.SendSuccess:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("Report sent to " + s.ctrl.State().Respondent.Email)
	case wizard.SendError:
		return theme.ErrorText.Render("We couldn't email your report: " + s.ctrl.State().SendError)
	}
	return ""
}

// gradeLabel is the header status once a result exists.
func gradeLabel(r *questionnaire.Result) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s (%d%%)", r.Grade, r.ScorePercent)
}
