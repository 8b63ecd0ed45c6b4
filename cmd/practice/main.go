// Command practice runs a mock interview in the terminal without a server.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stemsi/mockview-backend/internal/config"
	"github.com/stemsi/mockview-backend/internal/evaluator"
	"github.com/stemsi/mockview-backend/internal/logger"
	"github.com/stemsi/mockview-backend/internal/metrics"
	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/internal/repository"
	"github.com/stemsi/mockview-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	var (
		category   string
		difficulty string
		count      int
		title      string
	)
	flag.StringVar(&category, "category", "technical", "Question category: technical, behavioral or leadership")
	flag.StringVar(&difficulty, "difficulty", "intermediate", "Difficulty: beginner, intermediate, advanced or expert")
	flag.IntVar(&count, "count", 0, "Number of questions (0 uses DEFAULT_QUESTION_COUNT)")
	flag.StringVar(&title, "title", "", "Interview title")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// Logs go to stderr so they do not interleave with the transcript.
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	cat, diff := model.Category(category), model.Difficulty(difficulty)
	if !cat.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown category %q\n", category)
		os.Exit(2)
	}
	if !diff.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", difficulty)
		os.Exit(2)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	catalog, err := repository.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load question catalog")
	}
	questionService := service.NewQuestionService(repository.NewQuestionRepository(catalog), cfg.DefaultQuestionCount)

	m := metrics.NewNop()
	var primary evaluator.Evaluator
	if cfg.EvaluatorEnabled() {
		primary = evaluator.NewRemote(cfg.EvaluatorURL, cfg.EvaluatorAPIKey, cfg.EvaluatorTimeout)
	}
	controller := service.NewInterviewController("local", service.ControllerDeps{
		Evaluator: evaluator.WithFallback(primary, m, log),
		Guard:     evaluator.NewMemoryGuard(),
		Events:    service.NopPublisher{},
		Metrics:   m,
		Log:       log,
	})

	session := &practiceSession{
		ctx:         context.Background(),
		controller:  controller,
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		width:       terminalWidth(),
	}

	iv := controller.Start(session.ctx, questionService.CreateInterview(title, "", cat, diff, count))
	if err := session.run(iv); err != nil && !errors.Is(err, io.EOF) {
		log.Fatal().Err(err).Msg("Practice session failed")
	}
}

// terminalWidth returns the stdout width, or a fixed fallback when stdout
// is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

const defaultWidth = 80

type practiceSession struct {
	ctx         context.Context
	controller  *service.InterviewController
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	width       int
}

const helpText = `Type your answer and press Enter. Commands:
  :next      skip to the next question
  :prev      go back one question
  :done      finish the interview
  :quit      leave without finishing
`

func (s *practiceSession) run(iv *model.Interview) error {
	fmt.Fprintln(s.out, rule(s.width))
	fmt.Fprintln(s.out, iv.Title)
	fmt.Fprintln(s.out, wrap(iv.Description, s.width))
	fmt.Fprintln(s.out, rule(s.width))
	if s.interactive {
		fmt.Fprint(s.out, helpText)
	}

	for {
		iv = s.controller.Current()
		if iv == nil || iv.Status() != model.InterviewStatusActive {
			return nil
		}
		q, _ := iv.CurrentQuestion()
		p := iv.Progress()

		fmt.Fprintf(s.out, "\nQuestion %d of %d [%s]\n", p.Current+1, p.Total, q.Difficulty)
		fmt.Fprintln(s.out, wrap(q.Text, s.width))
		if prev, ok := iv.AnswerFor(q.ID); ok {
			fmt.Fprintf(s.out, "(previous answer: %s)\n", prev.Text)
		}
		if s.interactive {
			fmt.Fprint(s.out, "> ")
		}

		line, err := s.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line == "" {
			return err
		}

		switch line {
		case "":
			continue
		case ":quit":
			s.controller.Reset(s.ctx)
			fmt.Fprintln(s.out, "Interview abandoned.")
			return nil
		case ":next":
			s.controller.Next(s.ctx)
			continue
		case ":prev":
			s.controller.Previous(s.ctx)
			continue
		case ":done":
			if !iv.AllAnswered() {
				fmt.Fprintf(s.out, "Answer every question first (%d of %d answered).\n", p.AnsweredCount, p.Total)
				continue
			}
			return s.finish()
		}

		answer, updated, err := s.controller.SubmitAnswer(s.ctx, q.ID, line)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		if answer != nil {
			s.printAnswer(*answer)
		}
		if updated == nil {
			continue
		}
		if updated.AllAnswered() && updated.Progress().IsLast {
			return s.finish()
		}
		if !updated.Progress().IsLast {
			s.controller.Next(s.ctx)
		}
	}
}

func (s *practiceSession) printAnswer(a model.Answer) {
	if a.Score == nil {
		return
	}
	fmt.Fprintf(s.out, "Score: %d/100 (%s)\n", *a.Score, model.TierFor(*a.Score))
	if a.Feedback != nil {
		fmt.Fprintln(s.out, wrap(*a.Feedback, s.width))
	}
}

func (s *practiceSession) finish() error {
	if _, err := s.controller.CompleteIfAllAnswered(s.ctx); err != nil {
		return err
	}
	report := s.controller.Report()
	if report == nil {
		return nil
	}
	writeReport(s.out, report, s.width)
	return nil
}

func writeReport(w io.Writer, r *model.InterviewReport, width int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule(width))
	fmt.Fprintf(w, "%s: %d/100 (%s)\n", r.Title, r.OverallScore, r.OverallTier)
	fmt.Fprintln(w, wrap(r.OverallFeedback, width))
	fmt.Fprintln(w, rule(width))
	for _, row := range r.Questions {
		fmt.Fprintf(w, "%d. %s\n", row.Number, wrap(row.Question.Text, width))
		if row.Answer == nil || row.Answer.Score == nil {
			fmt.Fprintln(w, "   not answered")
			continue
		}
		fmt.Fprintf(w, "   score %d (%s)\n", *row.Answer.Score, row.Tier)
		if len(row.Question.ExpectedKeywords) > 0 {
			fmt.Fprintf(w, "   keywords: %s\n", strings.Join(row.Question.ExpectedKeywords, ", "))
		}
	}
}

func rule(width int) string {
	return strings.Repeat("─", min(width, defaultWidth))
}

// wrap breaks text on spaces so no line exceeds width runes where possible.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		n := len([]rune(word))
		if i > 0 {
			if lineLen+1+n > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += n
	}
	return b.String()
}
