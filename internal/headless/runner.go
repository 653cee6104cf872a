// Package headless runs single learning actions for the command line.
// Results go to Out; progress and hints go to Err.
package headless

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeanpaul/learnsimply/internal/app"
	"github.com/jeanpaul/learnsimply/internal/history"
	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/quiz"
	"github.com/jeanpaul/learnsimply/internal/quote"
	"github.com/jeanpaul/learnsimply/internal/types"
	"github.com/jeanpaul/learnsimply/internal/vocab"
)

type Runner struct {
	App *app.App
	Out io.Writer
	Err io.Writer
	In  io.Reader
	// Pretty renders markdown through glamour instead of printing it raw.
	Pretty bool
}

func New(a *app.App) *Runner {
	return &Runner{App: a, Out: os.Stdout, Err: os.Stderr, In: os.Stdin}
}

func (r *Runner) markdown(md string) {
	if r.Pretty {
		if out, err := glamour.Render(md, "dark"); err == nil {
			fmt.Fprint(r.Out, out)
			return
		}
	}
	fmt.Fprintln(r.Out, md)
}

func (r *Runner) status(format string, args ...any) {
	fmt.Fprintf(r.Err, format+"\n", args...)
}

func (r *Runner) Signup(ctx context.Context, email, password string) error {
	u, err := r.App.Identity.Signup(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "Signed up and logged in as %s%s\n", u.Email, adminSuffix(u))
	return nil
}

func (r *Runner) Login(ctx context.Context, email, password string) error {
	u, err := r.App.Identity.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "Logged in as %s%s\n", u.Email, adminSuffix(u))
	return nil
}

func (r *Runner) Logout(ctx context.Context) error {
	if err := r.App.Identity.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.Out, "Logged out")
	return nil
}

func (r *Runner) WhoAmI(ctx context.Context) error {
	u, ok := r.App.Identity.CurrentUser(ctx)
	if !ok {
		return app.ErrNotSignedIn
	}
	fmt.Fprintf(r.Out, "%s%s\n", u.Email, adminSuffix(u))
	return nil
}

func adminSuffix(u types.User) string {
	if u.IsAdmin {
		return " (admin)"
	}
	return ""
}

// Users is the admin console: every registered user plus API health.
func (r *Runner) Users(ctx context.Context, pattern string) error {
	users, err := r.App.AdminUsers(ctx, pattern)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tROLE")
	for _, u := range users {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(tw, "%s\t%s\n", u.Email, role)
	}
	tw.Flush()
	fmt.Fprintf(r.Out, "\nTotal users: %d\n", len(users))
	if s, ok := r.App.Health(ctx); ok {
		state := "healthy"
		if !s.OK() {
			state = "unhealthy: " + s.Error
		}
		fmt.Fprintf(r.Out, "API status (%s/%s): %s\n", s.Provider, s.Model, state)
	}
	return nil
}

func (r *Runner) Learn(ctx context.Context, topic string) error {
	r.status("Generating your learning roadmap...")
	items, err := r.App.StartLearning(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to generate learning roadmap: %w", err)
	}
	fmt.Fprintf(r.Out, "Roadmap: %s\n\n", topic)
	for i, it := range items {
		fmt.Fprintf(r.Out, "%2d. %s\n", i+1, it.Title)
	}
	r.status("\nOpen a concept with: learnsimply concept %q <concept>", topic)
	return nil
}

func (r *Runner) Concept(ctx context.Context, topic, title string) error {
	r.status("Loading details for %q...", title)
	v, err := r.App.OpenConcept(ctx, topic, title)
	if err != nil {
		return fmt.Errorf("failed to load details for %q: %w", title, err)
	}
	r.markdown(v.Markdown())
	return nil
}

func (r *Runner) History(ctx context.Context) error {
	email, err := r.App.RequireUser(ctx)
	if err != nil {
		return err
	}
	topics := r.App.History.History(ctx, email)
	if len(topics) == 0 {
		fmt.Fprintln(r.Out, "No learning history yet.")
		return nil
	}
	for _, t := range topics {
		fmt.Fprintf(r.Out, "%s  (%s, %d concepts)\n", t.Topic, t.Date, len(t.Concepts))
		for _, c := range sortedConcepts(t) {
			mark := " "
			if c.Notes != "" {
				mark = "*"
			}
			fmt.Fprintf(r.Out, "  %s %s\n", mark, c.Title)
		}
	}
	return nil
}

func (r *Runner) NotesShow(ctx context.Context, topic, title string) error {
	email, err := r.App.RequireUser(ctx)
	if err != nil {
		return err
	}
	t, ok := r.App.History.Topic(ctx, email, topic)
	if !ok {
		return fmt.Errorf("topic %q is not in your history", topic)
	}
	c, ok := t.Concepts[title]
	if !ok {
		return fmt.Errorf("concept %q is not in topic %q", title, topic)
	}
	fmt.Fprintln(r.Out, c.Notes)
	return nil
}

// NotesSet replaces a concept's notes and prints what changed.
func (r *Runner) NotesSet(ctx context.Context, topic, title, notes string) error {
	email, err := r.App.RequireUser(ctx)
	if err != nil {
		return err
	}
	t, ok := r.App.History.Topic(ctx, email, topic)
	if !ok {
		return fmt.Errorf("topic %q is not in your history", topic)
	}
	before, ok := t.Concepts[title]
	if !ok {
		return fmt.Errorf("concept %q is not in topic %q", title, topic)
	}
	if err := r.App.SaveNotes(ctx, topic, title, notes); err != nil {
		return err
	}
	if diff := history.NotesDiff(title, before.Notes, notes); diff != "" {
		fmt.Fprint(r.Out, diff)
	} else {
		r.status("Notes unchanged")
	}
	return nil
}

func (r *Runner) Define(ctx context.Context, word string) error {
	def, saved, err := r.App.LookUpWord(ctx, word)
	if err != nil {
		return fmt.Errorf("failed to get word definition: %w", err)
	}
	fmt.Fprintf(r.Out, "%s  %s\n\n%s\n", def.Word, def.Pronunciation, def.Meaning)
	for _, ex := range def.Examples {
		fmt.Fprintf(r.Out, "  - %s\n", ex)
	}
	if saved {
		r.status("\nAdded to your vocabulary")
	}
	return nil
}

func (r *Runner) Vocab(ctx context.Context) error {
	email, err := r.App.RequireUser(ctx)
	if err != nil {
		return err
	}
	words := r.App.Vocab.Vocabulary(ctx, email)
	if len(words) == 0 {
		fmt.Fprintln(r.Out, "Your vocabulary is empty. Look words up with: learnsimply define <word>")
		return nil
	}
	for _, w := range words {
		fmt.Fprintf(r.Out, "%s  %s\n    %s\n", w.Word, w.Pronunciation, w.Meaning)
	}
	return nil
}

// Quiz runs an interactive quiz reading option numbers from In.
func (r *Runner) Quiz(ctx context.Context, topic, title string) error {
	r.status("Generating quiz for %q...", title)
	questions, err := r.App.Quiz(ctx, topic, title)
	if err != nil {
		return fmt.Errorf("failed to generate quiz: %w", err)
	}
	s, err := quiz.New(questions)
	if err != nil {
		return err
	}

	in := bufio.NewScanner(r.In)
	for s.State() != quiz.Finished {
		q := s.Current()
		fmt.Fprintf(r.Out, "\nQuestion %d of %d: %s\n", s.Index()+1, s.Len(), q.QuestionText)
		for i, opt := range q.Options {
			fmt.Fprintf(r.Out, "  %d) %s\n", i+1, opt)
		}
		for s.Selected() == "" {
			fmt.Fprint(r.Out, "> ")
			if !in.Scan() {
				return io.ErrUnexpectedEOF
			}
			n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
			if err != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintf(r.Out, "Enter a number from 1 to %d\n", len(q.Options))
				continue
			}
			s.Select(q.Options[n-1])
		}
		correct, err := s.Submit()
		if err != nil {
			return err
		}
		if correct {
			fmt.Fprintln(r.Out, "Correct!")
		} else {
			fmt.Fprintf(r.Out, "Incorrect. The correct answer is: %s\n", q.CorrectAnswer)
		}
		if err := s.Next(); err != nil {
			return err
		}
	}
	fmt.Fprintf(r.Out, "\nQuiz complete! You scored %d out of %d.\n", s.Score(), s.Len())
	return nil
}

func (r *Runner) Article(ctx context.Context, query string) error {
	r.status("Writing an article about %q...", query)
	article, err := r.App.Article(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to generate article: %w", err)
	}
	r.markdown(article)
	return nil
}

func (r *Runner) Quote(ctx context.Context) error {
	q, err := r.App.Quote(ctx)
	if err != nil {
		r.App.Log.Warn("quote unavailable", "error", err)
		fmt.Fprintln(r.Out, quote.FallbackMessage)
		return nil
	}
	fmt.Fprintf(r.Out, "%q\n  - %s\n", q.Quote, q.Author)
	return nil
}

func (r *Runner) Read(ctx context.Context, url string) error {
	page, err := r.App.Pages.Read(ctx, url)
	if err != nil {
		return err
	}
	r.markdown(page.Render())
	return nil
}

// Subjects prints the catalog, or the matches for query.
func (r *Runner) Subjects(query string) error {
	c := r.App.Subjects
	if query != "" {
		matches := c.Find(query)
		if cat, ok := c.Category(query); ok {
			fmt.Fprintf(r.Out, "%s %s\n", cat.Emoji, cat.Name)
			for _, sub := range cat.Subcategories {
				fmt.Fprintf(r.Out, "  %s\n", sub.Emoji+" "+sub.Name)
				for _, t := range sub.Topics {
					fmt.Fprintf(r.Out, "    %s\n", t.Label())
				}
			}
			return nil
		}
		if len(matches) == 0 {
			return fmt.Errorf("no subject matches %q", query)
		}
		for _, m := range matches {
			fmt.Fprintf(r.Out, "%s  (%s > %s)\n", m.Topic.Label(), m.Category, m.Subcategory)
		}
		return nil
	}

	fmt.Fprintln(r.Out, "Featured:")
	for _, t := range c.Featured {
		fmt.Fprintf(r.Out, "  %s\n", t.Label())
	}
	fmt.Fprintln(r.Out, "\nCategories:")
	for _, cat := range c.Categories {
		fmt.Fprintf(r.Out, "  %s %s (%d subjects)\n", cat.Emoji, cat.Name, len(cat.Subcategories))
	}
	return nil
}

// ExportNotes writes a topic's notes as markdown to path, or Out when path is empty.
func (r *Runner) ExportNotes(ctx context.Context, topic, path string) error {
	email, err := r.App.RequireUser(ctx)
	if err != nil {
		return err
	}
	t, ok := r.App.History.Topic(ctx, email, topic)
	if !ok {
		return fmt.Errorf("topic %q is not in your history", topic)
	}
	md := history.ExportMarkdown(t)
	if path == "" {
		fmt.Fprint(r.Out, md)
		return nil
	}
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return err
	}
	r.status("Notes written to %s", path)
	return nil
}

func (r *Runner) ExportVocab(ctx context.Context, path string) error {
	email, err := r.App.RequireUser(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("an output .xlsx path is required")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := vocab.ExportXLSX(r.App.Vocab.Vocabulary(ctx, email), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.status("Vocabulary written to %s", path)
	return nil
}

// Doctor reports configuration warnings and provider health.
func (r *Runner) Doctor(ctx context.Context) error {
	cfg := r.App.Config
	name, p := cfg.ActiveProvider()
	fmt.Fprintf(r.Out, "Provider:  %s (%s, model %s)\n", name, p.Type, p.Model)
	fmt.Fprintf(r.Out, "Storage:   %s at %s\n", cfg.Storage.Backend, storageLocation(cfg.Storage.Backend, cfg.Storage.Dir, cfg.Storage.RedisAddr))
	if cfg.Session.Scope == "file" {
		fmt.Fprintf(r.Out, "Session:   file at %s\n", cfg.SessionDir())
	} else {
		fmt.Fprintf(r.Out, "Session:   %s\n", cfg.Session.Scope)
	}
	if records, err := r.records(ctx); err != nil {
		fmt.Fprintf(r.Out, "Warning:   cannot list records: %s\n", err)
	} else {
		fmt.Fprintf(r.Out, "Records:   %s\n", records)
	}
	for _, w := range cfg.Warnings() {
		fmt.Fprintf(r.Out, "Warning:   %s\n", w)
	}

	s, ok := r.App.Health(ctx)
	if !ok {
		fmt.Fprintln(r.Out, "API:       not checked")
		return nil
	}
	if !s.OK() {
		fmt.Fprintf(r.Out, "API:       unhealthy (%s)\n", s.Error)
		return errors.New("provider check failed")
	}
	fmt.Fprintf(r.Out, "API:       healthy (%s)\n", s.Latency.Round(time.Millisecond))
	return nil
}

// records counts the stored history and vocabulary records straight from
// the store, so entries for users missing from the registry show up too.
func (r *Runner) records(ctx context.Context) (string, error) {
	hist, err := r.App.Store.Keys(ctx, kv.Persistent, history.KeyPrefix)
	if err != nil {
		return "", err
	}
	words, err := r.App.Store.Keys(ctx, kv.Persistent, vocab.KeyPrefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d history, %d vocabulary", len(hist), len(words)), nil
}

func storageLocation(backend, dir, redisAddr string) string {
	switch backend {
	case "redis":
		return redisAddr
	case "memory":
		return "process memory"
	}
	return dir
}

func sortedConcepts(t types.LearningTopic) []types.ConceptHistory {
	out := make([]types.ConceptHistory, 0, len(t.Concepts))
	for _, c := range t.Concepts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
