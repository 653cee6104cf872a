package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/learnsimply/internal/app"
	"github.com/jeanpaul/learnsimply/internal/config"
	"github.com/jeanpaul/learnsimply/internal/headless"
	"github.com/jeanpaul/learnsimply/internal/logger"
	"github.com/jeanpaul/learnsimply/internal/tui"
	"github.com/jeanpaul/learnsimply/pkg/version"
)

func main() {
	configFlag := flag.String("config", "", "Config file (default ~/.config/learnsimply/config.yaml)")
	providerFlag := flag.String("provider", "", "Provider name from the config (gemini, ollama, ...)")
	modelFlag := flag.String("model", "", "Model name")
	plainFlag := flag.Bool("plain", false, "Print markdown without terminal styling")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("learnsimply %s (%s)\n", version.Version, version.Commit)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "help":
			showHelp()
			return
		case "version":
			fmt.Printf("learnsimply %s (%s)\n", version.Version, version.Commit)
			return
		case "init":
			cmdInit(*configFlag, len(args) > 1 && args[1] == "--force")
			return
		}
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal("config error: %s", err)
	}
	if *providerFlag != "" {
		cfg.DefaultProvider = *providerFlag
	}
	if *modelFlag != "" {
		cfg.DefaultModel = *modelFlag
	}
	if len(args) > 0 {
		// each subcommand is its own process; keep the login for the terminal
		cfg.Session.Scope = "file"
	}
	if _, ok := cfg.ProviderFor(cfg.DefaultProvider); !ok {
		fatal("unknown provider %q; configure it in %s", cfg.DefaultProvider, config.Path())
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.File)
	if err != nil {
		fatal("logger: %s", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		fatal("%s", err)
	}
	defer a.Close()

	if len(args) == 0 {
		for _, w := range cfg.Warnings() {
			fmt.Fprintln(os.Stderr, tui.HelpStyle.Render("warning: "+w))
		}
		launchTUI(a)
		return
	}

	r := headless.New(a)
	r.Pretty = !*plainFlag && isTerminal(os.Stdout)
	if err := run(ctx, r, args); err != nil {
		log.Error("command failed", "command", args[0], "error", err)
		a.Close()
		fatal("%s", err)
	}
}

func run(ctx context.Context, r *headless.Runner, args []string) error {
	cmd, rest := args[0], args[1:]
	need := func(n int, usage string) error {
		if len(rest) < n {
			return fmt.Errorf("usage: learnsimply %s", usage)
		}
		return nil
	}

	switch cmd {
	case "signup":
		if err := need(1, "signup <email>"); err != nil {
			return err
		}
		return r.Signup(ctx, rest[0], "")
	case "login":
		if err := need(1, "login <email>"); err != nil {
			return err
		}
		return r.Login(ctx, rest[0], "")
	case "logout":
		return r.Logout(ctx)
	case "whoami":
		return r.WhoAmI(ctx)
	case "users":
		pattern := ""
		if len(rest) > 0 {
			pattern = rest[0]
		}
		return r.Users(ctx, pattern)
	case "learn":
		if err := need(1, "learn <topic>"); err != nil {
			return err
		}
		return r.Learn(ctx, strings.Join(rest, " "))
	case "concept":
		if err := need(2, "concept <topic> <concept>"); err != nil {
			return err
		}
		return r.Concept(ctx, rest[0], strings.Join(rest[1:], " "))
	case "history":
		return r.History(ctx)
	case "notes":
		if err := need(3, "notes show|set <topic> <concept> [text]"); err != nil {
			return err
		}
		switch rest[0] {
		case "show":
			return r.NotesShow(ctx, rest[1], rest[2])
		case "set":
			if err := need(4, "notes set <topic> <concept> <text>"); err != nil {
				return err
			}
			return r.NotesSet(ctx, rest[1], rest[2], strings.Join(rest[3:], " "))
		}
		return fmt.Errorf("unknown notes action %q (use show or set)", rest[0])
	case "define":
		if err := need(1, "define <word>"); err != nil {
			return err
		}
		return r.Define(ctx, strings.Join(rest, " "))
	case "vocab":
		return r.Vocab(ctx)
	case "quiz":
		if err := need(2, "quiz <topic> <concept>"); err != nil {
			return err
		}
		return r.Quiz(ctx, rest[0], strings.Join(rest[1:], " "))
	case "article":
		if err := need(1, "article <query>"); err != nil {
			return err
		}
		return r.Article(ctx, strings.Join(rest, " "))
	case "quote":
		return r.Quote(ctx)
	case "read":
		if err := need(1, "read <url>"); err != nil {
			return err
		}
		return r.Read(ctx, rest[0])
	case "subjects":
		return r.Subjects(strings.Join(rest, " "))
	case "export":
		if err := need(1, "export notes <topic> [file.md] | export vocab [file.xlsx]"); err != nil {
			return err
		}
		switch rest[0] {
		case "notes":
			if err := need(2, "export notes <topic> [file.md]"); err != nil {
				return err
			}
			path := ""
			if len(rest) > 2 {
				path = rest[2]
			}
			return r.ExportNotes(ctx, rest[1], path)
		case "vocab":
			path := "vocabulary.xlsx"
			if len(rest) > 1 {
				path = rest[1]
			}
			return r.ExportVocab(ctx, path)
		}
		return fmt.Errorf("unknown export %q (use notes or vocab)", rest[0])
	case "doctor":
		return r.Doctor(ctx)
	}
	return fmt.Errorf("unknown command %q; run learnsimply help", cmd)
}

func cmdInit(path string, force bool) {
	if path == "" {
		path = config.Path()
	}
	if err := config.DefaultConfig().Save(path, force); err != nil {
		fatal("%s", err)
	}
	fmt.Println(tui.TitleStyle.Render("✓ Wrote " + path))
	fmt.Println(tui.HelpStyle.Render("  Set GEMINI_API_KEY (or add it to .env) before you start learning."))
}

func launchTUI(a *app.App) {
	tui.ApplyTheme(a.Config.Theme)
	m := tui.NewModel(a)

	var opts []tea.ProgramOption
	if isTerminal(os.Stdin) {
		opts = append(opts, tea.WithAltScreen())
	}
	opts = append(opts, tea.WithMouseCellMotion())

	p := tea.NewProgram(m, opts...)
	if _, err := p.Run(); err != nil {
		fatal("TUI error: %s", err)
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}

func showHelp() {
	help := `
` + tui.TitleStyle.Render("LearnSimply") + ` - learn any topic one concept at a time

` + tui.AccentStyle.Render("USAGE:") + `
  learnsimply [flags]                     Start the interactive app
  learnsimply [flags] <command> [args]    Run one command

` + tui.AccentStyle.Render("ACCOUNT:") + `
  signup <email>                          Create an account and sign in
  login <email>                           Sign in
  logout                                  Sign out
  whoami                                  Show the signed-in user
  users [pattern]                         List users (admin only)

` + tui.AccentStyle.Render("LEARNING:") + `
  learn <topic>                           Show a roadmap for a topic
  concept <topic> <concept>               Explain a concept
  quiz <topic> <concept>                  Take a quiz on a concept
  article <query>                         Write an article on a query
  define <word>                           Look up a word
  read <url>                              Read a web page as markdown
  subjects [name]                         Browse the subject catalog
  quote                                   Quote of the day

` + tui.AccentStyle.Render("MY LEARNING:") + `
  history                                 Topics and concepts you studied
  notes show <topic> <concept>            Print notes
  notes set <topic> <concept> <text>      Replace notes
  vocab                                   Your vocabulary
  export notes <topic> [file.md]          Export notes as markdown
  export vocab [file.xlsx]                Export vocabulary to a spreadsheet

` + tui.AccentStyle.Render("OTHER:") + `
  init [--force]                          Write a default config file
  doctor                                  Check config, storage and the API
  version                                 Show version

` + tui.AccentStyle.Render("FLAGS:") + `
  --config <path>                         Config file
  --provider <name>                       Provider from the config
  --model <name>                          Model name
  --plain                                 No terminal styling for markdown
  --version                               Show version
  --help, -h                              Show this help
`
	fmt.Println(help)
}
