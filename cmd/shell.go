package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/report"
	"github.com/pable/go-statcast-diagnosis/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the cache and Baseball Savant. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession holds what the REPL keeps open between commands.
type shellSession struct {
	ctx    context.Context
	db     *storage.DB
	svc    *analysis.Service
	season string
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, false)
	if err != nil {
		return err
	}
	sess := &shellSession{ctx: cmd.Context(), db: db, svc: svc}
	if labels := cfg.SeasonLabels(); len(labels) > 0 {
		sess.season = labels[0]
	}

	cGreeting.Println("statdiag shell")
	cMuted.Printf("season %s; type 'help' or 'exit'\n", orNone(sess.season))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("statdiag")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "season":
			sess.setSeason(args)
		case "list":
			sess.list()
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <id-prefix>")
				continue
			}
			sess.show(args[0])
		case "players":
			sess.players()
		case "diagnose":
			if len(args) < 2 {
				cError.Fprintln(os.Stderr, "usage: diagnose <first> <last>")
				continue
			}
			sess.diagnose(args)
		case "recap":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: recap <YYYY-MM-DD> <team>")
				continue
			}
			sess.recap(args[0], args[1])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"season [<label>]", "show or change the session season"},
		{"diagnose <first> <last>", "diagnose a batter over the session season and save it"},
		{"recap <YYYY-MM-DD> <team>", "key moments of a team's game"},
		{"list", "list saved diagnoses"},
		{"show <id-prefix>", "show a saved diagnosis"},
		{"players", "list cached players"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (s *shellSession) setSeason(args []string) {
	if len(args) == 0 {
		fmt.Printf("season %s (configured: %s)\n", orNone(s.season), strings.Join(cfg.SeasonLabels(), ", "))
		return
	}
	if _, err := cfg.SeasonRange(args[0]); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	s.season = args[0]
}

func (s *shellSession) list() {
	recs, err := s.db.ListDiagnoses(0)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(recs) == 0 {
		cMuted.Println("No diagnoses saved yet.")
		return
	}
	report.PrintDiagnosisList(os.Stdout, recs)
}

func (s *shellSession) show(prefix string) {
	rec, err := s.db.GetDiagnosisByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "no diagnosis found with prefix %q\n", prefix)
		return
	}
	report.PrintDiagnosis(os.Stdout, rec.Result)
}

func (s *shellSession) players() {
	players, err := s.db.ListPlayers()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(players) == 0 {
		cMuted.Println("No players cached yet.")
		return
	}
	report.PrintPlayers(os.Stdout, players)
}

func (s *shellSession) diagnose(args []string) {
	first, last, err := splitName(args)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	d, err := s.svc.Diagnose(s.ctx, analysis.DiagnosisRequest{
		FirstName: first,
		LastName:  last,
		Season:    s.season,
		Save:      true,
	})
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", explain(err))
		return
	}
	report.PrintDiagnosis(os.Stdout, d.Result)
	if d.Record != nil {
		cMuted.Printf("saved as %s\n", d.Record.ID)
	}
}

func (s *shellSession) recap(date, team string) {
	rc, err := s.svc.Recap(s.ctx, analysis.RecapRequest{Date: date, Team: team, TopN: 5})
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMoments(os.Stdout, rc.Moments, rc.Metadata)
}
