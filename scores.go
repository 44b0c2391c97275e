package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/milk9111/atthegym/levels"
	"github.com/milk9111/atthegym/scene"
	"github.com/milk9111/atthegym/storage"
	"github.com/spf13/cobra"
)

var scoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the fastest exits and attempt counts for a level",
	Long: `Display the fastest recorded exits for the level selected with --level,
followed by how many attempts ended in each way.

Examples:
  gym scores
  gym scores --level level --limit 5`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&scoresLimit, "limit", 10, "number of exits to show")
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	emptyStyle = lipgloss.NewStyle().Faint(true)
)

func runScores(cmd *cobra.Command, args []string) error {
	if flagDBPath == "" {
		return fmt.Errorf("scores: --db is empty")
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	level := resolveLevel(flagLevel)
	best, err := store.BestExits(level, scoresLimit)
	if err != nil {
		return err
	}
	counts, err := store.Counts(level)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Fastest exits - "+level))
	if len(best) == 0 {
		fmt.Fprintln(out, emptyStyle.Render("No exits recorded yet."))
	} else {
		fmt.Fprintln(out, exitsTable(best))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, countsTable(counts))
	return nil
}

// resolveLevel picks the level the game would load for the given --level
// value: the flag when set, otherwise scene.yaml.
func resolveLevel(flag string) string {
	if flag != "" {
		return levels.CleanName(flag)
	}
	cfg, err := scene.LoadConfig()
	if err != nil {
		return levels.DefaultLevel
	}
	return levels.CleanName(cfg.Level)
}

func exitsTable(best []storage.Attempt) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Rank", "Time", "Seed", "Date")
	for i, a := range best {
		t.Row(
			strconv.Itoa(i+1),
			fmt.Sprintf("%.1fs", a.Elapsed.Seconds()),
			strconv.FormatUint(a.Seed, 10),
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return t.String()
}

func countsTable(counts map[string]int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Exit", "Death", "Timeout")
	t.Row(
		strconv.Itoa(counts["exit"]),
		strconv.Itoa(counts["death"]),
		strconv.Itoa(counts["timeout"]),
	)
	return t.String()
}
