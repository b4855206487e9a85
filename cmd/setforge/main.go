package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hexbeat/setforge/analysis"
	"github.com/hexbeat/setforge/camelot"
	"github.com/hexbeat/setforge/logging"
	"github.com/hexbeat/setforge/setplan"
	"github.com/hexbeat/setforge/setplan/config"
	"github.com/hexbeat/setforge/suggest"
	"github.com/hexbeat/setforge/tagload"
)

var version = "0.1.0"

var (
	flagDir      string
	flagFromTags bool
	flagPeak     float64
	flagCurve    string
	flagJSON     bool

	flagMode     string
	flagLimit    int
	flagMinScore float64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "setforge",
	Short: "Plan harmonically mixed DJ sets from analyzed tracks",
	Long: `setforge orders analyzed tracks into a DJ set that follows a target
energy arc, scores every transition on key, tempo and energy, and derives
concrete mix-in/mix-out timing.

Input is analyzer JSON ({file, analysis} records) or, with --tags, audio
files carrying Mixed In Key style comments.`,
	Version: version,
}

var planCmd = &cobra.Command{
	Use:   "plan [files...]",
	Short: "Order tracks into a set and score the transitions",
	RunE:  runPlan,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <source> [pool...]",
	Short: "Rank tracks to play after a reference track",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

var compatCmd = &cobra.Command{
	Use:   "compat <key>",
	Short: "List harmonically compatible Camelot keys",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompat,
}

func init() {
	// Optional .env with SETFORGE_* defaults; must happen before flag
	// defaults are read from the environment.
	_ = godotenv.Load()

	planCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "directory of analysis JSON files")
	planCmd.Flags().BoolVar(&flagFromTags, "tags", false, "read inputs from audio file tags instead of analyzer JSON")
	planCmd.Flags().Float64Var(&flagPeak, "peak", envFloat("SETFORGE_PEAK_POSITION", 0.65), "energy peak position, fraction of the set in (0,1)")
	planCmd.Flags().StringVar(&flagCurve, "curve", envString("SETFORGE_ENERGY_CURVE", config.CurveWarmupPeakReset), "energy curve shape")
	planCmd.Flags().BoolVar(&flagJSON, "json", false, "emit the full plan as JSON")

	suggestCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "directory of analysis JSON files for the pool")
	suggestCmd.Flags().StringVar(&flagMode, "mode", "similar", "energy trajectory: similar, build or drop")
	suggestCmd.Flags().IntVar(&flagLimit, "limit", 5, "maximum suggestions to print")
	suggestCmd.Flags().Float64Var(&flagMinScore, "min-score", 40, "minimum total score, 0-100")
	suggestCmd.Flags().BoolVar(&flagJSON, "json", false, "emit suggestions as JSON")

	rootCmd.AddCommand(planCmd, suggestCmd, compatCmd)
}

func loadInputs(args []string) ([]analysis.AnalyzedTrack, error) {
	if flagFromTags {
		tracks := tagload.FromFiles(args)
		if len(tracks) == 0 {
			return nil, fmt.Errorf("no readable audio files among %d inputs", len(args))
		}
		return tracks, nil
	}

	if flagDir != "" {
		return analysis.LoadDir(flagDir)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("no inputs: pass analysis files or --dir")
	}
	tracks := make([]analysis.AnalyzedTrack, 0, len(args))
	for _, path := range args {
		at, err := analysis.LoadFile(path)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, at)
	}
	return tracks, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	inputs, err := loadInputs(args)
	if err != nil {
		return err
	}

	cfg := config.DefaultPlannerConfig()
	cfg.PeakPosition = flagPeak
	cfg.EnergyCurve = flagCurve

	plan := setplan.NewPlanner(cfg).Plan(inputs)

	if plan.Error != "" {
		logging.Error(nil, plan.Error, logging.Fields{"missing_keys": plan.MissingKeys})
		return fmt.Errorf("%s (%d tracks without keys)", plan.Error, len(plan.MissingKeys))
	}

	if flagJSON {
		return printJSON(plan)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTRACK\tKEY\tBPM\tENERGY\tTARGET\tMIX OUT\tSCORE\tOVERLAP")
	for i, t := range plan.Tracks {
		score, overlap := "", ""
		if i > 0 {
			tr := plan.Transitions[i-1]
			score = strconv.Itoa(tr.Score)
			overlap = fmt.Sprintf("%d bars", tr.OverlapBars)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.0f\t%.1f\t%s\t%s\t%s\n",
			i+1, t.FileName, t.Key, t.BPM, t.Energy, plan.Targets[i],
			formatTime(t.MixOutTime), score, overlap)
	}
	return w.Flush()
}

func runSuggest(cmd *cobra.Command, args []string) error {
	source, err := analysis.LoadFile(args[0])
	if err != nil {
		return err
	}

	var poolInputs []analysis.AnalyzedTrack
	if flagDir != "" {
		poolInputs, err = analysis.LoadDir(flagDir)
	} else {
		poolInputs, err = loadInputs(args[1:])
	}
	if err != nil {
		return err
	}

	sourceTrack := setplan.Normalize(source, 0)
	pool := make([]setplan.Track, len(poolInputs))
	for i, in := range poolInputs {
		pool[i] = setplan.Normalize(in, i+1)
	}

	opts := suggest.DefaultOptions()
	opts.Limit = flagLimit
	opts.MinScore = flagMinScore
	opts.TransitionType = suggest.TransitionType(flagMode)

	suggestions := suggest.SuggestedTracks(sourceTrack, pool, opts)

	if flagJSON {
		return printJSON(suggestions)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tKEY\tBPM\tENERGY\tSCORE\tWHY")
	for _, s := range suggestions {
		why := ""
		if len(s.Score.Reasons) > 0 {
			why = s.Score.Reasons[0]
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.0f\t%.0f\t%s\n",
			s.Track.FileName, s.Track.Key, s.Track.BPM, s.Track.Energy, s.Score.Total, why)
	}
	return w.Flush()
}

func runCompat(cmd *cobra.Command, args []string) error {
	key, ok := camelot.Normalize(args[0])
	if !ok {
		return fmt.Errorf("unrecognized key %q", args[0])
	}
	for _, k := range camelot.CompatibleKeys(key) {
		fmt.Println(k)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(sec float64) string {
	s := int(sec)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
