package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/growthlab/internal/grading"
	"github.com/abhisek/growthlab/internal/metrics"
	"github.com/abhisek/growthlab/internal/validation"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <challenge-id> [answer.json|-]",
	Short: "Grade an answer to a challenge",
	Long: `Grades a JSON answer document against a challenge and records the attempt.
The answer is read from the given file, or from stdin when the path is "-"
or omitted.

With --batch, every answer file in a directory is graded concurrently:
<dir>/<challenge-id>.json and <dir>/<challenge-id>/*.json.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if batch, _ := cmd.Flags().GetString("batch"); batch != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.RangeArgs(1, 2)(cmd, args)
	},
	RunE: runGrade,
}

func init() {
	gradeCmd.Flags().String("batch", "", "Grade every answer file in this directory")
	gradeCmd.Flags().Int("concurrency", grading.DefaultConcurrency, "Maximum submissions graded at once with --batch")
	gradeCmd.Flags().Bool("json", false, "Print the full result as JSON")
	gradeCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile after grading")
}

func runGrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	asJSON, _ := cmd.Flags().GetBool("json")

	opts := []grading.Option{
		grading.WithLogger(logger),
		grading.WithStore(st),
		grading.WithConcurrency(concurrency),
	}
	var m *metrics.Metrics
	if metricsFile != "" {
		m = metrics.New()
		opts = append(opts, grading.WithMetrics(m))
	}
	svc := grading.New(cat, validation.New(cfg), opts...)
	user := resolveUser(cmd)
	out := cmd.OutOrStdout()

	var results []grading.BatchItem
	if dir, _ := cmd.Flags().GetString("batch"); dir != "" {
		subs, err := collectBatch(dir, user)
		if err != nil {
			return err
		}
		logger.Info("grading batch", zap.String("dir", dir), zap.Int("submissions", len(subs)))
		if results, err = svc.SubmitBatch(ctx, subs); err != nil {
			return err
		}
	} else {
		source := "-"
		if len(args) == 2 {
			source = args[1]
		}
		raw, err := readAnswer(cmd.InOrStdin(), source)
		if err != nil {
			return err
		}
		res, err := svc.Submit(ctx, user, args[0], raw)
		if err != nil {
			return err
		}
		results = []grading.BatchItem{{Source: source, Result: res}}
	}

	if asJSON {
		err = printJSON(out, results)
	} else {
		printResults(out, results)
	}
	if err != nil {
		return err
	}

	if m != nil {
		if err := m.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	var failed int
	for _, it := range results {
		if it.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions could not be graded", failed, len(results))
	}
	return nil
}

func readAnswer(stdin io.Reader, source string) ([]byte, error) {
	if source == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read answer from stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read answer: %w", err)
	}
	return raw, nil
}

// collectBatch maps answer files in dir to submissions. The challenge ID
// is the file name for top-level files and the directory name one level
// down.
func collectBatch(dir, user string) ([]grading.Submission, error) {
	top, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	nested, err := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	paths := append(top, nested...)
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no answer files in %s", dir)
	}

	subs := make([]grading.Submission, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read answer: %w", err)
		}
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if filepath.Dir(p) != filepath.Clean(dir) {
			id = filepath.Base(filepath.Dir(p))
		}
		subs = append(subs, grading.Submission{UserID: user, ChallengeID: id, Source: p, Raw: raw})
	}
	return subs, nil
}

type jsonItem struct {
	Source string          `json:"source"`
	Result *grading.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func printJSON(w io.Writer, items []grading.BatchItem) error {
	out := make([]jsonItem, 0, len(items))
	for i := range items {
		it := jsonItem{Source: items[i].Source}
		if items[i].Err != nil {
			it.Error = items[i].Err.Error()
		} else {
			it.Result = &items[i].Result
		}
		out = append(out, it)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(out) == 1 {
		return enc.Encode(out[0])
	}
	return enc.Encode(out)
}

func printResults(w io.Writer, items []grading.BatchItem) {
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if it.Err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", it.Source, it.Err)
			continue
		}
		printResult(w, it.Source, it.Result)
	}
}

func printResult(w io.Writer, source string, res grading.Result) {
	o := res.Outcome
	verdict := "FAIL"
	if o.Passed {
		verdict = "PASS"
	}
	fmt.Fprintf(w, "%s  %s  grade %s  score %.1f (base %.1f - penalty %.1f)  attempt %d\n",
		res.ChallengeID, verdict, o.Grade.Letter, o.Score, o.BaseScore, o.Penalties.Total, res.Attempt)
	if source != "-" {
		fmt.Fprintf(w, "  source: %s\n", source)
	}
	if res.Malformed != "" {
		fmt.Fprintf(w, "  %s\n", res.Malformed)
	}

	fmt.Fprintf(w, "  %-14s %6s %6s  %s\n", "Layer", "Score", "Max", "Passed")
	fmt.Fprintln(w, "  "+strings.Repeat("─", 38))
	for _, l := range o.Layers {
		mark := "✓"
		if !l.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %-14s %6.1f %6.0f  %s\n", l.Layer, l.Score, l.Max, mark)
	}

	for _, line := range o.Feedback {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	if len(o.NextSteps) > 0 {
		fmt.Fprintln(w, "  Next steps:")
		for _, line := range o.NextSteps {
			fmt.Fprintf(w, "    * %s\n", line)
		}
	}
	if len(res.Unlocked) > 0 {
		fmt.Fprintf(w, "  Unlocked: %s\n", strings.Join(res.Unlocked, ", "))
	}
	if res.Review != nil {
		fmt.Fprintf(w, "  Weak point %s: due again %s\n", res.ReviewChange, res.Review.DueAt.Local().Format("2006-01-02"))
	}
}
