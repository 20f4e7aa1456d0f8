// ABOUTME: Test runner for retrieval benchmarks - executes scenarios and collects results
// ABOUTME: Asks each question in a fresh session and scores the reply and its sources

package ragas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harper/newsbot/internal/core"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// BenchmarkRunner executes benchmark tests against a built runtime
type BenchmarkRunner struct {
	rt      *core.Runtime
	metrics *MetricsCalculator
	verbose bool
	out     io.Writer
}

// Summary aggregates results across tests
type Summary struct {
	Timestamp         string       `json:"timestamp"`
	TotalTests        int          `json:"total_tests"`
	Passed            int          `json:"passed"`
	Failed            int          `json:"failed"`
	MeanFaithfulness  float64      `json:"mean_faithfulness"`
	MeanContextRecall float64      `json:"mean_context_recall"`
	MRR               float64      `json:"mrr"`
	Results           []TestResult `json:"results"`
}

// NewBenchmarkRunner creates a new benchmark runner
func NewBenchmarkRunner(rt *core.Runtime, verbose bool, out io.Writer) *BenchmarkRunner {
	if out == nil {
		out = os.Stdout
	}
	return &BenchmarkRunner{
		rt:      rt,
		metrics: NewMetricsCalculator(),
		verbose: verbose,
		out:     out,
	}
}

// RunTest executes a single benchmark test. Service failures are recorded
// on the result rather than aborting the run.
func (r *BenchmarkRunner) RunTest(ctx context.Context, scenario TestScenario) TestResult {
	if r.verbose {
		fmt.Fprintf(r.out, "\n========================================\n")
		fmt.Fprintf(r.out, "RUNNING: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "========================================\n")
		fmt.Fprintf(r.out, "Question: %s\n\n", scenario.Question)
	}

	session := r.rt.Sessions.Create()
	answer, err := session.Ask(ctx, r.rt.Assistant, scenario.Question)
	if err != nil {
		log.WithField("test_id", scenario.ID).WithError(err).Warn("benchmark turn failed")
		return TestResult{
			TestID:       scenario.ID,
			TestName:     scenario.Name,
			Status:       "FAIL",
			ErrorMessage: err.Error(),
		}
	}

	titles := make([]string, len(answer.Sources))
	for i, src := range answer.Sources {
		titles[i] = src.Title
	}

	result := r.metrics.EvaluateTest(scenario, answer.Reply, titles)

	if r.verbose {
		fmt.Fprintf(r.out, "AI: %s\n", preview(answer.Reply, 150))
		fmt.Fprintf(r.out, "Retrieved: %v\n", titles)
		fmt.Fprintf(r.out, "Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Fprintf(r.out, "Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Fprintf(r.out, "Reciprocal Rank: %.2f\n", result.ReciprocalRank)
		fmt.Fprintf(r.out, "Status: %s\n", result.Status)
	}

	return result
}

// RunAllTests runs every scenario in order
func (r *BenchmarkRunner) RunAllTests(ctx context.Context, scenarios []TestScenario) []TestResult {
	results := make([]TestResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.RunTest(ctx, scenario))
	}
	return results
}

// Summarize aggregates pass counts and mean scores
func Summarize(results []TestResult) Summary {
	passed := len(lo.Filter(results, func(r TestResult, _ int) bool { return r.Status == "PASS" }))

	summary := Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		TotalTests: len(results),
		Passed:     passed,
		Failed:     len(results) - passed,
		Results:    results,
	}
	if len(results) == 0 {
		return summary
	}

	n := float64(len(results))
	summary.MeanFaithfulness = lo.Sum(lo.Map(results, func(r TestResult, _ int) float64 { return r.FaithfulnessScore })) / n
	summary.MeanContextRecall = lo.Sum(lo.Map(results, func(r TestResult, _ int) float64 { return r.ContextRecallScore })) / n
	summary.MRR = lo.Sum(lo.Map(results, func(r TestResult, _ int) float64 { return r.ReciprocalRank })) / n
	return summary
}

// ExportResults writes the summary and results to a JSON file
func (r *BenchmarkRunner) ExportResults(results []TestResult, outputPath string) error {
	jsonData, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	fmt.Fprintf(r.out, "✓ Results exported to: %s\n", outputPath)
	return nil
}
