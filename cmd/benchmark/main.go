// ABOUTME: Command-line benchmark runner for retrieval-augmented answers
// ABOUTME: Executes scenarios against the configured knowledge base and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/newsbot/benchmarks/ragas"
	"github.com/harper/newsbot/internal/config"
	"github.com/harper/newsbot/internal/core"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	scenariosPath := flag.String("scenarios", "benchmark_scenarios.json", "Path to JSON scenarios")
	testID := flag.String("test", "", "Run a specific scenario ID. If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	configPath := flag.String("config", "", "Path to secrets.toml")
	kbPath := flag.String("kb", "", "Knowledge base path")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	scenarios, err := ragas.LoadScenarios(*scenariosPath)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}
	if *testID != "" {
		scenario, ok := ragas.FindScenario(scenarios, *testID)
		if !ok {
			log.Fatalf("Unknown test ID: %s", *testID)
		}
		scenarios = []ragas.TestScenario{scenario}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *kbPath != "" {
		cfg.KnowledgeBase = *kbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := core.NewRuntime(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build knowledge base: %v", err)
	}

	fmt.Println("========================================")
	fmt.Println("newsbot Retrieval Benchmarks")
	fmt.Println("========================================")
	fmt.Printf("Running %d scenario(s)...\n", len(scenarios))

	runner := ragas.NewBenchmarkRunner(rt, *verbose, os.Stdout)
	results := runner.RunAllTests(ctx, scenarios)
	summary := ragas.Summarize(results)

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		if result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", result.ErrorMessage)
		}
		fmt.Printf("  Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("  Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("  Reciprocal Rank: %.2f\n", result.ReciprocalRank)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Printf("MRR: %.3f\n", summary.MRR)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
