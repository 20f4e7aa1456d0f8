// ABOUTME: Benchmark scenario data structures and loading for retrieval-augmented answers
// ABOUTME: Each scenario is one question with ground truth for retrieval and the final reply

package ragas

import (
	"encoding/json"
	"fmt"
	"os"
)

// TestScenario represents one benchmark question
type TestScenario struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Question    string      `json:"question"`
	GroundTruth GroundTruth `json:"ground_truth"`
}

// GroundTruth defines expected outcomes for evaluation
type GroundTruth struct {
	// Titles of knowledge entries that should be retrieved, most relevant first
	ExpectedTitles []string `json:"expected_titles"`

	ExpectedInResponse  []string `json:"expected_in_response"`  // Strings that MUST appear in response
	ForbiddenInResponse []string `json:"forbidden_in_response"` // Strings that MUST NOT appear in response
}

// TestResult represents the outcome of a benchmark test
type TestResult struct {
	TestID             string                 `json:"test_id"`
	TestName           string                 `json:"test_name"`
	FaithfulnessScore  float64                `json:"faithfulness"`
	ContextRecallScore float64                `json:"context_recall"`
	ReciprocalRank     float64                `json:"reciprocal_rank"`
	OverallScore       float64                `json:"overall"`
	Status             string                 `json:"status"` // "PASS" or "FAIL"
	Details            map[string]interface{} `json:"details,omitempty"`
	ErrorMessage       string                 `json:"error,omitempty"`
}

// LoadScenarios reads a JSON array of scenarios
func LoadScenarios(path string) ([]TestScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}

	var scenarios []TestScenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("parsing scenarios %s: %w", path, err)
	}

	for i, s := range scenarios {
		if s.Question == "" {
			return nil, fmt.Errorf("scenario %d (%s) has no question", i, s.ID)
		}
		if s.ID == "" {
			scenarios[i].ID = fmt.Sprintf("scenario_%d", i+1)
		}
		if s.Name == "" {
			scenarios[i].Name = s.Question
		}
	}
	return scenarios, nil
}

// FindScenario returns the scenario with the given ID
func FindScenario(scenarios []TestScenario, id string) (TestScenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return TestScenario{}, false
}
