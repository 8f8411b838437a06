// Package testutil provides shared fixtures for scamguard tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/scamguard/internal/model"
)

var scamTexts = []string{
	"Congratulations! You won a lottery of 10 lakh rupees, click here to claim your prize",
	"URGENT: your bank account will be suspended, update KYC immediately",
	"Your parcel is held at customs, pay the delivery fee at bit.ly/parcel",
	"Share the OTP sent to your phone to verify your account",
	"Work from home job, earn money daily with no experience needed",
	"You have won a free iPhone gift, claim your prize now",
	"Your debit card is blocked, call this number to reactivate",
	"Income tax refund pending, submit your bank details to receive refund",
	"Double your money in 7 days with our investment scheme",
	"Dear friend I need money urgently, please help me send money",
	"Winner of the UK lottery, pay processing fee to claim prize",
	"Your KYC has expired, click the link to update account details",
	"Limited time offer: claim your free gift card, click here",
	"Final warning: verify your net banking credentials to avoid suspension",
	"Your electricity connection will be disconnected tonight, call officer now",
	"Earn quick money with part time data entry job, register today",
}

var safeTexts = []string{
	"Hi, are we meeting for lunch tomorrow at 3 PM?",
	"Thanks for sending the project files, I will review them tonight",
	"Meeting scheduled for Monday in the conference room",
	"Can we reschedule our lunch meeting to Thursday?",
	"Happy birthday! Hope you have a wonderful day with family",
	"Please pick up milk and bread on your way home",
	"The report looks good, let us discuss it in the standup",
	"Mom called, she wants you to call her back after dinner",
	"I reached the office, see you at the cafeteria",
	"Your doctor appointment is confirmed for Friday morning",
	"Let us watch the movie this weekend with the kids",
	"Thanks for the payment, I received it",
	"Dinner is ready, come downstairs",
	"The train is running late by twenty minutes",
	"Good morning team, the sprint review starts at ten",
	"Can you share the notes from yesterday's class?",
}

// SampleExamples returns a small balanced labeled dataset.
func SampleExamples() []model.LabeledExample {
	examples := make([]model.LabeledExample, 0, len(scamTexts)+len(safeTexts))
	for i := range scamTexts {
		examples = append(examples,
			model.LabeledExample{Text: scamTexts[i], Label: model.LabelScam},
			model.LabeledExample{Text: safeTexts[i], Label: model.LabelNotScam},
		)
	}
	return examples
}

// WriteCSV writes rows (header included) to a file in a temporary directory and
// returns its path.
func WriteCSV(t *testing.T, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scam_data.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}

// SampleCSV writes SampleExamples as a dataset file and returns its path.
func SampleCSV(t *testing.T) string {
	t.Helper()

	rows := [][]string{{"text", "label"}}
	for _, ex := range SampleExamples() {
		rows = append(rows, []string{ex.Text, string(ex.Label)})
	}
	return WriteCSV(t, rows)
}

// StubPredictor is a canned predictor for detector tests.
type StubPredictor struct {
	Err        error
	Label      string
	calls      []string
	Confidence float64
	mu         sync.Mutex
	Loaded     bool
}

// PredictLabel records the call and returns the canned result.
func (s *StubPredictor) PredictLabel(text string) (string, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, text)
	if s.Err != nil {
		return "", 0, s.Err
	}
	return s.Label, s.Confidence, nil
}

// IsLoaded returns the Loaded flag.
func (s *StubPredictor) IsLoaded() bool {
	return s.Loaded
}

// Calls returns the texts PredictLabel was called with.
func (s *StubPredictor) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
