package ai

import (
	"testing"
	"time"

	"fintrack/internal/testutil"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain_json",
			input: `{"merchant":"Cafe"}`,
			want:  `{"merchant":"Cafe"}`,
		},
		{
			name:  "fenced_json",
			input: "```json\n{\"merchant\":\"Cafe\"}\n```",
			want:  `{"merchant":"Cafe"}`,
		},
		{
			name:  "bare_fences",
			input: "```\n{\"merchant\":\"Cafe\"}\n```",
			want:  `{"merchant":"Cafe"}`,
		},
		{
			name:  "surrounding_prose",
			input: "Here is the result:\n{\"merchant\":\"Cafe\"}\nHope that helps!",
			want:  `{"merchant":"Cafe"}`,
		},
		{
			name:  "leading_whitespace",
			input: "  \n {\"merchant\":\"Cafe\"} \n ",
			want:  `{"merchant":"Cafe"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.input, "{", "}"); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseReceiptJSON(t *testing.T) {
	t.Run("complete_receipt", func(t *testing.T) {
		receipt, err := parseReceiptJSON(`{"merchant":"Corner Cafe","amount":12.50,"category":"food","date":"2025-03-05"}`)
		testutil.AssertNoError(t, err)
		if receipt.Merchant != "Corner Cafe" {
			t.Errorf("unexpected merchant %q", receipt.Merchant)
		}
		if receipt.Amount != 1250 {
			t.Errorf("expected 1250 cents, got %d", receipt.Amount)
		}
		if receipt.Category != "food" {
			t.Errorf("unexpected category %q", receipt.Category)
		}
		want := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
		if !receipt.Date.Equal(want) {
			t.Errorf("expected date %v, got %v", want, receipt.Date)
		}
	})

	t.Run("fenced_answer", func(t *testing.T) {
		receipt, err := parseReceiptJSON("```json\n{\"merchant\":\"Corner Cafe\",\"amount\":4.00,\"category\":\"food\",\"date\":null}\n```")
		testutil.AssertNoError(t, err)
		if receipt.Amount != 400 {
			t.Errorf("expected 400 cents, got %d", receipt.Amount)
		}
		if !receipt.Date.IsZero() {
			t.Errorf("expected zero date, got %v", receipt.Date)
		}
	})

	t.Run("unknown_category_becomes_other", func(t *testing.T) {
		receipt, err := parseReceiptJSON(`{"merchant":"Corner Cafe","amount":4.00,"category":"Fine Dining & Cocktails","date":null}`)
		testutil.AssertNoError(t, err)
		if receipt.Category != "other" {
			t.Errorf("expected category other, got %q", receipt.Category)
		}
	})

	t.Run("not_a_receipt", func(t *testing.T) {
		_, err := parseReceiptJSON(`{"merchant":null,"amount":null,"category":null,"date":null}`)
		testutil.AssertAppError(t, err, "RECEIPT_UNREADABLE")
	})

	t.Run("not_json", func(t *testing.T) {
		_, err := parseReceiptJSON("I could not read that image, sorry.")
		testutil.AssertAppError(t, err, "RECEIPT_UNREADABLE")
	})

	t.Run("fractional_cents", func(t *testing.T) {
		_, err := parseReceiptJSON(`{"merchant":"Corner Cafe","amount":12.505,"category":"food","date":null}`)
		testutil.AssertAppError(t, err, "RECEIPT_UNREADABLE")
	})

	t.Run("zero_amount", func(t *testing.T) {
		_, err := parseReceiptJSON(`{"merchant":"Corner Cafe","amount":0,"category":"food","date":null}`)
		testutil.AssertAppError(t, err, "RECEIPT_UNREADABLE")
	})
}

func TestParseInsightText(t *testing.T) {
	t.Run("labelled_sections", func(t *testing.T) {
		insight := parseInsightText("OneLiner: Food spending is climbing.\nFullInsight: You have used 85% of your food budget with ten days left. Consider cooking at home this week.")
		if insight.OneLiner != "Food spending is climbing." {
			t.Errorf("unexpected one-liner %q", insight.OneLiner)
		}
		if insight.FullInsight != "You have used 85% of your food budget with ten days left. Consider cooking at home this week." {
			t.Errorf("unexpected full insight %q", insight.FullInsight)
		}
	})

	t.Run("continuation_lines_join_the_body", func(t *testing.T) {
		insight := parseInsightText("OneLiner: Steady month.\nFullInsight: Income covers spending.\nNo budget is near its limit.")
		if insight.FullInsight != "Income covers spending. No budget is near its limit." {
			t.Errorf("unexpected full insight %q", insight.FullInsight)
		}
	})

	t.Run("unlabelled_answer_falls_back", func(t *testing.T) {
		insight := parseInsightText("Your spending looks fine.\nKeep an eye on transport costs.")
		if insight.OneLiner != "Your spending looks fine." {
			t.Errorf("unexpected one-liner %q", insight.OneLiner)
		}
		if insight.FullInsight != "Your spending looks fine.\nKeep an eye on transport costs." {
			t.Errorf("unexpected full insight %q", insight.FullInsight)
		}
	})

	t.Run("single_line_answer", func(t *testing.T) {
		insight := parseInsightText("Your spending looks fine.")
		if insight.OneLiner != "Your spending looks fine." || insight.FullInsight != "Your spending looks fine." {
			t.Errorf("unexpected insight %+v", insight)
		}
	})
}
