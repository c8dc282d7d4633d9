package retrieval

import "testing"

func TestContextMatch(t *testing.T) {
	tests := []struct {
		name     string
		relevant []string
		response string
		wantZero bool
		wantFull bool
	}{
		{
			name:     "empty response",
			relevant: []string{"refunds are processed within five business days"},
			response: "",
			wantZero: true,
		},
		{
			name:     "no relevant chunks",
			relevant: nil,
			response: "refunds are processed quickly",
			wantZero: true,
		},
		{
			name:     "fully grounded response",
			relevant: []string{"refunds are processed within five business days after approval"},
			response: "refunds processed within five business days",
			wantFull: true,
		},
		{
			name:     "completely ungrounded response",
			relevant: []string{"billing cycles renew monthly"},
			response: "restart your router firmware",
			wantZero: true,
		},
		{
			name:     "partially grounded response",
			relevant: []string{"billing cycles renew monthly on the signup date"},
			response: "billing cycles renew monthly, and you can also export invoices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContextMatch(tt.relevant, tt.response)

			if got < 0 || got > 1 {
				t.Fatalf("ContextMatch() = %v, want within [0,1]", got)
			}
			if tt.wantZero && got != 0 {
				t.Errorf("ContextMatch() = %v, want 0", got)
			}
			if tt.wantFull && got != 1 {
				t.Errorf("ContextMatch() = %v, want 1", got)
			}
			if !tt.wantZero && !tt.wantFull && (got <= 0 || got >= 1) {
				t.Errorf("ContextMatch() = %v, want strictly between 0 and 1", got)
			}
		})
	}
}
