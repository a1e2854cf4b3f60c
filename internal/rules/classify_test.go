package rules

import "testing"

func TestClassifyDocument(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"prior authorization", "Prior Authorization is required for imaging", DocTypePriorAuth},
		{"pre-authorization spelling", "Pre-Authorization requests must be faxed", DocTypePriorAuth},
		{"claims and timely filing", "Claim denials: the timely filing limit is 90 days", DocTypeClaimsFiling},
		{"claim without timely filing falls through", "Submit a claim form to the address below", DocTypeGeneral},
		{"appeals", "Members may file an appeal within 60 days", DocTypeAppeals},
		{"provider manual", "See the Provider Manual chapter 4", DocTypeProviderMan},
		{"fee schedule", "The 2024 fee schedule applies", DocTypeFeeSchedule},
		{"reimbursement", "Reimbursement rates are updated quarterly", DocTypeFeeSchedule},
		{"credentialing", "Credentialing applications take 90 days", DocTypeCredentialing},
		{"default", "Coverage overview for members", DocTypeGeneral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyDocument(tc.text); got != tc.want {
				t.Errorf("ClassifyDocument(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}

	t.Run("priority order breaks ties", func(t *testing.T) {
		// The appeal rule precedes the fee-schedule rule, so a document
		// mentioning both is an appeals document.
		got := ClassifyDocument("To appeal a payment, consult the fee schedule first")
		if got != DocTypeAppeals {
			t.Errorf("expected %q, got %q", DocTypeAppeals, got)
		}

		// Prior authorization outranks everything.
		got = ClassifyDocument("prior authorization and appeal and fee schedule")
		if got != DocTypePriorAuth {
			t.Errorf("expected %q, got %q", DocTypePriorAuth, got)
		}
	})
}
