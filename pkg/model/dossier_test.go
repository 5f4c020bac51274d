package model

import "testing"

func TestDossierStatusValid(t *testing.T) {
	for _, status := range []DossierStatus{DossierDraft, DossierSubmitted, DossierApproved, DossierRejected} {
		if !status.Valid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}

	if DossierStatus("archived").Valid() {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestDossierStatusTransitions(t *testing.T) {
	cases := []struct {
		from    DossierStatus
		to      DossierStatus
		allowed bool
	}{
		{DossierDraft, DossierSubmitted, true},
		{DossierSubmitted, DossierApproved, true},
		{DossierSubmitted, DossierRejected, true},
		{DossierDraft, DossierApproved, false},
		{DossierDraft, DossierRejected, false},
		{DossierSubmitted, DossierDraft, false},
		{DossierApproved, DossierRejected, false},
		{DossierApproved, DossierSubmitted, false},
		{DossierRejected, DossierDraft, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("transition %s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestValidModuleNumber(t *testing.T) {
	for n := 1; n <= 5; n++ {
		if !ValidModuleNumber(n) {
			t.Fatalf("expected module number %d to be valid", n)
		}
	}
	for _, n := range []int{0, -1, 6, 100} {
		if ValidModuleNumber(n) {
			t.Fatalf("expected module number %d to be invalid", n)
		}
	}
}
