package status

import "testing"

func TestNormalizeSearch(t *testing.T) {
	tests := []struct {
		raw  string
		want SearchStatus
	}{
		{"pending", SearchPending},
		{" In_Review ", SearchInReview},
		{"completed", SearchCompleted},
		{"", SearchPending},
		{"archived", SearchPending},
		{"in_execution", SearchPending},
	}
	for _, tt := range tests {
		if got := NormalizeSearch(tt.raw); got != tt.want {
			t.Fatalf("NormalizeSearch(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizePatentRejectsDisplayOnlyStates(t *testing.T) {
	if got := NormalizePatent("filed"); got != PatentPending {
		t.Fatalf("display-only state normalized to %q, want pending", got)
	}
	if got := PatentFiled.DisplayText(); got != "Depositado" {
		t.Fatalf("display-only state text = %q", got)
	}
	if got := DisplayText(VariantPatent, "granted"); got != "Concedido" {
		t.Fatalf("DisplayText(patent, granted) = %q", got)
	}
}

func TestNextIsSingleForwardStep(t *testing.T) {
	n, ok := SearchReceived.Next()
	if !ok || n != SearchInReview {
		t.Fatalf("received.Next() = %q,%v", n, ok)
	}
	if _, ok := SearchCompleted.Next(); ok {
		t.Fatalf("completed must be terminal")
	}

	o, ok := ObjectionReceived.Next()
	if !ok || o != ObjectionInExecution {
		t.Fatalf("objection received.Next() = %q,%v", o, ok)
	}

	p, ok := PatentReportInProgress.Next()
	if !ok || p != PatentReportCompleted {
		t.Fatalf("patent report_in_progress.Next() = %q,%v", p, ok)
	}
	if !IsTerminal(VariantPatent, "report_completed") {
		t.Fatalf("report_completed must be terminal")
	}
}

func TestStage(t *testing.T) {
	if got := Stage(VariantSearch, "in_review"); got != 2 {
		t.Fatalf("Stage(search, in_review) = %d", got)
	}
	if got := Stage(VariantObjection, "bogus"); got != 0 {
		t.Fatalf("unknown status should normalize to stage 0, got %d", got)
	}
	if got := Stage(Variant("other"), "pending"); got != -1 {
		t.Fatalf("unknown variant stage = %d", got)
	}
}

func TestDisplayTextFallsBackToPending(t *testing.T) {
	if got := SearchStatus("weird").DisplayText(); got != "Pendente" {
		t.Fatalf("fallback text = %q", got)
	}
	if got := ObjectionInExecution.Icon(); got == "" {
		t.Fatalf("icon missing")
	}
}

func TestParseVariant(t *testing.T) {
	if v, ok := ParseVariant(" Patent "); !ok || v != VariantPatent {
		t.Fatalf("ParseVariant = %q,%v", v, ok)
	}
	if _, ok := ParseVariant("invoice"); ok {
		t.Fatalf("unexpected variant accepted")
	}
}
