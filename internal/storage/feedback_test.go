package storage

import "testing"

func TestUpsertEventFeedbackAssignsIDAndDefaults(t *testing.T) {
	s, _ := Open(t.TempDir())
	f, err := s.UpsertEventFeedback("app1", EventFeedback{EventID: "e1", Message: "looks good"})
	if err != nil {
		t.Fatalf("UpsertEventFeedback: %v", err)
	}
	if f.ID == "" || f.Severity != "info" || f.CreatedAt.IsZero() {
		t.Fatalf("expected defaults applied, got %+v", f)
	}
}

func TestListEventFeedbackReplaysAppendOrder(t *testing.T) {
	s, _ := Open(t.TempDir())
	s.UpsertEventFeedback("app1", EventFeedback{EventID: "e1", Message: "first"})
	s.UpsertEventFeedback("app1", EventFeedback{EventID: "e1", Message: "second", Severity: "warn"})

	got, err := s.ListEventFeedback("app1", "e1")
	if err != nil {
		t.Fatalf("ListEventFeedback: %v", err)
	}
	if len(got) != 2 || got[0].Message != "first" || got[1].Severity != "warn" {
		t.Fatalf("unexpected feedback: %+v", got)
	}
}
