package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseStageRejectsOtherSide(t *testing.T) {
	if _, err := ParseStage(string(SellerPublishListing), SideBuy); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue for seller stage on buy side, got %v", err)
	}
	stage, err := ParseStage(string(BuyerPropertySearch), SideBuy)
	if err != nil || stage != BuyerPropertySearch {
		t.Fatalf("expected buyer stage to parse, got %q %v", stage, err)
	}
}

func TestStageOrderFollowsPipeline(t *testing.T) {
	for _, side := range AllSides() {
		for i, stage := range side.Stages() {
			if stage.Order() != i {
				t.Fatalf("stage %s: expected order %d, got %d", stage, i, stage.Order())
			}
		}
	}
	if Stage("NOT_A_STAGE").Order() != -1 {
		t.Fatal("unknown stage should have order -1")
	}
}

func TestParseAppointmentKindDefaultsBlankToOther(t *testing.T) {
	kind, err := ParseAppointmentKind("")
	if err != nil || kind != KindOther {
		t.Fatalf("expected OTHER for blank kind, got %q %v", kind, err)
	}
	if _, err := ParseAppointmentKind("PICNIC"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestVisitKinds(t *testing.T) {
	visits := map[AppointmentKind]bool{
		KindShowing:      true,
		KindHouseVisit:   true,
		KindOpenHouse:    true,
		KindConsultation: false,
		KindInspection:   false,
		KindSigning:      false,
		KindOther:        false,
	}
	for kind, want := range visits {
		if kind.IsVisit() != want {
			t.Fatalf("%s: expected IsVisit=%v", kind, want)
		}
	}
}

func TestOptional(t *testing.T) {
	none := None[int]()
	if none.IsPresent() || none.Ptr() != nil || none.OrElse(4) != 4 {
		t.Fatal("None should be absent")
	}

	some := Some(0)
	if v, ok := some.Get(); !ok || v != 0 {
		t.Fatal("Some(0) should be present with zero value")
	}

	p := some.Ptr()
	*p = 9
	if some.OrElse(-1) != 0 {
		t.Fatal("Ptr must return a copy")
	}

	if FromPtr[time.Time](nil).IsPresent() {
		t.Fatal("FromPtr(nil) should be absent")
	}
}

func TestClosedRequiresTimestamp(t *testing.T) {
	tx := Transaction{Status: TransactionClosed}
	if tx.Closed() {
		t.Fatal("closed status without closed_at must not count as closed")
	}
	tx.ClosedAt = Some(time.Now())
	if !tx.Closed() {
		t.Fatal("expected transaction to be closed")
	}
}

func TestDisplayName(t *testing.T) {
	id := uuid.New()
	if got := (Client{ID: id, FirstName: " Ada ", LastName: "Lovelace"}).DisplayName(); got != "Ada Lovelace" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := (Client{ID: id, FirstName: "Ada"}).DisplayName(); got != "Ada" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := (Client{ID: id}).DisplayName(); got != id.String() {
		t.Fatalf("expected ID fallback, got %q", got)
	}
}

func TestScopeNarrowed(t *testing.T) {
	if (Scope{}).Narrowed() {
		t.Fatal("empty scope is not narrowed")
	}
	if !(Scope{Side: Some(SideSell)}).Narrowed() {
		t.Fatal("side filter narrows scope")
	}
	if !(Scope{ClientIDs: []uuid.UUID{uuid.New()}}).Narrowed() {
		t.Fatal("client filter narrows scope")
	}
	if sides := (Scope{Side: Some(SideSell)}).Sides(); len(sides) != 1 || sides[0] != SideSell {
		t.Fatalf("unexpected sides %v", sides)
	}
	if len((Scope{}).Sides()) != 2 {
		t.Fatal("unfiltered scope covers both sides")
	}
}
