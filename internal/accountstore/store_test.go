package accountstore

import (
	"path/filepath"
	"testing"
	"time"

	"synnergy-network/internal/result"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "lws.db"), time.Second, 4, 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testAddress(b byte) Address {
	var a Address
	a.SpendPublic[0] = b
	a.ViewPublic[0] = b + 1
	return a
}

func TestCreateAccountRequestThenApprove(t *testing.T) {
	s := openTestStore(t)
	addr := testAddress(1)
	viewKey := [32]byte{9}

	if err := s.Writer().CreateAccountRequest(addr, viewKey); err != nil {
		t.Fatalf("CreateAccountRequest: %v", err)
	}
	if err := s.Writer().ApproveRequest(CreateAccount, addr); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Finish()

	acc, ok, err := r.AccountByAddress(addr)
	if err != nil {
		t.Fatalf("AccountByAddress: %v", err)
	}
	if !ok {
		t.Fatal("account not found after approval")
	}
	if acc.Status != Active {
		t.Fatalf("status = %v, want Active", acc.Status)
	}
	if acc.ViewKey != viewKey {
		t.Fatal("view key not preserved through approval")
	}
}

func TestCreateAccountRequestDuplicateFails(t *testing.T) {
	s := openTestStore(t)
	addr := testAddress(2)

	if err := s.Writer().CreateAccountRequest(addr, [32]byte{}); err != nil {
		t.Fatalf("first CreateAccountRequest: %v", err)
	}
	err := s.Writer().CreateAccountRequest(addr, [32]byte{})
	if err == nil {
		t.Fatal("expected duplicate request to fail")
	}
	if err.Code != result.DuplicateRequest {
		t.Fatalf("code = %v, want DuplicateRequest", err.Code)
	}
}

func TestCreateAccountRequestAgainstExistingAccountFails(t *testing.T) {
	s := openTestStore(t)
	addr := testAddress(3)

	if err := s.Writer().CreateAccountRequest(addr, [32]byte{}); err != nil {
		t.Fatalf("CreateAccountRequest: %v", err)
	}
	if err := s.Writer().ApproveRequest(CreateAccount, addr); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	err := s.Writer().CreateAccountRequest(addr, [32]byte{})
	if err == nil || err.Code != result.AccountExists {
		t.Fatalf("expected AccountExists, got %v", err)
	}
}

func TestRequestQueueMaxEnforced(t *testing.T) {
	s := openTestStore(t) // requestQueueMax = 2
	if err := s.Writer().CreateAccountRequest(testAddress(10), [32]byte{}); err != nil {
		t.Fatalf("req1: %v", err)
	}
	if err := s.Writer().CreateAccountRequest(testAddress(20), [32]byte{}); err != nil {
		t.Fatalf("req2: %v", err)
	}
	err := s.Writer().CreateAccountRequest(testAddress(30), [32]byte{})
	if err == nil || err.Code != result.CreateQueueMax {
		t.Fatalf("expected CreateQueueMax, got %v", err)
	}
}

func TestAppendSpendRejectsMissingSource(t *testing.T) {
	s := openTestStore(t)
	err := s.Writer().AppendSpend(1, Spend{Source: OutputID{BlockHeight: 5, Low: 1}})
	if err == nil || err.Code != result.InternalInvariantViolation {
		t.Fatalf("expected InternalInvariantViolation, got %v", err)
	}
}

func TestAppendSpendSucceedsWhenSourceExists(t *testing.T) {
	s := openTestStore(t)
	out := Output{ID: OutputID{BlockHeight: 5, Low: 1}, Amount: 100}
	if err := s.Writer().AppendOutput(1, out); err != nil {
		t.Fatalf("AppendOutput: %v", err)
	}
	spend := Spend{Source: out.ID, Link: TxLink{Height: 6}}
	if err := s.Writer().AppendSpend(1, spend); err != nil {
		t.Fatalf("AppendSpend: %v", err)
	}

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Finish()

	sc := r.Spends(1)
	got, ok := sc.First()
	if !ok {
		t.Fatal("expected one spend")
	}
	if got.Source != out.ID {
		t.Fatalf("spend.Source = %+v, want %+v", got.Source, out.ID)
	}
}

func TestOutputsOrderedByIDAscending(t *testing.T) {
	s := openTestStore(t)
	ids := []OutputID{
		{BlockHeight: 10, Low: 2},
		{BlockHeight: 5, Low: 9},
		{BlockHeight: 10, Low: 1},
	}
	for _, id := range ids {
		if err := s.Writer().AppendOutput(1, Output{ID: id}); err != nil {
			t.Fatalf("AppendOutput: %v", err)
		}
	}

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Finish()

	oc := r.Outputs(1)
	var got []OutputID
	for o, ok := oc.First(); ok; o, ok = oc.Advance() {
		got = append(got, o.ID)
	}
	want := []OutputID{
		{BlockHeight: 5, Low: 9},
		{BlockHeight: 10, Low: 1},
		{BlockHeight: 10, Low: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d outputs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestUpdateScanHeightRejectsBelowStartHeight(t *testing.T) {
	s := openTestStore(t)
	addr := testAddress(40)
	if err := s.Writer().CreateAccountRequest(addr, [32]byte{}); err != nil {
		t.Fatalf("CreateAccountRequest: %v", err)
	}
	if err := s.Writer().ApproveRequest(CreateAccount, addr); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if err := s.Writer().ImportRequest(addr, 100); err != nil {
		t.Fatalf("ImportRequest: %v", err)
	}
	if err := s.Writer().ApproveRequest(ImportScan, addr); err != nil {
		t.Fatalf("ApproveRequest(ImportScan): %v", err)
	}

	err := s.Writer().UpdateScanHeight(0, 50)
	if err == nil || err.Code != result.InternalInvariantViolation {
		t.Fatalf("expected InternalInvariantViolation for scan_height < start_height, got %v", err)
	}
}

func TestRecordBlockEvictsOldest(t *testing.T) {
	s := openTestStore(t) // blockBufferSize = 4
	for h := uint64(1); h <= 5; h++ {
		ref := BlockRef{Height: h}
		ref.Hash[0] = byte(h)
		if err := s.Writer().RecordBlock(ref); err != nil {
			t.Fatalf("RecordBlock(%d): %v", h, err)
		}
	}

	r, err := s.NewReader()
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Finish()

	blocks := r.RecentBlocks()
	if len(blocks) != 4 {
		t.Fatalf("len(blocks) = %d, want 4", len(blocks))
	}
	if blocks[0].Height != 2 {
		t.Fatalf("oldest retained height = %d, want 2 (height 1 evicted)", blocks[0].Height)
	}
}
