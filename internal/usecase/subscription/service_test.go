package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/greenlake/internal/domain"
	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	"github.com/kailas-cloud/greenlake/internal/domain/status"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
)

// --- Mocks ---

type mockRepo struct {
	subs    []domsub.Subscription
	listErr error

	createErr  error
	createKeys []string
	createCall int

	deleteErr error
	deleted   []string

	renewErr error
	renewed  map[string]bool

	settings    map[domdev.Type]bool
	settingsErr error

	autoSubErr     error
	autoSubDesired map[domdev.Type]bool
	autoSubCall    int

	listCall int
}

func (m *mockRepo) List(_ context.Context, _ domsub.Type) ([]domsub.Subscription, error) {
	m.listCall++
	return m.subs, m.listErr
}

func (m *mockRepo) Create(_ context.Context, keys []string) error {
	m.createCall++
	m.createKeys = keys
	return m.createErr
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockRepo) SetAutoRenew(_ context.Context, id string, enabled bool) error {
	if m.renewed == nil {
		m.renewed = make(map[string]bool)
	}
	m.renewed[id] = enabled
	return m.renewErr
}

func (m *mockRepo) AutoSubscriptionSettings(_ context.Context) (map[domdev.Type]bool, error) {
	return m.settings, m.settingsErr
}

func (m *mockRepo) SetAutoSubscription(_ context.Context, desired map[domdev.Type]bool) error {
	m.autoSubCall++
	m.autoSubDesired = desired
	return m.autoSubErr
}

func makeSub(id, key string, quantity, available int, endIn time.Duration, autoRenew bool) domsub.Subscription {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domsub.Reconstruct(
		id, key, domsub.TypeDevice, "standard",
		quantity, available,
		now.AddDate(-1, 0, 0), now.Add(endIn), autoRenew,
	)
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
}

func outcomes(items []status.Item) []status.Outcome {
	out := make([]status.Outcome, len(items))
	for i := range items {
		out[i] = items[i].Outcome()
	}
	return out
}

// --- Add tests ---

func TestAdd_AllNew(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	keys := []string{"AAAA1111", "BBBB2222", "CCCC3333"}
	results, err := svc.Add(context.Background(), keys, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Outcome() != status.Complete {
			t.Errorf("result[%d] expected Complete, got %s (%s)", i, r.Outcome(), r.Detail())
		}
		if r.Identifier() != keys[i] {
			t.Errorf("result[%d] out of order: %s", i, r.Identifier())
		}
	}
	if repo.createCall != 1 {
		t.Errorf("expected one batched create, got %d", repo.createCall)
	}
}

func TestAdd_ExistingKeyWarnsAndIsNotResent(t *testing.T) {
	repo := &mockRepo{subs: []domsub.Subscription{makeSub("id1", "AAAA1111", 5, 5, time.Hour, false)}}
	svc := New(repo)

	results, err := svc.Add(context.Background(), []string{"AAAA1111", "BBBB2222"}, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if results[0].Outcome() != status.Warning {
		t.Errorf("existing key expected Warning, got %s", results[0].Outcome())
	}
	if results[1].Outcome() != status.Complete {
		t.Errorf("new key expected Complete, got %s", results[1].Outcome())
	}
	if len(repo.createKeys) != 1 || repo.createKeys[0] != "BBBB2222" {
		t.Errorf("expected only the new key in the create payload, got %v", repo.createKeys)
	}
}

func TestAdd_EmptyKeysDropped(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	results, err := svc.Add(context.Background(), []string{"", "AAAA1111", "  "}, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected empty keys dropped from results, got %d records", len(results))
	}
	if results[0].Identifier() != "AAAA1111" {
		t.Errorf("unexpected identifier %q", results[0].Identifier())
	}
}

func TestAdd_MalformedKeyFailsLocally(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	results, err := svc.Add(context.Background(), []string{"bad-key", "AAAA1111"}, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if results[0].Outcome() != status.Failed {
		t.Errorf("malformed key expected Failed, got %s", results[0].Outcome())
	}
	if !errors.Is(results[0].Cause(), domain.ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey cause, got %v", results[0].Cause())
	}
	if len(repo.createKeys) != 1 || repo.createKeys[0] != "AAAA1111" {
		t.Errorf("expected only the valid key in the create payload, got %v", repo.createKeys)
	}
}

func TestAdd_OversizedBatchFailsBeforeAnyCall(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	keys := []string{"AAAA1111", "BBBB2222", "CCCC3333", "DDDD4444", "EEEE5555", "FFFF6666"}
	results, err := svc.Add(context.Background(), keys, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if len(results) != len(keys) {
		t.Fatalf("expected %d results, got %d", len(keys), len(results))
	}
	for i, r := range results {
		if r.Outcome() != status.Failed {
			t.Errorf("result[%d] expected Failed, got %s", i, r.Outcome())
		}
		if !errors.Is(r.Cause(), domain.ErrBatchTooLarge) {
			t.Errorf("result[%d] expected ErrBatchTooLarge, got %v", i, r.Cause())
		}
	}
	if repo.listCall != 0 || repo.createCall != 0 {
		t.Errorf("oversized batch must not reach the API: list=%d create=%d", repo.listCall, repo.createCall)
	}
}

func TestAdd_BatchFailureReconcilesSurvivors(t *testing.T) {
	boom := errors.New("api exploded")
	repo := &mockRepo{createErr: boom}
	svc := New(repo)

	results, err := svc.Add(context.Background(), []string{"AAAA1111", "BBBB2222"}, false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	for i, r := range results {
		if r.Outcome() != status.Failed {
			t.Errorf("result[%d] expected Failed after batch error, got %s", i, r.Outcome())
		}
		if !errors.Is(r.Cause(), boom) {
			t.Errorf("result[%d] expected the batch error as cause, got %v", i, r.Cause())
		}
	}
}

func TestAdd_StateFetchErrorIsReturned(t *testing.T) {
	repo := &mockRepo{listErr: errors.New("503")}
	svc := New(repo)

	results, err := svc.Add(context.Background(), []string{"AAAA1111"}, false)
	if err == nil {
		t.Fatal("expected setup error to terminate the invocation")
	}
	if results != nil {
		t.Errorf("expected no per-item records on setup failure, got %v", outcomes(results))
	}
}

func TestAdd_DryRunMakesNoCalls(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	results, err := svc.Add(context.Background(), []string{"AAAA1111", "BBBB2222"}, true)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if results != nil {
		t.Errorf("dry run must return no records, got %v", outcomes(results))
	}
	if repo.listCall != 0 || repo.createCall != 0 {
		t.Errorf("dry run must not touch the API: list=%d create=%d", repo.listCall, repo.createCall)
	}
}

// --- Remove tests ---

func TestRemove_FullyAvailableIsDeleted(t *testing.T) {
	repo := &mockRepo{subs: []domsub.Subscription{makeSub("id1", "AAAA1111", 5, 5, time.Hour, false)}}
	svc := New(repo)

	results, err := svc.Remove(context.Background(), []string{"AAAA1111"}, false)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if results[0].Outcome() != status.Complete {
		t.Errorf("expected Complete, got %s (%s)", results[0].Outcome(), results[0].Detail())
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "id1" {
		t.Errorf("expected delete by server id, got %v", repo.deleted)
	}
}

func TestRemove_PartiallyConsumedWarnsWithoutDelete(t *testing.T) {
	repo := &mockRepo{subs: []domsub.Subscription{makeSub("id1", "AAAA1111", 5, 3, time.Hour, false)}}
	svc := New(repo)

	results, err := svc.Remove(context.Background(), []string{"AAAA1111"}, false)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if results[0].Outcome() != status.Warning {
		t.Errorf("expected Warning, got %s", results[0].Outcome())
	}
	if results[0].Detail() == "" {
		t.Error("expected remediation detail on the warning")
	}
	if len(repo.deleted) != 0 {
		t.Errorf("partially consumed subscription must not be deleted, got %v", repo.deleted)
	}
}

func TestRemove_UnknownKeyFails(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	results, err := svc.Remove(context.Background(), []string{"AAAA1111"}, false)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if results[0].Outcome() != status.Failed {
		t.Errorf("expected Failed, got %s", results[0].Outcome())
	}
	if !errors.Is(results[0].Cause(), domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", results[0].Cause())
	}
}

// --- List tests ---

func TestList_FiltersIntersect(t *testing.T) {
	repo := &mockRepo{subs: []domsub.Subscription{
		makeSub("id1", "CCCC3333", 5, 5, time.Hour, false),  // valid, available
		makeSub("id2", "AAAA1111", 5, 0, time.Hour, false),  // valid, drained
		makeSub("id3", "BBBB2222", 5, 5, -time.Hour, false), // expired, available
	}}
	svc := New(repo).WithClock(fixedClock())

	subs, err := svc.List(context.Background(), Filter{Valid: true, WithAvailableQuantity: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(subs) != 1 || subs[0].Key() != "CCCC3333" {
		t.Errorf("expected only the valid available subscription, got %d records", len(subs))
	}
}

func TestList_SortedByKey(t *testing.T) {
	repo := &mockRepo{subs: []domsub.Subscription{
		makeSub("id1", "CCCC3333", 5, 5, time.Hour, false),
		makeSub("id2", "AAAA1111", 5, 5, time.Hour, false),
		makeSub("id3", "BBBB2222", 5, 5, time.Hour, false),
	}}
	svc := New(repo).WithClock(fixedClock())

	subs, err := svc.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"AAAA1111", "BBBB2222", "CCCC3333"}
	for i := range want {
		if subs[i].Key() != want[i] {
			t.Errorf("subs[%d] = %s, want %s", i, subs[i].Key(), want[i])
		}
	}
}

// --- Auto-subscription tests ---

func TestSetAutoSubscription_AlreadyDesiredWarns(t *testing.T) {
	repo := &mockRepo{settings: map[domdev.Type]bool{domdev.TypeCompute: true}}
	svc := New(repo)

	results, err := svc.SetAutoSubscription(
		context.Background(),
		[]domdev.Type{domdev.TypeCompute, domdev.TypeStorage},
		true, false,
	)
	if err != nil {
		t.Fatalf("SetAutoSubscription: %v", err)
	}

	if results[0].Outcome() != status.Warning {
		t.Errorf("already-enabled type expected Warning, got %s", results[0].Outcome())
	}
	if results[1].Outcome() != status.Complete {
		t.Errorf("new type expected Complete, got %s", results[1].Outcome())
	}
	if repo.autoSubCall != 1 {
		t.Errorf("expected one batched settings call, got %d", repo.autoSubCall)
	}
	if len(repo.autoSubDesired) != 1 || !repo.autoSubDesired[domdev.TypeStorage] {
		t.Errorf("unexpected desired payload: %v", repo.autoSubDesired)
	}
}

func TestSetAutoSubscription_UnknownTypeFails(t *testing.T) {
	repo := &mockRepo{settings: map[domdev.Type]bool{}}
	svc := New(repo)

	results, err := svc.SetAutoSubscription(
		context.Background(), []domdev.Type{"SWITCH"}, true, false,
	)
	if err != nil {
		t.Fatalf("SetAutoSubscription: %v", err)
	}
	if results[0].Outcome() != status.Failed {
		t.Errorf("unknown type expected Failed, got %s", results[0].Outcome())
	}
	if repo.autoSubCall != 0 {
		t.Errorf("no survivors, expected no settings call, got %d", repo.autoSubCall)
	}
}

// --- Auto-renew tests ---

func TestSetAutoRenew(t *testing.T) {
	repo := &mockRepo{subs: []domsub.Subscription{
		makeSub("id1", "AAAA1111", 5, 5, time.Hour, false),
		makeSub("id2", "BBBB2222", 5, 5, time.Hour, true),
	}}
	svc := New(repo)

	results, err := svc.SetAutoRenew(
		context.Background(), []string{"AAAA1111", "BBBB2222", "CCCC3333"}, true, false,
	)
	if err != nil {
		t.Fatalf("SetAutoRenew: %v", err)
	}

	want := []status.Outcome{status.Complete, status.Warning, status.Failed}
	got := outcomes(results)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if !repo.renewed["id1"] {
		t.Error("expected auto-renew enabled on id1")
	}
	if _, ok := repo.renewed["id2"]; ok {
		t.Error("already-enabled subscription must not be patched")
	}
}
