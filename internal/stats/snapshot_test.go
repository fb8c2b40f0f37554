package stats

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/codeberry/pulldash/internal/model"
)

func TestBuildSnapshotCounts(t *testing.T) {
	approved := openPR("widget", "alice", 48*time.Hour)
	approved.Approvals = []model.ReviewAction{{Login: "erin", SubmittedAt: testNow.Add(-time.Hour)}}

	inReview := openPR("widget", "bob", 24*time.Hour)
	inReview.Number = 2
	inReview.ReviewRequests = []model.Reviewer{{Login: "carol"}}

	plain := openPR("gadget", "alice", 72*time.Hour)
	plain.Number = 3

	draft := openPR("gadget", "dave", 24*time.Hour)
	draft.Number = 4
	draft.Draft = true

	// Created long ago; the snapshot applies no time window.
	ancient := openPR("gadget", "frank", 400*24*time.Hour)
	ancient.Number = 5

	prs := []model.PullRequest{approved, inReview, plain, draft, ancient}
	snap := BuildSnapshot(prs, testNow)

	if snap.ReadyToShip != 1 {
		t.Errorf("ReadyToShip = %d, want 1", snap.ReadyToShip)
	}
	if snap.Open != 2 {
		t.Errorf("Open = %d, want 2", snap.Open)
	}
	if snap.NeedsReview != 1 {
		t.Errorf("NeedsReview = %d, want 1", snap.NeedsReview)
	}

	alice := snap.People["alice"]
	if alice == nil || alice.Open != 2 {
		t.Errorf("alice = %+v, want Open 2", alice)
	}
	dave := snap.People["dave"]
	if dave == nil || dave.Draft != 1 {
		t.Errorf("dave = %+v, want Draft 1", dave)
	}

	// carol appears through her reviewer role on an open record, not as an
	// author.
	carol := snap.People["carol"]
	if carol == nil || carol.AssignedForReview != 1 {
		t.Errorf("carol = %+v, want AssignedForReview 1", carol)
	}

	erin := snap.Reviewers["erin"]
	if erin == nil || erin.ReviewCount != 1 {
		t.Errorf("erin = %+v, want ReviewCount 1", erin)
	}
}

func TestBuildSnapshotIgnoresClosedReviewRequests(t *testing.T) {
	closed := openPR("widget", "alice", 48*time.Hour)
	closed.State = model.StateClosed
	closed.ReviewRequests = []model.Reviewer{{Login: "bob"}}

	snap := BuildSnapshot([]model.PullRequest{closed}, testNow)

	if bob := snap.People["bob"]; bob != nil && bob.AssignedForReview != 0 {
		t.Errorf("bob.AssignedForReview = %d, want 0 for a closed record", bob.AssignedForReview)
	}
}

func TestBuildSnapshotMedianOpenAge(t *testing.T) {
	prs := []model.PullRequest{
		openPR("widget", "alice", 10*time.Hour),
		func() model.PullRequest {
			pr := openPR("widget", "bob", 20*time.Hour)
			pr.Number = 2
			return pr
		}(),
		func() model.PullRequest {
			pr := openPR("widget", "carol", 90*time.Hour)
			pr.Number = 3
			return pr
		}(),
		mergedPR("widget", "dave", 300*time.Hour, 250*time.Hour), // not open, excluded
	}

	snap := BuildSnapshot(prs, testNow)
	if snap.MedianOpenAgeHours != 20 {
		t.Errorf("MedianOpenAgeHours = %v, want 20", snap.MedianOpenAgeHours)
	}
}

func TestBuildSnapshotEmptyInput(t *testing.T) {
	snap := BuildSnapshot(nil, testNow)
	if snap.ReadyToShip != 0 || snap.Open != 0 || snap.NeedsReview != 0 {
		t.Errorf("empty input produced non-zero counts: %+v", snap)
	}
	if len(snap.People) != 0 || len(snap.Reviewers) != 0 {
		t.Error("empty input produced non-empty breakdowns")
	}
}

func TestBuildActivityWindows(t *testing.T) {
	recent := mergedPR("widget", "alice", 48*time.Hour, 6*time.Hour)
	thisWeek := mergedPR("widget", "alice", 10*24*time.Hour, 3*24*time.Hour)
	thisWeek.Number = 2
	thisMonth := mergedPR("widget", "bob", 40*24*time.Hour, 20*24*time.Hour)
	thisMonth.Number = 3
	older := mergedPR("widget", "bob", 80*24*time.Hour, 60*24*time.Hour)
	older.Number = 4

	reviewed := openPR("widget", "carol", 5*24*time.Hour)
	reviewed.Number = 5
	reviewed.Approvals = []model.ReviewAction{
		{Login: "dave", SubmittedAt: testNow.Add(-2 * time.Hour)},
	}
	reviewed.ChangesRequested = []model.ReviewAction{
		{Login: "dave", SubmittedAt: testNow.Add(-4 * 24 * time.Hour)},
	}

	prs := []model.PullRequest{recent, thisWeek, thisMonth, older, reviewed}
	periods := BuildActivity(prs, testNow)

	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(periods))
	}

	day, week, month := periods[0], periods[1], periods[2]

	if got := day.Merged["alice"].Count; got != 1 {
		t.Errorf("1d merged for alice = %d, want 1", got)
	}
	if got := week.Merged["alice"].Count; got != 2 {
		t.Errorf("7d merged for alice = %d, want 2", got)
	}
	if got := month.Merged["bob"].Count; got != 1 {
		t.Errorf("30d merged for bob = %d, want 1 (older merge excluded)", got)
	}

	if got := day.Reviewed["dave"].Count; got != 1 {
		t.Errorf("1d reviewed for dave = %d, want 1", got)
	}
	if got := week.Reviewed["dave"].Count; got != 2 {
		t.Errorf("7d reviewed for dave = %d, want 2 (both review actions)", got)
	}
}

func TestBuildActivityAvatarFromMostRecentAction(t *testing.T) {
	pr := openPR("widget", "alice", 5*24*time.Hour)
	pr.Approvals = []model.ReviewAction{
		{Login: "dave", AvatarURL: "old.png", SubmittedAt: testNow.Add(-48 * time.Hour)},
		{Login: "dave", AvatarURL: "new.png", SubmittedAt: testNow.Add(-1 * time.Hour)},
	}

	// The carried avatar must not depend on slice order.
	flipped := pr
	flipped.Approvals = []model.ReviewAction{pr.Approvals[1], pr.Approvals[0]}

	for _, input := range [][]model.PullRequest{{pr}, {flipped}} {
		periods := BuildActivity(input, testNow)
		week := periods[1]
		if got := week.Reviewed["dave"].AvatarURL; got != "new.png" {
			t.Errorf("avatar = %q, want new.png", got)
		}
	}
}

func TestBuildActivityOrderIndependent(t *testing.T) {
	prs := buildMixedCollection()
	want := BuildActivity(prs, testNow)

	rng := rand.New(rand.NewSource(11))
	shuffled := make([]model.PullRequest, len(prs))
	copy(shuffled, prs)
	rng.Shuffle(len(shuffled), func(a, b int) {
		shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
	})

	got := BuildActivity(shuffled, testNow)
	if !reflect.DeepEqual(got, want) {
		t.Error("activity differs after shuffle")
	}
}
