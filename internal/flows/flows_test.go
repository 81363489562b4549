package flows

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/stitchgate/api"
)

func testIdentity() *api.Identity {
	return &api.Identity{
		ID:       "u-1",
		Username: "ada",
		Email:    "ada@example.com",
		Role:     api.RoleCustomer,
	}
}

func TestThrottleAllows(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cooldown := 5 * time.Second

	cases := []struct {
		name  string
		last  time.Time
		force bool
		want  bool
	}{
		{"never fetched", time.Time{}, false, true},
		{"inside window", now.Add(-2 * time.Second), false, false},
		{"exactly at window", now.Add(-cooldown), false, true},
		{"past window", now.Add(-time.Minute), false, true},
		{"forced inside window", now.Add(-time.Second), true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := State{LastFetch: tc.last}
			if got := ThrottleAllows(st, now, cooldown, tc.force); got != tc.want {
				t.Fatalf("ThrottleAllows = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyFetchSuccessClonesIdentity(t *testing.T) {
	identity := testIdentity()

	st := ApplyFetchSuccess(State{Status: StatusLoading, LastError: errors.New("old")}, identity)

	if st.Status != StatusReady {
		t.Fatalf("Status = %v, want ready", st.Status)
	}
	if st.LastError != nil {
		t.Fatalf("LastError = %v, want nil", st.LastError)
	}
	if st.Identity == identity {
		t.Fatal("state shares the caller's identity pointer")
	}
	identity.Username = "mutated"
	if st.Identity.Username != "ada" {
		t.Fatal("state identity changed through caller's pointer")
	}
}

func TestApplyFetchFailureKeepsIdentity(t *testing.T) {
	fetchErr := errors.New("backend down")
	st := ApplyFetchFailure(State{Identity: testIdentity(), Status: StatusReady}, fetchErr)

	if st.Status != StatusError {
		t.Fatalf("Status = %v, want error", st.Status)
	}
	if !errors.Is(st.LastError, fetchErr) {
		t.Fatalf("LastError = %v, want %v", st.LastError, fetchErr)
	}
	if st.Identity == nil || st.Identity.ID != "u-1" {
		t.Fatal("identity must survive a fetch failure")
	}
}

func TestApplyFetchUnauthorizedClearsAndBumpsEpoch(t *testing.T) {
	st := ApplyFetchUnauthorized(State{Identity: testIdentity(), Status: StatusReady, Epoch: 3})

	if st.Identity != nil {
		t.Fatal("identity must be cleared on 401")
	}
	if st.Status != StatusReady {
		t.Fatalf("Status = %v, want ready (401 is determinate, not an error)", st.Status)
	}
	if st.LastError != nil {
		t.Fatalf("LastError = %v, want nil", st.LastError)
	}
	if st.Epoch != 4 {
		t.Fatalf("Epoch = %d, want 4", st.Epoch)
	}
}

func TestApplyLoginResetsFetchClock(t *testing.T) {
	before := State{
		Status:    StatusReady,
		LastFetch: time.Unix(1_700_000_000, 0),
		Epoch:     7,
	}

	st := ApplyLogin(before, testIdentity())

	if !st.LastFetch.IsZero() {
		t.Fatal("login must clear the cooldown clock")
	}
	if st.Epoch != 8 {
		t.Fatalf("Epoch = %d, want 8", st.Epoch)
	}
	if st.Identity == nil || st.Identity.ID != "u-1" {
		t.Fatalf("Identity = %+v", st.Identity)
	}
}

func TestApplyLogoutIdempotent(t *testing.T) {
	once := ApplyLogout(State{Identity: testIdentity(), Status: StatusReady, Epoch: 1})
	twice := ApplyLogout(once)

	if once.Identity != nil || twice.Identity != nil {
		t.Fatal("logout must clear the identity")
	}
	if once.Status != StatusReady || twice.Status != StatusReady {
		t.Fatal("logged-out state is determinate")
	}
	// Epoch keeps moving; everything else is stable.
	once.Epoch, twice.Epoch = 0, 0
	if once != twice {
		t.Fatalf("repeated logout diverged: %+v vs %+v", once, twice)
	}
}

func TestValidateLoginInput(t *testing.T) {
	valid := LoginInput{Token: "tok", Identity: testIdentity()}
	if err := ValidateLoginInput(valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	invalid := []LoginInput{
		{Token: "", Identity: testIdentity()},
		{Token: "   ", Identity: testIdentity()},
		{Token: "tok", Identity: nil},
		{},
	}
	for i, in := range invalid {
		if err := ValidateLoginInput(in); !errors.Is(err, ErrInvalidLoginPayload) {
			t.Fatalf("case %d: err = %v, want ErrInvalidLoginPayload", i, err)
		}
	}
}

func TestCacheEntryRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	raw, err := EncodeCacheEntry(*testIdentity(), now)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	entry, ok := DecodeCacheEntry(raw)
	if !ok {
		t.Fatal("decode rejected a freshly encoded entry")
	}
	if entry.Data.ID != "u-1" || entry.Data.Role != api.RoleCustomer {
		t.Fatalf("decoded identity = %+v", entry.Data)
	}
	if got := entry.SavedAt(); !got.Equal(now) {
		t.Fatalf("SavedAt = %v, want %v", got, now)
	}
}

func TestDecodeCacheEntryCorrupt(t *testing.T) {
	cases := []string{
		"",
		"not json",
		"[]",
		`{"data":{},"timestamp":0}`,
		`{"data":{},"timestamp":-5}`,
	}
	for _, raw := range cases {
		if _, ok := DecodeCacheEntry(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestDecodeCacheEntryDefaultsRole(t *testing.T) {
	entry, ok := DecodeCacheEntry(`{"data":{"_id":"u-2","username":"bo"},"timestamp":1700000000000}`)
	if !ok {
		t.Fatal("decode failed")
	}
	if entry.Data.Role != api.RoleCustomer {
		t.Fatalf("Role = %q, want default %q", entry.Data.Role, api.RoleCustomer)
	}
}

func TestCacheFresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	ttl := 5 * time.Minute

	cases := []struct {
		name    string
		savedAt time.Time
		want    bool
	}{
		{"one minute old", now.Add(-time.Minute), true},
		{"exactly at ttl", now.Add(-ttl), true},
		{"just past ttl", now.Add(-ttl - time.Millisecond), false},
		{"hours old", now.Add(-3 * time.Hour), false},
		{"future stamp", now.Add(time.Minute), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CacheFresh(tc.savedAt, now, ttl); got != tc.want {
				t.Fatalf("CacheFresh = %v, want %v", got, tc.want)
			}
		})
	}
}
