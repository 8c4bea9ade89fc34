package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Fake API paths, relative to the server root.
const (
	PathClansList         = "/wotx/clans/list/"
	PathAccountList       = "/wotx/account/list/"
	PathClansAccountinfo  = "/wotx/clans/accountinfo/"
	PathTanksStats        = "/wotx/tanks/stats/"
	PathVehicles          = "/wotx/encyclopedia/vehicles/"
	PathWn8ExpectedValues = "/wn8exp.json"
)

type fakeClan struct {
	ID  int64
	Tag string
}

type fakeAccount struct {
	ID       int64
	Nickname string
	ClanID   int64
}

type fakeFailure struct {
	remaining int
	status    int
}

// FakeAPI is an httptest server that answers the game-statistics endpoints
// from in-memory fixtures. Every request is counted per path, and failures can
// be injected per path.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	clans    []fakeClan
	accounts []fakeAccount
	tanks    map[int64][]map[string]any
	vehicles map[int64]map[string]any
	expected []map[string]any
	failures map[string]*fakeFailure
	calls    map[string]int
	appIDs   map[string]struct{}
}

// NewFakeAPI starts a fake server that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		tanks:    make(map[int64][]map[string]any),
		vehicles: make(map[int64]map[string]any),
		failures: make(map[string]*fakeFailure),
		calls:    make(map[string]int),
		appIDs:   make(map[string]struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(PathClansList, f.wrap(f.handleClans))
	mux.HandleFunc(PathAccountList, f.wrap(f.handleAccounts))
	mux.HandleFunc(PathClansAccountinfo, f.wrap(f.handleMembership))
	mux.HandleFunc(PathTanksStats, f.wrap(f.handleTanks))
	mux.HandleFunc(PathVehicles, f.wrap(f.handleVehicles))
	mux.HandleFunc(PathWn8ExpectedValues, f.wrap(f.handleExpected))
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// BaseURL is the API root to configure in clients.
func (f *FakeAPI) BaseURL() string {
	return f.server.URL + "/wotx"
}

// ExpectedValuesURL is the WN8 reference table location.
func (f *FakeAPI) ExpectedValuesURL() string {
	return f.server.URL + PathWn8ExpectedValues
}

// AddClan registers a clan.
func (f *FakeAPI) AddClan(id int64, tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clans = append(f.clans, fakeClan{ID: id, Tag: tag})
}

// AddPlayer registers an account; clanID 0 means no current clan.
func (f *FakeAPI) AddPlayer(id int64, nickname string, clanID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = append(f.accounts, fakeAccount{ID: id, Nickname: nickname, ClanID: clanID})
}

// AddVehicle registers an encyclopedia entry.
func (f *FakeAPI) AddVehicle(tankID int64, name string, tier int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehicles[tankID] = map[string]any{"tank_id": tankID, "name": name, "tier": tier, "type": "mediumTank"}
}

// AddExpectedValues registers a WN8 reference row.
func (f *FakeAPI) AddExpectedValues(tankID int64, def, frag, spot, damage, winRate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expected = append(f.expected, map[string]any{
		"IDNum": tankID, "expDef": def, "expFrag": frag, "expSpot": spot, "expDamage": damage, "expWinRate": winRate,
	})
}

// AddTankStats registers the "all" statistics block of one vehicle for accountID.
func (f *FakeAPI) AddTankStats(accountID, tankID int64, all map[string]int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tanks[accountID] = append(f.tanks[accountID], map[string]any{"tank_id": tankID, "account_id": accountID, "all": all})
}

// FailNext makes the next n requests to path answer with status.
func (f *FakeAPI) FailNext(path string, n, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = &fakeFailure{remaining: n, status: status}
}

// Calls returns how many requests reached path, failed ones included.
func (f *FakeAPI) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// TotalCalls returns the number of requests across all paths.
func (f *FakeAPI) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// ApplicationIDs lists the distinct application ids seen on API paths.
func (f *FakeAPI) ApplicationIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.appIDs))
	for id := range f.appIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *FakeAPI) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		if id := r.URL.Query().Get("application_id"); id != "" {
			f.appIDs[id] = struct{}{}
		}
		failure := f.failures[r.URL.Path]
		if failure != nil && failure.remaining > 0 {
			failure.remaining--
			f.mu.Unlock()
			w.WriteHeader(failure.status)
			return
		}
		f.mu.Unlock()
		next(w, r)
	}
}

func (f *FakeAPI) handleClans(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	f.mu.Lock()
	defer f.mu.Unlock()
	var match *fakeClan
	for i := range f.clans {
		if strings.ToLower(f.clans[i].Tag) == search {
			match = &f.clans[i]
			break
		}
	}
	if match == nil && search != "" {
		for i := range f.clans {
			if strings.HasPrefix(strings.ToLower(f.clans[i].Tag), search) {
				match = &f.clans[i]
				break
			}
		}
	}
	data := []map[string]any{}
	if match != nil {
		data = append(data, map[string]any{"clan_id": match.ID, "tag": match.Tag, "name": match.Tag + " clan"})
	}
	writeEnvelope(w, len(data), data)
}

func (f *FakeAPI) handleAccounts(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	f.mu.Lock()
	defer f.mu.Unlock()
	data := []map[string]any{}
	for _, a := range f.accounts {
		if strings.ToLower(a.Nickname) == search {
			data = append(data, map[string]any{"account_id": a.ID, "nickname": a.Nickname})
		}
	}
	writeEnvelope(w, len(data), data)
}

func (f *FakeAPI) handleMembership(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("account_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, "account_id", "INVALID_ACCOUNT_ID", 407)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var info any
	for _, a := range f.accounts {
		if a.ID != id || a.ClanID == 0 {
			continue
		}
		tag := ""
		for _, c := range f.clans {
			if c.ID == a.ClanID {
				tag = c.Tag
			}
		}
		info = map[string]any{"account_id": a.ID, "clan_id": a.ClanID, "clan": map[string]any{"clan_id": a.ClanID, "tag": tag}}
	}
	writeEnvelope(w, 1, map[string]any{raw: info})
}

func (f *FakeAPI) handleTanks(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("account_id")
	id, _ := strconv.ParseInt(raw, 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	writeEnvelope(w, 1, map[string]any{raw: f.tanks[id]})
}

func (f *FakeAPI) handleVehicles(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := make(map[string]any, len(f.vehicles))
	for id, v := range f.vehicles {
		data[strconv.FormatInt(id, 10)] = v
	}
	writeEnvelope(w, len(data), data)
}

func (f *FakeAPI) handleExpected(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"header": map[string]any{"version": 1},
		"data":   f.expected,
	})
}

func writeEnvelope(w http.ResponseWriter, count int, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"meta":   map[string]any{"count": count},
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, field, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  map[string]any{"field": field, "message": message, "code": code, "value": nil},
	})
}
