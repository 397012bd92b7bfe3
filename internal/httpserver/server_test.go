package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/config"
	"github.com/robalobadob/treehouse/internal/db"
	"github.com/robalobadob/treehouse/internal/game"
	"github.com/robalobadob/treehouse/internal/puzzle"
	"github.com/robalobadob/treehouse/internal/words"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	conn, err := db.OpenMigrated(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	items, err := words.Default()
	if err != nil {
		t.Fatal(err)
	}
	srv := New(Deps{
		Config: config.Config{
			JWTSecret:      "test_secret",
			JWTExpiresDays: 1,
			CookieName:     "treehouse_token",
			DailySalt:      "test_salt",
		},
		Items: items,
		DB:    conn,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

// newClient returns a client with its own cookie jar, i.e. its own player.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return res.StatusCode
}

func TestDiagnosticsAndCatalog(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t)

	var health map[string]bool
	if code := doJSON(t, c, "GET", ts.URL+"/health", nil, &health); code != 200 || !health["ok"] {
		t.Fatalf("health: %d %v", code, health)
	}

	var all []words.Item
	if code := doJSON(t, c, "GET", ts.URL+"/words", nil, &all); code != 200 || len(all) != 25 {
		t.Fatalf("words: %d, %d items", code, len(all))
	}
	var phrases []words.Item
	doJSON(t, c, "GET", ts.URL+"/words?category=phrase", nil, &phrases)
	if len(phrases) != 12 {
		t.Fatalf("phrases: got %d", len(phrases))
	}
	var none []words.Item
	doJSON(t, c, "GET", ts.URL+"/words?category=nope", nil, &none)
	if none == nil || len(none) != 0 {
		t.Fatalf("unknown category should give empty list, got %v", none)
	}

	var games []catalog.Game
	if code := doJSON(t, c, "GET", ts.URL+"/games", nil, &games); code != 200 || len(games) != 10 {
		t.Fatalf("games: %d, %d", code, len(games))
	}

	if code := doJSON(t, c, "GET", ts.URL+"/nope", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown route: %d", code)
	}
}

func TestWordSearchFlow(t *testing.T) {
	srv, ts := newTestServer(t)
	c := newClient(t)

	var v game.WordSearchView
	if code := doJSON(t, c, "POST", ts.URL+"/wordsearch/new", map[string]int{"rounds": 1}, &v); code != 200 {
		t.Fatalf("new: %d", code)
	}
	if v.ID == "" || v.Rounds != 1 || v.State != game.StatePlaying || len(v.Grid) != puzzle.WordSearchSize {
		t.Fatalf("unexpected view: %+v", v)
	}
	if len(v.Words) == 0 {
		t.Fatal("no words to find")
	}

	// diagonal selections are rejected
	code := doJSON(t, c, "POST", ts.URL+"/wordsearch/select", selectReq{
		GameID: v.ID, Start: puzzle.Cell{Row: 0, Col: 0}, End: puzzle.Cell{Row: 2, Col: 2},
	}, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("diagonal: want 400, got %d", code)
	}

	// someone else cannot see or play this session
	other := newClient(t)
	if code := doJSON(t, other, "GET", ts.URL+"/wordsearch/"+v.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign get: %d", code)
	}

	g, err := srv.wordSearch.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatal(err)
	}
	ps := g.Placements()
	var last selectRes
	for i, p := range ps {
		// select backwards; reversed selections count too
		var res selectRes
		code := doJSON(t, c, "POST", ts.URL+"/wordsearch/select", selectReq{GameID: v.ID, Start: p.End(), End: p.Start()}, &res)
		if code != 200 || res.Match == nil || res.Match.Entry.ID != p.Entry.ID {
			t.Fatalf("select %d (%s): %d %+v", i, p.Entry.Text, code, res)
		}
		last = res
	}
	if last.State != game.StateFinished {
		t.Fatalf("want finished, got %s", last.State)
	}
	if last.Reward == nil || !last.Reward.First {
		t.Fatalf("missing first-time reward: %+v", last.Reward)
	}
	if got := last.Reward.Treehouse.Completed; len(got) != 1 || got[0] != catalog.WordSearch {
		t.Fatalf("completed: %v", got)
	}

	code = doJSON(t, c, "POST", ts.URL+"/wordsearch/select", selectReq{GameID: v.ID, Start: ps[0].Start(), End: ps[0].End()}, nil)
	if code != http.StatusConflict {
		t.Fatalf("select after finish: want 409, got %d", code)
	}

	var after game.WordSearchView
	doJSON(t, c, "GET", ts.URL+"/wordsearch/"+v.ID, nil, &after)
	if after.State != game.StateFinished {
		t.Fatalf("view state: %s", after.State)
	}
}

func TestCrosswordFlow(t *testing.T) {
	srv, ts := newTestServer(t)
	c := newClient(t)

	var v game.CrosswordView
	if code := doJSON(t, c, "POST", ts.URL+"/crossword/new", map[string]int{"rounds": 1}, &v); code != 200 {
		t.Fatalf("new: %d", code)
	}
	if v.Size != puzzle.CrosswordSize || len(v.Across)+len(v.Down) == 0 {
		t.Fatalf("unexpected view: %+v", v)
	}
	for _, cl := range append(v.Across, v.Down...) {
		if cl.Text != "" {
			t.Fatalf("answer leaked for clue %d", cl.Number)
		}
	}

	code := doJSON(t, c, "POST", ts.URL+"/crossword/check", checkReq{GameID: v.ID, Inputs: map[string]string{"x": "a"}}, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("bad cell key: want 400, got %d", code)
	}

	var miss checkRes
	doJSON(t, c, "POST", ts.URL+"/crossword/check", checkReq{GameID: v.ID, Inputs: map[string]string{}}, &miss)
	if miss.Complete || miss.State != game.StatePlaying || len(miss.Wrong) == 0 {
		t.Fatalf("empty inputs: %+v", miss)
	}

	g, err := srv.crosswords.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatal(err)
	}
	inputs := map[string]string{}
	for _, p := range g.Placements() {
		for i, cell := range p.Cells() {
			inputs[cell.Key()] = string(p.Entry.Word[i] - 'a' + 'A') // case does not matter
		}
	}
	var done checkRes
	if code := doJSON(t, c, "POST", ts.URL+"/crossword/check", checkReq{GameID: v.ID, Inputs: inputs}, &done); code != 200 {
		t.Fatalf("check: %d", code)
	}
	if !done.Complete || done.State != game.StateFinished || done.Checks != 2 {
		t.Fatalf("solution rejected: %+v", done)
	}
	if done.Reward == nil || done.Reward.Treehouse.Completed[0] != catalog.Crossword {
		t.Fatalf("reward: %+v", done.Reward)
	}
}

func TestProgressAndTreehouse(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t)

	if code := doJSON(t, c, "POST", ts.URL+"/progress/complete", completeReq{Game: "chess"}, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown game: %d", code)
	}

	var rw reward
	doJSON(t, c, "POST", ts.URL+"/progress/complete", completeReq{Game: catalog.Matching}, &rw)
	if !rw.First || len(rw.Treehouse.Unlocked) != catalog.UnlockPerGame {
		t.Fatalf("first completion: %+v", rw)
	}
	doJSON(t, c, "POST", ts.URL+"/progress/complete", completeReq{Game: catalog.Matching}, &rw)
	if rw.First || len(rw.Treehouse.Unlocked) != catalog.UnlockPerGame {
		t.Fatalf("replay: %+v", rw)
	}

	var th catalog.Treehouse
	doJSON(t, c, "GET", ts.URL+"/treehouse", nil, &th)
	if len(th.Completed) != 1 || th.Locked != 13 {
		t.Fatalf("treehouse: %+v", th)
	}

	var fresh catalog.Treehouse
	doJSON(t, newClient(t), "GET", ts.URL+"/treehouse", nil, &fresh)
	if len(fresh.Completed) != 0 || len(fresh.Unlocked) != 0 {
		t.Fatalf("new player should start empty: %+v", fresh)
	}
}

func TestAuthFlowClaimsGuestProgress(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t)
	creds := credentials{Username: "treefrog", Password: "password123"}

	if code := doJSON(t, c, "GET", ts.URL+"/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me as guest: %d", code)
	}
	doJSON(t, c, "POST", ts.URL+"/progress/complete", completeReq{Game: catalog.Bubble}, nil)

	if code := doJSON(t, c, "POST", ts.URL+"/auth/signup", creds, nil); code != 200 {
		t.Fatalf("signup: %d", code)
	}
	var me authUser
	if code := doJSON(t, c, "GET", ts.URL+"/auth/me", nil, &me); code != 200 || me.Username != "treefrog" {
		t.Fatalf("me: %d %+v", code, me)
	}
	var th catalog.Treehouse
	doJSON(t, c, "GET", ts.URL+"/treehouse", nil, &th)
	if len(th.Completed) != 1 || th.Completed[0] != catalog.Bubble {
		t.Fatalf("guest progress not claimed: %+v", th)
	}

	if code := doJSON(t, newClient(t), "POST", ts.URL+"/auth/signup", creds, nil); code != http.StatusConflict {
		t.Fatalf("duplicate signup: %d", code)
	}

	doJSON(t, c, "POST", ts.URL+"/auth/logout", nil, nil)
	if code := doJSON(t, c, "GET", ts.URL+"/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d", code)
	}

	bad := credentials{Username: "treefrog", Password: "wrong-password"}
	if code := doJSON(t, c, "POST", ts.URL+"/auth/login", bad, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", code)
	}

	// a second device logging in sees the same progress
	d := newClient(t)
	if code := doJSON(t, d, "POST", ts.URL+"/auth/login", creds, nil); code != 200 {
		t.Fatalf("login: %d", code)
	}
	var th2 catalog.Treehouse
	doJSON(t, d, "GET", ts.URL+"/treehouse", nil, &th2)
	if len(th2.Completed) != 1 {
		t.Fatalf("progress should follow the account: %+v", th2)
	}
}

func TestBearerToken(t *testing.T) {
	srv, ts := newTestServer(t)
	u, err := srv.accounts.Create(context.Background(), "owl", "password123")
	if err != nil {
		t.Fatal(err)
	}
	tok, _, err := srv.signJWT(u.ID, u.Username)
	if err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest("GET", ts.URL+"/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("bearer: %d", res.StatusCode)
	}

	req, _ = http.NewRequest("GET", ts.URL+"/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok+"x")
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("tampered bearer: %d", res.StatusCode)
	}
}

func TestDailyFlow(t *testing.T) {
	srv, ts := newTestServer(t)
	a, b := newClient(t), newClient(t)

	var na, nb dailyNewRes
	doJSON(t, a, "POST", ts.URL+"/daily/new", nil, &na)
	doJSON(t, b, "POST", ts.URL+"/daily/new", nil, &nb)
	if na.Played || na.View == nil || nb.View == nil {
		t.Fatalf("new: %+v %+v", na, nb)
	}
	if na.View.ID == nb.View.ID {
		t.Fatal("players share a session")
	}
	if !sameGrid(na.View.Grid, nb.View.Grid) {
		t.Fatal("daily puzzle differs between players")
	}

	var again dailyNewRes
	doJSON(t, a, "POST", ts.URL+"/daily/new", nil, &again)
	if again.View == nil || again.View.ID != na.View.ID {
		t.Fatal("second /daily/new should reuse the session")
	}

	if code := doJSON(t, a, "POST", ts.URL+"/daily/select", selectReq{GameID: nb.View.ID}, nil); code != http.StatusConflict {
		t.Fatalf("foreign game id: %d", code)
	}

	var g *game.WordSearch
	srv.daily.mu.Lock()
	for _, s := range srv.daily.sessions {
		if s.ID == na.View.ID {
			g = s
		}
	}
	srv.daily.mu.Unlock()
	if g == nil {
		t.Fatal("session not tracked")
	}
	ps := g.Placements()
	var last dailySelectRes
	for _, p := range ps {
		if code := doJSON(t, a, "POST", ts.URL+"/daily/select", selectReq{GameID: g.ID, Start: p.Start(), End: p.End()}, &last); code != 200 {
			t.Fatalf("select: %d", code)
		}
	}
	if last.State != game.StateFinished || last.Reward == nil {
		t.Fatalf("daily not finished: %+v", last)
	}

	var played dailyNewRes
	doJSON(t, a, "POST", ts.URL+"/daily/new", nil, &played)
	if !played.Played || played.View != nil {
		t.Fatalf("want played=true, got %+v", played)
	}

	var lb lbRes
	doJSON(t, b, "GET", ts.URL+"/daily/leaderboard", nil, &lb)
	if len(lb.Top) != 1 || lb.Top[0].Selections != len(ps) {
		t.Fatalf("leaderboard: %+v", lb)
	}
	if code := doJSON(t, b, "GET", ts.URL+"/daily/leaderboard?date=yesterday", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad date: %d", code)
	}
}

func sameGrid(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

func TestSignupKeepsGuestSessions(t *testing.T) {
	srv, ts := newTestServer(t)
	c := newClient(t)

	var ws game.WordSearchView
	doJSON(t, c, "POST", ts.URL+"/wordsearch/new", map[string]int{"rounds": 1}, &ws)
	var cw game.CrosswordView
	doJSON(t, c, "POST", ts.URL+"/crossword/new", map[string]int{"rounds": 1}, &cw)
	var qz game.QuizView
	doJSON(t, c, "POST", ts.URL+"/quiz/detective/new", map[string]int{"questions": 2}, &qz)
	var dn dailyNewRes
	doJSON(t, c, "POST", ts.URL+"/daily/new", nil, &dn)
	if dn.View == nil {
		t.Fatal("daily puzzle missing")
	}

	creds := credentials{Username: "guest_no_more", Password: "password123"}
	if code := doJSON(t, c, "POST", ts.URL+"/auth/signup", creds, nil); code != 200 {
		t.Fatalf("signup: %d", code)
	}

	for _, url := range []string{
		"/wordsearch/" + ws.ID,
		"/crossword/" + cw.ID,
		"/quiz/detective/" + qz.ID,
	} {
		if code := doJSON(t, c, "GET", ts.URL+url, nil, nil); code != 200 {
			t.Fatalf("GET %s after signup: %d", url, code)
		}
	}
	var again dailyNewRes
	doJSON(t, c, "POST", ts.URL+"/daily/new", nil, &again)
	if again.View == nil || again.View.ID != dn.View.ID {
		t.Fatalf("daily session should follow the account: %+v", again)
	}

	// the session is playable, and finishing it credits the account
	g, err := srv.wordSearch.Get(context.Background(), ws.ID)
	if err != nil {
		t.Fatal(err)
	}
	var last selectRes
	for _, p := range g.Placements() {
		doJSON(t, c, "POST", ts.URL+"/wordsearch/select", selectReq{GameID: ws.ID, Start: p.Start(), End: p.End()}, &last)
	}
	if last.State != game.StateFinished {
		t.Fatalf("want finished, got %s", last.State)
	}
	var me authUser
	doJSON(t, c, "GET", ts.URL+"/auth/me", nil, &me)
	if g.Owner() != me.ID {
		t.Fatalf("session owner %q, user %q", g.Owner(), me.ID)
	}
}

func TestSignupKeepsGuestDailyResult(t *testing.T) {
	srv, ts := newTestServer(t)
	c := newClient(t)

	var dn dailyNewRes
	doJSON(t, c, "POST", ts.URL+"/daily/new", nil, &dn)
	var g *game.WordSearch
	srv.daily.mu.Lock()
	for _, s := range srv.daily.sessions {
		g = s
	}
	srv.daily.mu.Unlock()
	for _, p := range g.Placements() {
		doJSON(t, c, "POST", ts.URL+"/daily/select", selectReq{GameID: g.ID, Start: p.Start(), End: p.End()}, nil)
	}

	creds := credentials{Username: "early_bird", Password: "password123"}
	if code := doJSON(t, c, "POST", ts.URL+"/auth/signup", creds, nil); code != 200 {
		t.Fatalf("signup: %d", code)
	}
	var again dailyNewRes
	doJSON(t, c, "POST", ts.URL+"/daily/new", nil, &again)
	if !again.Played {
		t.Fatalf("guest's finished daily should count for the account: %+v", again)
	}
	var lb lbRes
	doJSON(t, c, "GET", ts.URL+"/daily/leaderboard", nil, &lb)
	if len(lb.Top) != 1 || lb.Top[0].Username != "early_bird" {
		t.Fatalf("leaderboard: %+v", lb)
	}
}

func TestQuizFlow(t *testing.T) {
	srv, ts := newTestServer(t)
	c := newClient(t)

	if code := doJSON(t, c, "POST", ts.URL+"/quiz/matching/new", nil, nil); code != http.StatusNotFound {
		t.Fatalf("matching has no quiz: %d", code)
	}

	var v game.QuizView
	if code := doJSON(t, c, "POST", ts.URL+"/quiz/fill_blank/new", map[string]int{"questions": 2}, &v); code != 200 {
		t.Fatalf("new: %d", code)
	}
	if v.Questions != 2 || v.Current == nil || len(v.Current.Options) != 4 || v.Current.Answer != "" {
		t.Fatalf("unexpected view: %+v", v)
	}

	if code := doJSON(t, c, "GET", ts.URL+"/quiz/detective/"+v.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("wrong game in URL: %d", code)
	}
	if code := doJSON(t, newClient(t), "GET", ts.URL+"/quiz/fill_blank/"+v.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign get: %d", code)
	}
	if code := doJSON(t, c, "POST", ts.URL+"/quiz/fill_blank/answer", answerReq{GameID: v.ID, Choice: "nope"}, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown choice: %d", code)
	}

	g, err := srv.quizzes.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatal(err)
	}
	answers := g.Answers()
	var first answerRes
	doJSON(t, c, "POST", ts.URL+"/quiz/fill_blank/answer", answerReq{GameID: v.ID, Choice: answers[0]}, &first)
	if !first.Correct || first.State != game.StateRoundComplete || first.View == nil || first.View.Question != 2 {
		t.Fatalf("first answer: %+v", first)
	}
	var last answerRes
	doJSON(t, c, "POST", ts.URL+"/quiz/fill_blank/answer", answerReq{GameID: v.ID, Choice: answers[1]}, &last)
	if last.State != game.StateFinished || last.Reward == nil || !last.Reward.First {
		t.Fatalf("last answer: %+v", last)
	}
	if got := last.Reward.Treehouse.Completed; len(got) != 1 || got[0] != catalog.FillBlank {
		t.Fatalf("completed: %v", got)
	}
	if code := doJSON(t, c, "POST", ts.URL+"/quiz/fill_blank/answer", answerReq{GameID: v.ID, Choice: answers[1]}, nil); code != http.StatusConflict {
		t.Fatalf("answer after finish: %d", code)
	}
}

func TestCompleteRejectsServerScoredGames(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t)
	for _, gt := range []catalog.GameType{catalog.WordSearch, catalog.Crossword, catalog.Detective, catalog.FillBlank, catalog.HiddenTreasure} {
		if code := doJSON(t, c, "POST", ts.URL+"/progress/complete", completeReq{Game: gt}, nil); code != http.StatusForbidden {
			t.Fatalf("%s: want 403, got %d", gt, code)
		}
	}
	var th catalog.Treehouse
	doJSON(t, c, "GET", ts.URL+"/treehouse", nil, &th)
	if len(th.Completed) != 0 {
		t.Fatalf("nothing should be recorded: %+v", th)
	}
}

func TestNewGameBodies(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t)
	for _, path := range []string{"/wordsearch/new", "/crossword/new", "/quiz/detective/new"} {
		if code := doJSON(t, c, "POST", ts.URL+path, nil, nil); code != 200 {
			t.Errorf("%s with empty body: %d", path, code)
		}
		if code := doJSON(t, c, "POST", ts.URL+path, map[string]string{"rounds": "x", "questions": "x"}, nil); code != http.StatusBadRequest {
			t.Errorf("%s with malformed body: %d", path, code)
		}
	}
}
