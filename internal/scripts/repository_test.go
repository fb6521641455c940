package scripts_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"taiyaku/internal/scripts"
	"taiyaku/internal/testsupport"
)

func ids(list []scripts.Script) []int64 {
	out := make([]int64, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sameIDs(got []scripts.Script, want ...int64) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCreateSearchDeleteExample(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo := testsupport.MustOpenRepository(t, cfg)
	ctx := context.Background()

	id, err := repo.Create(ctx, scripts.Fields{
		EnglishText:  scripts.StringPtr("Hello"),
		JapaneseText: scripts.StringPtr("こんにちは"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}

	found, err := repo.Search(ctx, scripts.Query{Term: "Hello", Scope: scripts.ScopeAll})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !sameIDs(found, 1) {
		t.Fatalf("expected [1], got %v", ids(found))
	}

	affected, err := repo.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected, got %d", affected)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %v", ids(all))
	}
}

func TestCreateRoundTripPreservesText(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	ctx := context.Background()

	english := "Line one\n  indented\t\"quoted\""
	japanese := "一行目\n　全角スペース"
	id, err := repo.Create(ctx, scripts.Fields{EnglishText: &english, JapaneseText: &japanese})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	emptyID := testsupport.MustCreate(t, repo, "", "", "")

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	byID := map[int64]scripts.Script{}
	for _, s := range all {
		byID[s.ID] = s
	}
	got := byID[id]
	if got.EnglishText != english || got.JapaneseText != japanese {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Title == nil || *got.Title != "" {
		t.Fatalf("expected empty default title, got %v", got.Title)
	}
	if e := byID[emptyID]; e.EnglishText != "" || e.JapaneseText != "" {
		t.Fatalf("expected empty texts to be stored, got %+v", e)
	}
}

func TestCreateRejectsMissingText(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	ctx := context.Background()

	cases := map[string]scripts.Fields{
		"english_text":  {JapaneseText: scripts.StringPtr("日本語")},
		"japanese_text": {EnglishText: scripts.StringPtr("English")},
	}
	for field, fields := range cases {
		_, err := repo.Create(ctx, fields)
		if !errors.Is(err, scripts.ErrValidation) {
			t.Fatalf("expected validation error for %s, got %v", field, err)
		}
		var verr *scripts.ValidationError
		if !errors.As(err, &verr) || verr.Field != field {
			t.Fatalf("expected field %s, got %v", field, err)
		}
	}
	if n, err := repo.Count(ctx); err != nil || n != 0 {
		t.Fatalf("expected nothing stored, count=%d err=%v", n, err)
	}
}

func TestSearchContainment(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	ctx := context.Background()

	greeting := testsupport.MustCreate(t, repo, "Greeting", "Hello there", "こんにちは")
	farewell := testsupport.MustCreate(t, repo, "Farewell", "Goodbye, 100% sure", "さようなら")
	titled := testsupport.MustCreate(t, repo, "Hello World", "unrelated", "無関係")

	cases := []struct {
		name  string
		query scripts.Query
		want  []int64
	}{
		{"empty term lists all", scripts.Query{}, []int64{greeting, farewell, titled}},
		{"empty term ignores scope", scripts.Query{Scope: scripts.ScopeTitle}, []int64{greeting, farewell, titled}},
		{"all scope spans fields", scripts.Query{Term: "Hello"}, []int64{greeting, titled}},
		{"title scope", scripts.Query{Term: "Hello", Scope: scripts.ScopeTitle}, []int64{titled}},
		{"japanese substring", scripts.Query{Term: "にち"}, []int64{greeting}},
		{"case sensitive by default", scripts.Query{Term: "hello"}, nil},
		{"ignore case", scripts.Query{Term: "hello", IgnoreCase: true}, []int64{greeting, titled}},
		{"percent is literal", scripts.Query{Term: "0%"}, []int64{farewell}},
		{"underscore is literal", scripts.Query{Term: "_"}, nil},
		{"absent substring", scripts.Query{Term: "missing"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := repo.Search(ctx, tc.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if !sameIDs(found, tc.want...) {
				t.Fatalf("got %v want %v", ids(found), tc.want)
			}
		})
	}
}

func TestSearchRejectsUnknownScope(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	_, err := repo.Search(context.Background(), scripts.Query{Term: "x", Scope: "body"})
	if !errors.Is(err, scripts.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateReplacesFieldsAndReportsCount(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := testsupport.MustCreate(t, repo, "Old", "old en", "old ja")

	affected, err := repo.Update(ctx, id, scripts.Fields{
		Title:        scripts.StringPtr("New"),
		EnglishText:  scripts.StringPtr("new en"),
		JapaneseText: scripts.StringPtr("new ja"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected, got %d", affected)
	}
	got, err := repo.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("Get: %v %v", got, err)
	}
	if got.TitleOr("") != "New" || got.EnglishText != "new en" || got.JapaneseText != "new ja" {
		t.Fatalf("unexpected script after update: %+v", got)
	}

	affected, err = repo.Update(ctx, 999, scripts.Fields{
		Title:        scripts.StringPtr("x"),
		EnglishText:  scripts.StringPtr("x"),
		JapaneseText: scripts.StringPtr("x"),
	})
	if err != nil {
		t.Fatalf("Update missing: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 affected for missing id, got %d", affected)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("update of missing id must not create a record, count=%d", n)
	}
}

func TestUpdateRequiresEveryField(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := testsupport.MustCreate(t, repo, "Keep", "en", "ja")

	_, err := repo.Update(ctx, id, scripts.Fields{
		EnglishText:  scripts.StringPtr("en2"),
		JapaneseText: scripts.StringPtr("ja2"),
	})
	if !errors.Is(err, scripts.ErrValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	got, _ := repo.Get(ctx, id)
	if got.EnglishText != "en" {
		t.Fatalf("rejected update must not touch the row: %+v", got)
	}
}

func TestDeleteTwiceAndIDsNeverReused(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.MustCreate(t, repo, "", "a", "あ")
	second := testsupport.MustCreate(t, repo, "", "b", "い")

	if n, err := repo.Delete(ctx, second); err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	if n, err := repo.Delete(ctx, second); err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}
	got, err := repo.Get(ctx, second)
	if err != nil || got != nil {
		t.Fatalf("expected deleted script to be gone, got %v err=%v", got, err)
	}

	third := testsupport.MustCreate(t, repo, "", "c", "う")
	if third <= second {
		t.Fatalf("id %d reused or went backwards after deleting %d", third, second)
	}
}

func TestConcurrentCreatesAllPersist(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	const writers = 25

	var wg sync.WaitGroup
	results := make(chan int64, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.Create(context.Background(), scripts.Fields{
				EnglishText:  scripts.StringPtr("same"),
				JapaneseText: scripts.StringPtr("同じ"),
			})
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			results <- id
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for id := range results {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if n, _ := repo.Count(context.Background()); n != writers {
		t.Fatalf("expected %d scripts, got %d", writers, n)
	}
}

func TestParseScope(t *testing.T) {
	for input, want := range map[string]scripts.Scope{"": scripts.ScopeAll, "ALL": scripts.ScopeAll, "title": scripts.ScopeTitle} {
		got, err := scripts.ParseScope(input)
		if err != nil || got != want {
			t.Fatalf("ParseScope(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := scripts.ParseScope("english"); !errors.Is(err, scripts.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
