package paging_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tenantify/tcore/paging"
	"github.com/tenantify/tcore/paging/memstore"
)

type task struct {
	id        int64
	name      string
	status    string
	priority  int64
	createdAt time.Time
}

var taskBase = time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)

// makeTasks builds n tasks with distinct creation times increasing with id,
// odd ids active and even ids archived.
func makeTasks(n int) []*task {
	out := make([]*task, 0, n)
	for i := 1; i <= n; i++ {
		status := "active"
		if i%2 == 0 {
			status = "archived"
		}
		out = append(out, &task{
			id:        int64(i),
			name:      fmt.Sprintf("task-%03d", i),
			status:    status,
			priority:  int64(i),
			createdAt: taskBase.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func taskResource() *paging.Resource[*task] {
	return paging.NewResource[*task]("tasks", func(t *task) int64 { return t.id }).
		Sortable("created_at", paging.Field[*task]{
			Column: "created_at",
			Kind:   paging.KindTime,
			Value:  func(t *task) any { return t.createdAt },
		}).
		Sortable("priority", paging.Field[*task]{
			Column: "priority",
			Kind:   paging.KindInt,
			Value:  func(t *task) any { return t.priority },
		}).
		Filterable("status", paging.FilterField[*task]{
			Column: "status",
			Kind:   paging.KindString,
			Value:  func(t *task) any { return t.status },
		}).
		Filterable("priority", paging.FilterField[*task]{
			Column: "priority",
			Kind:   paging.KindInt,
			Value:  func(t *task) any { return t.priority },
		}).
		Filterable("name", paging.FilterField[*task]{
			Column: "name",
			Kind:   paging.KindString,
			Value:  func(t *task) any { return t.name },
		})
}

func newTaskPaginator(t *testing.T, items []*task) (*paging.Paginator[*task], *paging.Codec) {
	t.Helper()
	codec, err := paging.NewCodec("test-signing-secret")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	res := taskResource()
	return paging.NewPaginator[*task](codec, res, memstore.New(res, items...)), codec
}

func ids(items []*task) []int64 {
	out := make([]int64, len(items))
	for i, t := range items {
		out[i] = t.id
	}
	return out
}

func assertIDs(t *testing.T, items []*task, want ...int64) {
	t.Helper()
	got := ids(items)
	if len(got) != len(want) {
		t.Fatalf("got ids %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got ids %v, want %v", got, want)
		}
	}
}

func TestPageFirstPage(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(5))

	res, err := p.Page(context.Background(), paging.Params{Limit: 2})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	assertIDs(t, res.Items, 5, 4)
	if !res.Pagination.HasNext {
		t.Error("expected has_next on a first page with more rows")
	}
	if res.Pagination.HasPrevious {
		t.Error("a first page never has a previous page")
	}
	if res.Pagination.NextCursor == "" {
		t.Error("expected a next cursor")
	}
	if res.Pagination.PreviousCursor != "" {
		t.Error("unexpected previous cursor on a first page")
	}
	if res.Pagination.CurrentSort != "created_at" || res.Pagination.CurrentDirection != paging.Desc {
		t.Errorf("default sort not reported: %+v", res.Pagination)
	}
	if res.Pagination.TotalCount != nil {
		t.Error("total count must be opt-in")
	}
}

func TestPageForwardTraversal(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(5))
	ctx := context.Background()

	page1, err := p.Page(ctx, paging.Params{Limit: 2})
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	assertIDs(t, page1.Items, 5, 4)

	page2, err := p.Page(ctx, paging.Params{Limit: 2, Cursor: page1.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	assertIDs(t, page2.Items, 3, 2)
	if !page2.Pagination.HasNext || !page2.Pagination.HasPrevious {
		t.Errorf("middle page flags wrong: %+v", page2.Pagination)
	}

	page3, err := p.Page(ctx, paging.Params{Limit: 2, Cursor: page2.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("page 3 failed: %v", err)
	}
	assertIDs(t, page3.Items, 1)
	if page3.Pagination.HasNext {
		t.Error("last page must not report has_next")
	}
	if !page3.Pagination.HasPrevious {
		t.Error("last page must report has_previous")
	}
	if page3.Pagination.NextCursor != "" {
		t.Error("no next cursor on the last page")
	}
}

func TestPageBackwardTraversal(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(10))
	ctx := context.Background()

	page1, err := p.Page(ctx, paging.Params{Limit: 3})
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	assertIDs(t, page1.Items, 10, 9, 8)

	page2, err := p.Page(ctx, paging.Params{Limit: 3, Cursor: page1.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	assertIDs(t, page2.Items, 7, 6, 5)

	// Stepping back from page 2 reproduces page 1 exactly, including the
	// boundary flag saying there is nothing further back.
	back, err := p.Page(ctx, paging.Params{
		Limit:   3,
		Cursor:  page2.Pagination.PreviousCursor,
		Reverse: true,
	})
	if err != nil {
		t.Fatalf("backward page failed: %v", err)
	}
	assertIDs(t, back.Items, 10, 9, 8)
	if back.Pagination.HasPrevious {
		t.Error("first page reached backwards must not report has_previous")
	}
	if !back.Pagination.HasNext {
		t.Error("page reached backwards must report has_next")
	}

	// And from page 3 back to page 2.
	page3, err := p.Page(ctx, paging.Params{Limit: 3, Cursor: page2.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("page 3 failed: %v", err)
	}
	assertIDs(t, page3.Items, 4, 3, 2)
	back2, err := p.Page(ctx, paging.Params{
		Limit:   3,
		Cursor:  page3.Pagination.PreviousCursor,
		Reverse: true,
	})
	if err != nil {
		t.Fatalf("backward page 2 failed: %v", err)
	}
	assertIDs(t, back2.Items, 7, 6, 5)
	if !back2.Pagination.HasPrevious {
		t.Error("middle page reached backwards must report has_previous")
	}
}

// TestPageNoDupNoGap pages through datasets sitting on every interesting
// boundary and checks the union of pages is exactly the dataset.
func TestPageNoDupNoGap(t *testing.T) {
	const limit = 3
	for _, n := range []int{0, 1, limit - 1, limit, 2 * limit, 3*limit + 2} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			p, _ := newTaskPaginator(t, makeTasks(n))
			ctx := context.Background()

			seen := make(map[int64]bool)
			var order []int64
			cursor := ""
			for pages := 0; ; pages++ {
				if pages > n+1 {
					t.Fatal("traversal did not terminate")
				}
				res, err := p.Page(ctx, paging.Params{Limit: limit, Cursor: cursor})
				if err != nil {
					t.Fatalf("page failed: %v", err)
				}
				for _, item := range res.Items {
					if seen[item.id] {
						t.Fatalf("id %d returned twice", item.id)
					}
					seen[item.id] = true
					order = append(order, item.id)
				}
				if !res.Pagination.HasNext {
					break
				}
				cursor = res.Pagination.NextCursor
			}

			if len(order) != n {
				t.Fatalf("traversal returned %d rows, want %d", len(order), n)
			}
			for i := 1; i < len(order); i++ {
				if order[i] >= order[i-1] {
					t.Fatalf("descending order violated: %v", order)
				}
			}
		})
	}
}

func TestPageAscending(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(5))

	res, err := p.Page(context.Background(), paging.Params{
		Limit:         3,
		SortBy:        "priority",
		SortDirection: paging.Asc,
	})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	assertIDs(t, res.Items, 1, 2, 3)
	if res.Pagination.CurrentSort != "priority" || res.Pagination.CurrentDirection != paging.Asc {
		t.Errorf("sort spec not reported: %+v", res.Pagination)
	}

	res, err = p.Page(context.Background(), paging.Params{Limit: 3, Cursor: res.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	assertIDs(t, res.Items, 4, 5)
}

// TestPageTieBreak pins the id tie-breaker: with every sort value equal the
// traversal still visits each row exactly once.
func TestPageTieBreak(t *testing.T) {
	items := makeTasks(7)
	for _, item := range items {
		item.priority = 1
	}
	p, _ := newTaskPaginator(t, items)
	ctx := context.Background()

	res, err := p.Page(ctx, paging.Params{Limit: 3, SortBy: "priority"})
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	assertIDs(t, res.Items, 7, 6, 5)

	res, err = p.Page(ctx, paging.Params{Limit: 3, Cursor: res.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	assertIDs(t, res.Items, 4, 3, 2)

	res, err = p.Page(ctx, paging.Params{Limit: 3, Cursor: res.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("page 3 failed: %v", err)
	}
	assertIDs(t, res.Items, 1)
}

func TestPageFilterPersistence(t *testing.T) {
	p, codec := newTaskPaginator(t, makeTasks(6))
	ctx := context.Background()

	// Odd ids are active: [5, 3, 1] in descending creation order.
	page1, err := p.Page(ctx, paging.Params{
		Limit:   2,
		Filters: paging.Filters{"status": paging.Equals("active")},
	})
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	assertIDs(t, page1.Items, 5, 3)

	// The follow-up request names no filters; the cursor carries them.
	page2, err := p.Page(ctx, paging.Params{Limit: 2, Cursor: page1.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	assertIDs(t, page2.Items, 1)
	if page2.Pagination.HasNext {
		t.Error("filtered traversal must end after the last active row")
	}

	payload, err := codec.Decode(page1.Pagination.NextCursor)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(payload.Filters) != 1 {
		t.Fatalf("cursor must embed exactly the traversal filters, got %v", payload.Filters)
	}
	if f, ok := payload.Filters["status"]; !ok || f.Op != paging.FilterEquals {
		t.Errorf("status filter not embedded: %v", payload.Filters)
	}
}

func TestPageFilterNarrowing(t *testing.T) {
	p, codec := newTaskPaginator(t, makeTasks(6))
	ctx := context.Background()

	page1, err := p.Page(ctx, paging.Params{
		Limit:   2,
		Filters: paging.Filters{"status": paging.Equals("active")},
	})
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	assertIDs(t, page1.Items, 5, 3)

	// Request filters on a cursor request narrow the embedded set. Of the
	// remaining active rows only id 1 has priority <= 2.
	page2, err := p.Page(ctx, paging.Params{
		Limit:   2,
		Cursor:  page1.Pagination.NextCursor,
		Filters: paging.Filters{"priority": paging.Range(nil, int64(2), nil, nil)},
	})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	assertIDs(t, page2.Items, 1)

	// Minted cursors echo only the embedded filters; the narrowing filter is
	// per-request and does not stick.
	payload, err := codec.Decode(page2.Pagination.PreviousCursor)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := payload.Filters["priority"]; ok {
		t.Errorf("request-only filter leaked into the cursor: %v", payload.Filters)
	}
	if _, ok := payload.Filters["status"]; !ok {
		t.Errorf("embedded filter dropped from the cursor: %v", payload.Filters)
	}
}

func TestPagePrefixFilter(t *testing.T) {
	items := makeTasks(4)
	items[0].name = "alpha"
	items[1].name = "alpine"
	items[2].name = "beta"
	items[3].name = "alps"
	p, _ := newTaskPaginator(t, items)

	res, err := p.Page(context.Background(), paging.Params{
		Limit:   10,
		Filters: paging.Filters{"name": paging.Prefix("alp")},
	})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	assertIDs(t, res.Items, 4, 2)
}

func TestPageLimitClamp(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(5))
	ctx := context.Background()

	res, err := p.Page(ctx, paging.Params{Limit: 0})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(res.Items) != 1 {
		t.Errorf("limit 0 must clamp to 1, got %d items", len(res.Items))
	}
	if !res.Pagination.HasNext {
		t.Error("expected has_next with 4 rows remaining")
	}

	res, err = p.Page(ctx, paging.Params{Limit: 500})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(res.Items) != 5 {
		t.Errorf("oversized limit must clamp, not fail: got %d items", len(res.Items))
	}
	if res.Pagination.HasNext {
		t.Error("no has_next when the clamp still covers the dataset")
	}
}

func TestPageEmptyDataset(t *testing.T) {
	p, _ := newTaskPaginator(t, nil)

	res, err := p.Page(context.Background(), paging.Params{Limit: 10})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Errorf("empty page must carry a non-nil empty slice, got %#v", res.Items)
	}
	if res.Pagination.HasNext || res.Pagination.HasPrevious {
		t.Errorf("empty page flags wrong: %+v", res.Pagination)
	}
	if res.Pagination.NextCursor != "" || res.Pagination.PreviousCursor != "" {
		t.Errorf("empty page must mint no cursors: %+v", res.Pagination)
	}
}

func TestPageInvalidCursor(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(3))

	_, err := p.Page(context.Background(), paging.Params{Cursor: "not-a-cursor", Limit: 2})
	if !errors.Is(err, paging.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestPageUnknownSortField(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(3))

	_, err := p.Page(context.Background(), paging.Params{SortBy: "ghost", Limit: 2})
	if !errors.Is(err, paging.ErrInvalidSortField) {
		t.Fatalf("expected ErrInvalidSortField, got %v", err)
	}
}

func TestPageUnknownFilterField(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(3))

	_, err := p.Page(context.Background(), paging.Params{
		Limit:   2,
		Filters: paging.Filters{"ghost": paging.Equals("x")},
	})
	if !errors.Is(err, paging.ErrInvalidFilterField) {
		t.Fatalf("expected ErrInvalidFilterField, got %v", err)
	}
}

func TestPageIncludeTotal(t *testing.T) {
	p, _ := newTaskPaginator(t, makeTasks(6))
	ctx := context.Background()

	page1, err := p.Page(ctx, paging.Params{
		Limit:        2,
		IncludeTotal: true,
		Filters:      paging.Filters{"status": paging.Equals("active")},
	})
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	if page1.Pagination.TotalCount == nil || *page1.Pagination.TotalCount != 3 {
		t.Fatalf("expected total 3, got %v", page1.Pagination.TotalCount)
	}

	// The total counts the filtered set, not the remainder of the traversal.
	page2, err := p.Page(ctx, paging.Params{
		Limit:        2,
		IncludeTotal: true,
		Cursor:       page1.Pagination.NextCursor,
	})
	if err != nil {
		t.Fatalf("page 2 failed: %v", err)
	}
	if page2.Pagination.TotalCount == nil || *page2.Pagination.TotalCount != 3 {
		t.Fatalf("expected total 3 on later pages too, got %v", page2.Pagination.TotalCount)
	}
}

type failStore struct{}

func (failStore) Fetch(context.Context, *paging.Query) ([]*task, error) {
	return nil, errors.New("connection reset")
}

func (failStore) Count(context.Context, *paging.Query) (int, error) {
	return 0, errors.New("connection reset")
}

func TestPageStoreError(t *testing.T) {
	codec, err := paging.NewCodec("test-signing-secret")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	p := paging.NewPaginator[*task](codec, taskResource(), failStore{})

	_, err = p.Page(context.Background(), paging.Params{Limit: 2})
	if !errors.Is(err, paging.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}
