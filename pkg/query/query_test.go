package query_test

import (
	"testing"

	"github.com/JaimeStill/chorus/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "video_comments", "c").
		Project("id", "id").
		Project("video_id", "video_id").
		Project("comment", "comment").
		Project("sentiment", "sentiment").
		Project("sentiment_score", "sentiment_score").
		Project("created_at", "created_at")
}

func ptr[T any](v T) *T { return &v }

const columns = "c.id, c.video_id, c.comment, c.sentiment, c.sentiment_score, c.created_at"

func TestProjection(t *testing.T) {
	p := testProjection()

	if got, want := p.From(), "public.video_comments c"; got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
	if got := p.Columns(); got != columns {
		t.Errorf("Columns() = %q, want %q", got, columns)
	}
	if got := p.Column("video_id"); got != "c.video_id" {
		t.Errorf("Column(video_id) = %q", got)
	}
	if got := p.Column("unknown"); got != "unknown" {
		t.Errorf("Column(unknown) should pass through, got %q", got)
	}
	if !p.Has("comment") || p.Has("unknown") {
		t.Error("Has() should report only projected properties")
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"ascending", "video_id", []query.SortField{{Field: "video_id"}}},
		{"descending", "-created_at", []query.SortField{{Field: "created_at", Descending: true}}},
		{
			"mixed with spaces and blanks",
			" video_id ,, -created_at ",
			[]query.SortField{{Field: "video_id"}, {Field: "created_at", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	defaultSort := query.SortField{Field: "created_at", Descending: true}

	tests := []struct {
		name     string
		build    func(*query.Builder) (string, []any)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "plain select with default sort",
			build:   func(b *query.Builder) (string, []any) { return b.Build() },
			wantSQL: "SELECT " + columns + " FROM public.video_comments c ORDER BY c.created_at DESC",
		},
		{
			name: "explicit sort overrides default",
			build: func(b *query.Builder) (string, []any) {
				return b.OrderByFields([]query.SortField{{Field: "sentiment_score"}}).Build()
			},
			wantSQL: "SELECT " + columns + " FROM public.video_comments c ORDER BY c.sentiment_score ASC",
		},
		{
			name: "equals skips nil",
			build: func(b *query.Builder) (string, []any) {
				var missing *string
				return b.WhereEquals("video_id", ptr("abc")).WhereEquals("sentiment", missing).BuildCount()
			},
			wantSQL:  "SELECT COUNT(*) FROM public.video_comments c WHERE c.video_id = $1",
			wantArgs: []any{ptr("abc")},
		},
		{
			name: "null state annotated",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereNullState(ptr(true), "sentiment", "sentiment_score").BuildCount()
			},
			wantSQL: "SELECT COUNT(*) FROM public.video_comments c WHERE (c.sentiment IS NOT NULL AND c.sentiment_score IS NOT NULL)",
		},
		{
			name: "null state unannotated",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereNullState(ptr(false), "sentiment", "sentiment_score").BuildCount()
			},
			wantSQL: "SELECT COUNT(*) FROM public.video_comments c WHERE (c.sentiment IS NULL OR c.sentiment_score IS NULL)",
		},
		{
			name: "null state nil skipped",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereNullState(nil, "sentiment").BuildCount()
			},
			wantSQL: "SELECT COUNT(*) FROM public.video_comments c",
		},
		{
			name: "search numbering follows equals",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereEquals("video_id", "abc").WhereSearch(ptr("love"), "comment").BuildPage(2, 10)
			},
			wantSQL: "SELECT " + columns + " FROM public.video_comments c" +
				" WHERE c.video_id = $1 AND (c.comment ILIKE $2)" +
				" ORDER BY c.created_at DESC LIMIT 10 OFFSET 10",
			wantArgs: []any{"abc", "%love%"},
		},
		{
			name: "empty search skipped",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereSearch(ptr(""), "comment").BuildCount()
			},
			wantSQL: "SELECT COUNT(*) FROM public.video_comments c",
		},
		{
			name:     "single",
			build:    func(b *query.Builder) (string, []any) { return b.BuildSingle("id", "x") },
			wantSQL:  "SELECT " + columns + " FROM public.video_comments c WHERE c.id = $1",
			wantArgs: []any{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build(query.NewBuilder(testProjection(), defaultSort))
			if sql != tt.wantSQL {
				t.Errorf("sql:\n got  %s\n want %s", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args length = %d, want %d", len(args), len(tt.wantArgs))
			}
			for i := range args {
				if s, ok := tt.wantArgs[i].(string); ok && args[i] != s {
					t.Errorf("args[%d] = %v, want %v", i, args[i], s)
				}
			}
		})
	}
}
