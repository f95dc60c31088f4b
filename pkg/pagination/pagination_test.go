package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"limit=10&offset=30", 10, 30},
		{"limit=500", MaxLimit, 0},
		{"limit=-1&offset=-5", DefaultLimit, 0},
	}
	for _, tc := range cases {
		p := FromContext(contextWithQuery(tc.query))
		if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("FromContext(%q) = %+v, want limit %d offset %d", tc.query, p, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestResponseHasMore(t *testing.T) {
	r := NewResponse(nil, 50, 20, 0)
	if !r.HasMore {
		t.Error("expected more pages at offset 0 of 50")
	}
	r = NewResponse(nil, 50, 20, 40)
	if r.HasMore {
		t.Error("expected last page at offset 40 of 50")
	}
}

func TestOffsets(t *testing.T) {
	p := Params{Limit: 20, Offset: 20}
	if p.NextOffset() != 40 {
		t.Errorf("next = %d, want 40", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("previous = %d, want 0", p.PreviousOffset())
	}
	if !p.HasPrevious() {
		t.Error("expected a previous page at offset 20")
	}
	if (Params{Limit: 20, Offset: 10}).PreviousOffset() != 0 {
		t.Error("previous offset must floor at 0")
	}
}
