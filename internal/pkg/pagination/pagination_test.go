package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	tests := []struct {
		page, limit int
		want        Params
	}{
		{1, 20, Params{Page: 1, Limit: 20, Offset: 0}},
		{3, 10, Params{Page: 3, Limit: 10, Offset: 20}},
		{0, 0, Params{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{2, 500, Params{Page: 2, Limit: MaxLimit, Offset: MaxLimit}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, *New(tt.page, tt.limit)); diff != "" {
			t.Errorf("New(%d, %d) mismatch (-want +got):\n%s", tt.page, tt.limit, diff)
		}
	}
}

func TestGetMeta(t *testing.T) {
	got := GetMeta(New(2, 10), 25)
	want := &Meta{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetMeta() mismatch (-want +got):\n%s", diff)
	}
}
