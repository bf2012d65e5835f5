package mysql

import (
	"strings"
	"testing"

	"hotel_indexes/internal/domain"
)

func TestCreateIndexDDL(t *testing.T) {
	cases := map[string]struct {
		spec domain.IndexSpec
		want string
	}{
		"single":   {domain.IndexSpec{Name: "location_1", Kind: domain.IndexSingle, Fields: []string{"location"}}, "CREATE INDEX `location_1` ON hotels (`location`)"},
		"compound": {domain.IndexSpec{Name: "location_1_price_1", Kind: domain.IndexCompound, Fields: []string{"location", "price"}}, "CREATE INDEX `location_1_price_1` ON hotels (`location`, `price`)"},
		"text":     {domain.IndexSpec{Name: "name_text_description_text", Kind: domain.IndexText, Fields: []string{"name", "description"}}, "CREATE FULLTEXT INDEX `name_text_description_text` ON hotels (`name`, `description`)"},
	}
	for name, tc := range cases {
		got, err := createIndexDDL(tc.spec)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", name, got, tc.want)
		}
	}

	if _, err := createIndexDDL(domain.IndexSpec{Name: "x; DROP TABLE hotels", Fields: []string{"price"}}); err == nil {
		t.Fatalf("expected error for unsafe index name")
	}
	if _, err := createIndexDDL(domain.IndexSpec{Name: "bad_col", Fields: []string{"price`"}}); err == nil {
		t.Fatalf("expected error for unsafe column")
	}
}

func TestWhereFor(t *testing.T) {
	where, args, err := whereFor(domain.HotelFilter{Kind: domain.FilterPriceRange, Price: 100})
	if err != nil || !strings.HasPrefix(where, "price > ?") || args[0] != 100.0 {
		t.Fatalf("default op: %q %v %v", where, args, err)
	}
	where, _, _ = whereFor(domain.HotelFilter{Kind: domain.FilterPriceRange, Price: 100, Op: domain.CmpLTE})
	if !strings.HasPrefix(where, "price <= ?") {
		t.Fatalf("lte: %q", where)
	}
	where, args, _ = whereFor(domain.HotelFilter{Kind: domain.FilterLocationPrice, Location: "California", Price: 200})
	if where != whereLocationPrice || len(args) != 2 {
		t.Fatalf("compound: %q %v", where, args)
	}
	if _, _, err := whereFor(domain.HotelFilter{Kind: domain.FilterPriceRange, Op: "ne"}); err == nil {
		t.Fatalf("expected error for unknown operator")
	}
	if _, _, err := whereFor(domain.HotelFilter{Kind: "geo"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
