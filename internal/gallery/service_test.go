package gallery

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/logoteca/internal/apperr"
	"github.com/starford/logoteca/internal/catalog"
	"github.com/starford/logoteca/internal/index"
	"github.com/starford/logoteca/internal/models"
	"github.com/starford/logoteca/internal/testutil"
)

var identifiers = catalog.StaticSource{testutil.Barcelona, testutil.Catalunya, ""}

func testService(t *testing.T, withIndex bool) *Service {
	t.Helper()
	var idx index.FacetIndex
	if withIndex {
		idx = testutil.TestIndex(t)
	}
	logger := testutil.QuietLogger()
	svc := NewService(catalog.New(identifiers, nil, logger), idx, logger)
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return svc
}

func TestSearch(t *testing.T) {
	svc := testService(t, false)
	ctx := context.Background()

	res, err := svc.Search(ctx, models.Query{SearchTerm: "192"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Logos[0].ID != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.Fingerprint == "" || res.Fingerprint != svc.Fingerprint() {
		t.Errorf("fingerprint = %q", res.Fingerprint)
	}

	res, err = svc.Search(ctx, models.Query{Color: "blue"})
	if err != nil || res.Total != 1 || res.Logos[0].Name != "Barcelona Archives" {
		t.Errorf("color search = %+v, %v", res, err)
	}

	res, err = svc.Search(ctx, models.Query{Type: "SansSerif"})
	if err != nil || res.Total != 1 || res.Logos[0].ID != 2 {
		t.Errorf("type search = %+v, %v", res, err)
	}

	res, err = svc.Search(ctx, models.Query{})
	if err != nil || res.Total != 3 {
		t.Errorf("empty query total = %d, %v", res.Total, err)
	}
}

func TestSearch_InvalidType(t *testing.T) {
	svc := testService(t, false)
	_, err := svc.Search(context.Background(), models.Query{Type: "gothic"})
	if !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Errorf("err = %v, want ErrInvalidQuery", err)
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) || verrs["type"] == nil {
		t.Errorf("err = %v, want a validation error for type", err)
	}
}

func TestGet(t *testing.T) {
	svc := testService(t, false)
	l, err := svc.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if l != models.FallbackLogo(3) {
		t.Errorf("Get(3) = %+v, want fallback", l)
	}
	if _, err := svc.Get(context.Background(), 99); !IsNotFound(err) {
		t.Errorf("Get(99) err = %v", err)
	}
}

func TestFacets_IndexMatchesSnapshot(t *testing.T) {
	withIdx := testService(t, true)
	without := testService(t, false)
	ctx := context.Background()

	a, err := withIdx.Facets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := without.Facets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("index facets %+v differ from snapshot facets %+v", a, b)
	}
	if a.Total != 3 || a.Malformed != 1 || len(a.Colors) != 2 {
		t.Errorf("facets = %+v", a)
	}
}

func TestReload_Unchanged(t *testing.T) {
	svc := testService(t, true)
	changed, err := svc.Reload(context.Background())
	if err != nil || changed {
		t.Errorf("second reload changed=%v err=%v", changed, err)
	}
}

func TestNormalizeQuery(t *testing.T) {
	q, err := NormalizeQuery(models.Query{Type: "Sans Serif", Color: "Blue"})
	if err != nil {
		t.Fatalf("NormalizeQuery: %v", err)
	}
	if q.Type != models.TypeSansSerif {
		t.Errorf("type = %q", q.Type)
	}
	if _, err := NormalizeQuery(models.Query{SearchTerm: strings.Repeat("x", 201)}); err == nil {
		t.Error("overlong term should fail")
	}
}
