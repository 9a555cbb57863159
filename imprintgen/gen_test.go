package imprintgen

import (
	"bytes"
	"math/rand"
	"testing"

	"imprint"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestProductRoundTrip(t *testing.T) {
	rng := testRNG()
	p := FakeProduct(rng, 10)
	rec, err := p.ToImprint()
	if err != nil {
		t.Fatalf("ToImprint: %v", err)
	}
	if rec.SchemaID() != ProductSchema {
		t.Errorf("schema = %+v, want %+v", rec.SchemaID(), ProductSchema)
	}

	var buf bytes.Buffer
	if err := rec.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, _, err := imprint.Read(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	v, err := got.GetValue(1)
	if err != nil {
		t.Fatal(err)
	}
	if !imprint.Equal(v, imprint.StringValue(p.ID)) {
		t.Errorf("field 1 = %#v, want product id %q", v, p.ID)
	}
	v, err = got.GetValue(8)
	if err != nil {
		t.Fatal(err)
	}
	tags, ok := v.(imprint.ArrayValue)
	if !ok || len(tags) != len(p.Tags) {
		t.Errorf("field 8 = %#v, want %d tags", v, len(p.Tags))
	}
}

func TestOrderRoundTrip(t *testing.T) {
	rng := testRNG()
	o := FakeOrder(rng, 10)
	rec, err := o.ToImprint()
	if err != nil {
		t.Fatalf("ToImprint: %v", err)
	}
	if rec.SchemaID() != OrderSchema {
		t.Errorf("schema = %+v, want %+v", rec.SchemaID(), OrderSchema)
	}
	if ids := rec.Ids(); len(ids) != 5 || ids[0] != 101 || ids[4] != 105 {
		t.Errorf("order ids = %v", ids)
	}
}

func TestProductOrderMerge(t *testing.T) {
	rng := testRNG()
	product, err := FakeProduct(rng, 5).ToImprint()
	if err != nil {
		t.Fatal(err)
	}
	order, err := FakeOrder(rng, 5).ToImprint()
	if err != nil {
		t.Fatal(err)
	}

	enriched, err := product.Merge(order)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	// product fields 1..9 and order fields 101..105 are disjoint
	if got := len(enriched.Ids()); got != 14 {
		t.Errorf("enriched record has %d fields, want 14", got)
	}
	if err := enriched.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
