// Package imprintgen produces fake records for benchmarks, tests and the
// CLI generate command. The two shapes, Product and Order, use string,
// float64 and int32 fields plus string arrays. Their field ids are
// disjoint (products 1..9, orders 101..105), so merging a product with an
// order yields the union of both.
package imprintgen

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"imprint"
)

// ProductSchema and OrderSchema identify the two generated shapes.
var (
	ProductSchema = imprint.SchemaID{FieldspaceID: 0, SchemaHash: 0}
	OrderSchema   = imprint.SchemaID{FieldspaceID: 0, SchemaHash: 1}
)

var words = strings.Fields(`
lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod
tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam
quis nostrud exercitation ullamco laboris nisi aliquip ex ea commodo
consequat duis aute irure in reprehenderit voluptate velit esse cillum
fugiat nulla pariatur excepteur sint occaecat cupidatat non proident`)

func wordSalad(rng *rand.Rand, low, high int) string {
	n := low + rng.Intn(max(high-low, 1))
	out := make([]string, n)
	for i := range out {
		out[i] = words[rng.Intn(len(words))]
	}
	return strings.Join(out, " ")
}

func wordList(rng *rand.Rand, low, high int) []string {
	n := low + rng.Intn(max(high-low, 1))
	out := make([]string, n)
	for i := range out {
		out[i] = words[rng.Intn(len(words))]
	}
	return out
}

// Product is a fake catalog entry.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Quantity    int32
	Category    string
	Brand       string
	Tags        []string
	SKU         string
}

// FakeProduct generates a product whose text fields scale with size.
func FakeProduct(rng *rand.Rand, size int) Product {
	return Product{
		ID:          uuid.NewString(),
		Name:        wordSalad(rng, size, size*2),
		Description: wordSalad(rng, size*3, size*6),
		Price:       10.0 + rng.Float64()*990.0,
		Quantity:    int32(rng.Int31n(1000)),
		Category:    wordSalad(rng, 1, 2),
		Brand:       wordSalad(rng, 1, 3),
		Tags:        wordList(rng, size*2, size*3),
		SKU:         uuid.NewString(),
	}
}

// ToImprint encodes the product under ProductSchema, fields 1..9.
func (p Product) ToImprint() (*imprint.Record, error) {
	w := imprint.NewWriter(ProductSchema)
	steps := []struct {
		id uint16
		v  imprint.Value
	}{
		{1, imprint.StringValue(p.ID)},
		{2, imprint.StringValue(p.Name)},
		{3, imprint.StringValue(p.Description)},
		{4, imprint.Float64Value(p.Price)},
		{5, imprint.Int32Value(p.Quantity)},
		{6, imprint.StringValue(p.Category)},
		{7, imprint.StringValue(p.Brand)},
		{8, stringArray(p.Tags)},
		{9, imprint.StringValue(p.SKU)},
	}
	for _, s := range steps {
		if err := w.AddField(s.id, s.v); err != nil {
			return nil, err
		}
	}
	return w.Build()
}

// Order is a fake purchase referencing a product.
type Order struct {
	ID         string
	ProductID  string
	CustomerID string
	Quantity   int32
	Tags       []string
}

// FakeOrder generates an order whose tag list scales with size.
func FakeOrder(rng *rand.Rand, size int) Order {
	return Order{
		ID:         uuid.NewString(),
		ProductID:  uuid.NewString(),
		CustomerID: uuid.NewString(),
		Quantity:   int32(rng.Int31n(1000)),
		Tags:       wordList(rng, size, size*2),
	}
}

// ToImprint encodes the order under OrderSchema, fields 101..105.
func (o Order) ToImprint() (*imprint.Record, error) {
	w := imprint.NewWriter(OrderSchema)
	steps := []struct {
		id uint16
		v  imprint.Value
	}{
		{101, imprint.StringValue(o.ID)},
		{102, imprint.StringValue(o.CustomerID)},
		{103, imprint.StringValue(o.ProductID)},
		{104, imprint.Int32Value(o.Quantity)},
		{105, stringArray(o.Tags)},
	}
	for _, s := range steps {
		if err := w.AddField(s.id, s.v); err != nil {
			return nil, err
		}
	}
	return w.Build()
}

func stringArray(ss []string) imprint.ArrayValue {
	arr := make(imprint.ArrayValue, len(ss))
	for i, s := range ss {
		arr[i] = imprint.StringValue(s)
	}
	return arr
}
