package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/telascatalogo/telas/pkg/collection"
)

func TestFilterKeepsOrderAndIsNonNil(t *testing.T) {
	in := []int{5, 2, 8, 1}
	assert.Equal(t, []int{5, 8}, collection.Filter(in, func(v int) bool { return v > 3 }))
	assert.NotNil(t, collection.Filter(in, func(int) bool { return false }))
	assert.Equal(t, []int{5, 2, 8, 1}, in)
}

func TestRejectAndIndexOf(t *testing.T) {
	in := []string{"Seda", "Lino", "Seda"}
	assert.Equal(t, []string{"Lino"}, collection.Reject(in, func(s string) bool { return s == "Seda" }))
	assert.Equal(t, 1, collection.IndexOf(in, func(s string) bool { return s == "Lino" }))
	assert.Equal(t, -1, collection.IndexOf(in, func(s string) bool { return s == "Lana" }))

	v, ok := collection.First(in, func(s string) bool { return s != "Seda" })
	assert.True(t, ok)
	assert.Equal(t, "Lino", v)
}

func TestUniqueByKeepsFirst(t *testing.T) {
	type pair struct{ k, v string }
	in := []pair{{"a", "1"}, {"b", "2"}, {"a", "3"}}
	assert.Equal(t, []pair{{"a", "1"}, {"b", "2"}}, collection.UniqueBy(in, func(p pair) string { return p.k }))
}

func TestMapReduce(t *testing.T) {
	lens := collection.Map([]string{"Lino", "Seda"}, func(s string) int { return len(s) })
	assert.Equal(t, 8, collection.Reduce(lens, 0, func(acc, v int) int { return acc + v }))
}
