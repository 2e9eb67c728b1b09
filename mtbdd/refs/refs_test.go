package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colibri-dd/mtbdd/encoding"
)

func TestRefTableCounting(t *testing.T) {
	r := NewRefTable()
	h := encoding.FromIndex(5)

	r.Ref(h)
	r.Ref(h)
	assert.Equal(t, 1, r.Count()) // one distinct handle, held twice

	r.Deref(h)
	assert.Equal(t, 1, r.Count())

	r.Deref(h)
	assert.Equal(t, 0, r.Count())
}

func TestRefTableSentinelsAreNoop(t *testing.T) {
	r := NewRefTable()
	r.Ref(encoding.True)
	r.Ref(encoding.False)
	assert.Equal(t, 0, r.Count())
}

func TestRefTableIter(t *testing.T) {
	r := NewRefTable()
	a := encoding.FromIndex(1)
	b := encoding.FromIndex(2)
	r.Ref(a)
	r.Ref(b)

	seen := map[encoding.MTBDD]bool{}
	r.Iter(func(h encoding.MTBDD) { seen[h] = true })
	assert.True(t, seen[a])
	assert.True(t, seen[b])
}

func TestProtectTableReadsCurrentValue(t *testing.T) {
	p := NewProtectTable()
	h := encoding.FromIndex(3)
	p.Protect(&h)

	var seen []encoding.MTBDD
	p.Iter(func(x encoding.MTBDD) { seen = append(seen, x) })
	assert.Equal(t, []encoding.MTBDD{h}, seen)

	h = encoding.FromIndex(9) // reassignment without re-registering
	seen = nil
	p.Iter(func(x encoding.MTBDD) { seen = append(seen, x) })
	assert.Equal(t, []encoding.MTBDD{encoding.FromIndex(9)}, seen)

	p.Unprotect(&h)
	assert.Equal(t, 0, p.Count())
}

func TestDefaultProtectTableUsableBeforeInit(t *testing.T) {
	h := encoding.FromIndex(1)
	Default().Protect(&h)
	assert.GreaterOrEqual(t, Default().Count(), 1)
	Default().Unprotect(&h)
}
