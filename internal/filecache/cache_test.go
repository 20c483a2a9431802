package filecache

import (
	"fmt"
	"testing"
	"time"

	"github.com/dragonbaba/rpgeditor/errs"
	"github.com/dragonbaba/rpgeditor/internal/testutil"
)

func assertMapsMirror(t *testing.T, c *Cache) {
	t.Helper()
	if len(c.entries) != len(c.index) {
		t.Fatalf("entries has %d keys, index has %d", len(c.entries), len(c.index))
	}
	for key := range c.entries {
		if _, ok := c.index[key]; !ok {
			t.Fatalf("key %q present in entries but missing from index", key)
		}
	}
	linked := 0
	for key := range c.Keys() {
		linked++
		if _, ok := c.entries[key]; !ok {
			t.Fatalf("key %q linked but not mapped", key)
		}
	}
	if linked != len(c.entries) {
		t.Fatalf("list has %d keys, maps have %d", linked, len(c.entries))
	}
}

func tailKey(t *testing.T, c *Cache) string {
	t.Helper()
	for key := range c.Keys() {
		return key
	}
	t.Fatal("cache is empty")
	return ""
}

func TestPutRejectsInvalidInput(t *testing.T) {
	c := New(2)

	if err := c.Put("", "name", "payload"); errs.CodeOf(err) != errs.CodeInvalid {
		t.Errorf("empty key: got %v", err)
	}
	if err := c.Put("k", "name", nil); errs.CodeOf(err) != errs.CodeInvalid {
		t.Errorf("nil payload: got %v", err)
	}
	if c.Len() != 0 {
		t.Error("rejected puts must not mutate state")
	}
	assertMapsMirror(t, c)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c := New(2)
	payload := map[string]int{"hp": 10}

	if err := c.Put("data/actor1.json", "Hero", payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	entry, ok := c.Get("data/actor1.json")
	if !ok {
		t.Fatal("expected hit")
	}
	if entry.DisplayName() != "Hero" {
		t.Errorf("DisplayName = %q", entry.DisplayName())
	}
	if got, ok := entry.Payload().(map[string]int); !ok || got["hp"] != 10 {
		t.Errorf("Payload = %v", entry.Payload())
	}
}

func TestGetMissHasNoSideEffect(t *testing.T) {
	c := New(2)
	c.Put("a", "A", 1)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
	if tailKey(t, c) != "a" {
		t.Error("miss must not disturb recency order")
	}
	assertMapsMirror(t, c)
}

func TestGetPromotesToTail(t *testing.T) {
	c := New(3)
	c.Put("a", "A", 1)
	c.Put("b", "B", 2)
	c.Put("c", "C", 3)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit")
	}
	if got := tailKey(t, c); got != "a" {
		t.Errorf("tail = %q, want a", got)
	}
	assertMapsMirror(t, c)
}

func TestRePutUpdatesInPlace(t *testing.T) {
	c := New(2)
	c.Put("a", "Old", 1)
	first, _ := c.Get("a")

	c.Put("a", "New", 2)

	second, _ := c.Get("a")
	if first != second {
		t.Error("re-put of the same key must not reallocate the entry")
	}
	if second.DisplayName() != "New" || second.Payload() != 2 {
		t.Errorf("entry not updated: %q %v", second.DisplayName(), second.Payload())
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCapacityNeverExceeded(t *testing.T) {
	const capacity = 4
	c := New(capacity)

	for i := 0; i < capacity*3; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Put(key, key, i); err != nil {
			t.Fatalf("Put %s failed: %v", key, err)
		}
		if c.Len() > capacity {
			t.Fatalf("Len = %d exceeds capacity %d", c.Len(), capacity)
		}
		assertMapsMirror(t, c)
	}
}

func TestEvictionOrderWithoutGets(t *testing.T) {
	const capacity = 3
	c := New(capacity)
	for i := 0; i <= capacity; i++ {
		c.Put(fmt.Sprintf("k%d", i), "", i)
	}

	if _, ok := c.Get("k0"); ok {
		t.Error("first-inserted key should have been evicted")
	}
	if c.Len() != capacity {
		t.Errorf("Len = %d, want %d", c.Len(), capacity)
	}
}

func TestGetShiftsEvictionVictim(t *testing.T) {
	const capacity = 3
	c := New(capacity)
	for i := 0; i < capacity; i++ {
		c.Put(fmt.Sprintf("k%d", i), "", i)
	}

	// Refreshing k0 makes k1 the least recently used.
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("expected hit on k0")
	}
	c.Put("overflow", "", 99)

	if _, ok := c.entries["k1"]; ok {
		t.Error("k1 should have been evicted")
	}
	if _, ok := c.entries["k0"]; !ok {
		t.Error("refreshed k0 should survive")
	}
	assertMapsMirror(t, c)
}

func TestCapacityTwoScenario(t *testing.T) {
	c := New(2)
	c.Put("A", "A", "a")
	c.Put("B", "B", "b")
	c.Put("C", "C", "c")

	if _, ok := c.Get("A"); ok {
		t.Error("A should have been evicted")
	}
	for _, key := range []string{"B", "C"} {
		if _, ok := c.entries[key]; !ok {
			t.Errorf("%s should remain", key)
		}
	}

	if _, ok := c.Get("B"); !ok {
		t.Fatal("expected hit on B")
	}
	c.Put("D", "D", "d")

	if _, ok := c.entries["C"]; ok {
		t.Error("C should have been evicted after B was refreshed")
	}
	for _, key := range []string{"B", "D"} {
		if _, ok := c.entries[key]; !ok {
			t.Errorf("%s should remain", key)
		}
	}

	list := c.List()
	if len(list) != 2 || list[0].Key != "D" || list[1].Key != "B" {
		t.Errorf("List = %+v, want [D B]", list)
	}
	assertMapsMirror(t, c)
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New(2)
	c.Put("a", "A", 1)

	if !c.Remove("a") {
		t.Error("first Remove should report presence")
	}
	if c.Remove("a") {
		t.Error("second Remove should be a no-op")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
	assertMapsMirror(t, c)
}

func TestListDoesNotAffectRecency(t *testing.T) {
	c := New(3)
	c.Put("a", "A", 1)
	c.Put("b", "B", 2)

	before := tailKey(t, c)
	c.List()
	if after := tailKey(t, c); after != before {
		t.Errorf("List changed tail from %q to %q", before, after)
	}
}

func TestClearReleasesEverything(t *testing.T) {
	c := New(3)
	c.Put("a", "A", 1)
	c.Put("b", "B", 2)

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
	assertMapsMirror(t, c)
	if got := c.List(); len(got) != 0 {
		t.Errorf("List after Clear = %+v", got)
	}

	// The cache stays usable and reuses the released objects.
	if err := c.Put("c", "C", 3); err != nil {
		t.Fatalf("Put after Clear failed: %v", err)
	}
	if stats := c.entryPool.Stats(); stats.Reused == 0 {
		t.Error("expected entry reuse after Clear")
	}
}

func TestTimestampsComeFromInjectedClock(t *testing.T) {
	clock := testutil.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	c := New(2, WithClock(clock.Now))

	c.Put("a", "A", 1)
	inserted := clock.Now()

	clock.Advance(90 * time.Second)
	entry, _ := c.Get("a")
	if !entry.TouchedAt().Equal(inserted.Add(90 * time.Second)) {
		t.Errorf("TouchedAt = %v, want refresh at access time", entry.TouchedAt())
	}

	list := c.List()
	if !list[0].TouchedAt.Equal(entry.TouchedAt()) {
		t.Errorf("snapshot timestamp %v != entry timestamp %v", list[0].TouchedAt, entry.TouchedAt())
	}
}

func TestEvictFuncSeesEvictedEntryOnly(t *testing.T) {
	var evicted []string
	c := New(2, WithEvictFunc(func(key, displayName string, payload any) {
		evicted = append(evicted, key)
	}))

	c.Put("a", "A", 1)
	c.Put("b", "B", 2)
	c.Put("c", "C", 3)

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("evicted = %v, want [a]", evicted)
	}

	// Remove and Clear are caller-initiated and do not notify.
	c.Remove("b")
	c.Clear()
	if len(evicted) != 1 {
		t.Errorf("evicted = %v after Remove/Clear, want unchanged", evicted)
	}
}

func TestEvictedEntriesRecycleThroughPools(t *testing.T) {
	c := New(2)
	c.Put("a", "A", 1)
	c.Put("b", "B", 2)
	c.Put("c", "C", 3)

	entryStats := c.entryPool.Stats()
	if entryStats.Idle == 0 {
		t.Error("evicted entry should sit idle in the pool")
	}

	c.Put("d", "D", 4)
	if got := c.entryPool.Stats().Reused; got == 0 {
		t.Error("insert after eviction should reuse the pooled entry")
	}
	assertMapsMirror(t, c)
}

func TestNonPositiveCapacityFallsBack(t *testing.T) {
	c := New(0)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity(), DefaultCapacity)
	}
}
