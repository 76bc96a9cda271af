package tilecache

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func key(layer string, z, x, y uint32) Key {
	return Key{Layer: layer, Z: z, X: x, Y: y, Format: "png"}
}

func TestGetAdd(t *testing.T) {
	c := New(10)
	k := key("el", 10, 1, 2)
	if _, ok := c.Get(k); ok {
		t.Fatal("empty cache reported a hit")
	}
	c.Add(k, []byte("tile"))
	data, ok := c.Get(k)
	if !ok || !bytes.Equal(data, []byte("tile")) {
		t.Fatalf("got %q, %v", data, ok)
	}
}

func TestEvictionOrder(t *testing.T) {
	c := New(2)
	a, b, d := key("el", 1, 0, 0), key("el", 1, 0, 1), key("el", 1, 1, 0)
	c.Add(a, []byte("a"))
	c.Add(b, []byte("b"))

	// Touch a so that b is the eviction candidate.
	c.Get(a)
	c.Add(d, []byte("d"))

	if _, ok := c.Get(b); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get(a); !ok {
		t.Error("recently used entry was evicted")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestGetOrBuildCoalesces(t *testing.T) {
	c := New(10)
	k := key("el", 12, 3, 4)
	var builds int32

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.GetOrBuild(k, func() ([]byte, error) {
				atomic.AddInt32(&builds, 1)
				time.Sleep(20 * time.Millisecond)
				return []byte("tile"), nil
			})
			if err != nil {
				t.Errorf("build: %v", err)
			}
			if !bytes.Equal(data, []byte("tile")) {
				t.Errorf("got %q", data)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("build ran %d times, want 1", n)
	}
}

func TestGetOrBuildFailureNotCached(t *testing.T) {
	c := New(10)
	k := key("el", 12, 3, 4)
	boom := errors.New("boom")
	var builds int

	for i := 0; i < 2; i++ {
		_, err := c.GetOrBuild(k, func() ([]byte, error) {
			builds++
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
	}
	if builds != 2 {
		t.Errorf("build ran %d times, want a retry per call", builds)
	}
	if c.Len() != 0 {
		t.Errorf("failed build left %d cached entries", c.Len())
	}
}

func TestPurge(t *testing.T) {
	c := New(10)
	c.Add(key("el", 1, 0, 0), []byte("a"))
	c.Add(key("pax", 1, 0, 0), []byte("b"))
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("len = %d after purge", c.Len())
	}
	if _, ok := c.Get(key("el", 1, 0, 0)); ok {
		t.Error("purged entry still resolvable")
	}
}

func TestStats(t *testing.T) {
	c := New(10)
	k := key("el", 1, 0, 0)
	c.Get(k)
	c.Add(k, []byte("a"))
	c.Get(k)
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Entries != 1 {
		t.Errorf("stats = %+v", s)
	}
}
