package cache

import (
	"context"
	"strconv"
	"testing"
)

func BenchmarkEngine_ResolveHit(b *testing.B) {
	remote := newFakeRemote(map[string]string{"42": "golden"})
	engine, err := NewEngine(remote, DefaultPolicy())
	if err != nil {
		b.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()
	if _, err := engine.Resolve(ctx, "42"); err != nil {
		b.Fatalf("Resolve() error = %v", err)
	}

	for b.Loop() {
		_, _ = engine.Resolve(ctx, "42")
	}
}

func BenchmarkEngine_ResolveHitParallel(b *testing.B) {
	remote := newFakeRemote(map[string]string{"42": "golden"})
	engine, err := NewEngine(remote, DefaultPolicy())
	if err != nil {
		b.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()
	if _, err := engine.Resolve(ctx, "42"); err != nil {
		b.Fatalf("Resolve() error = %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = engine.Resolve(ctx, "42")
		}
	})
}

func BenchmarkMemoryCache_SetEvicting(b *testing.B) {
	policy := DefaultPolicy()
	policy.MaxEntries = 1000
	c := NewMemoryCache(policy)
	ctx := context.Background()

	keys := make([]string, 4096)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	i := 0
	for b.Loop() {
		c.Set(ctx, keys[i%len(keys)], ValueEntry("v"))
		i++
	}
}
