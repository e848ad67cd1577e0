package pyramid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCacheIdempotence(t *testing.T) {
	cache := NewCache(8)

	generate := func(ctx context.Context) (*Artifact, error) {
		return &Artifact{PNG: []byte("tile")}, nil
	}

	first, err := cache.GetOrGenerate(context.Background(), "key", generate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.GetOrGenerate(context.Background(), "key", generate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("second request did not reuse the cached artifact")
	}
	if cache.Generations() != 1 {
		t.Errorf("generator invoked %d times, expected once", cache.Generations())
	}
}

func TestCacheAtMostOnceUnderConcurrency(t *testing.T) {
	cache := NewCache(8)

	release := make(chan struct{})
	generate := func(ctx context.Context) (*Artifact, error) {
		<-release
		return &Artifact{PNG: []byte("tile")}, nil
	}

	const requesters = 16
	var wg sync.WaitGroup
	results := make([]*Artifact, requesters)
	for i := 0; i < requesters; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			artifact, err := cache.GetOrGenerate(context.Background(), "key", generate)
			if err != nil {
				t.Errorf("request %d: %v", index, err)
				return
			}
			results[index] = artifact
		}(i)
	}
	close(release)
	wg.Wait()

	if cache.Generations() != 1 {
		t.Errorf("generator invoked %d times under concurrency", cache.Generations())
	}
	for index, artifact := range results {
		if artifact != results[0] {
			t.Fatalf("request %d got a different artifact", index)
		}
	}
}

func TestCacheFailureNotCached(t *testing.T) {
	cache := NewCache(8)

	calls := 0
	generate := func(ctx context.Context) (*Artifact, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream unavailable")
		}
		return &Artifact{PNG: []byte("tile")}, nil
	}

	if _, err := cache.GetOrGenerate(context.Background(), "key", generate); err == nil {
		t.Fatal("expected first request to fail")
	}
	artifact, err := cache.GetOrGenerate(context.Background(), "key", generate)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if artifact == nil {
		t.Fatal("retry returned no artifact")
	}
	if cache.Len() != 1 {
		t.Errorf("cache holds %d entries, expected 1", cache.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(2)
	generate := func(ctx context.Context) (*Artifact, error) { return &Artifact{}, nil }

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("key%d", i)
		if _, err := cache.GetOrGenerate(context.Background(), key, generate); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Errorf("cache holds %d entries, expected 2", cache.Len())
	}

	// The oldest entries were evicted; requesting one regenerates.
	before := cache.Generations()
	if _, err := cache.GetOrGenerate(context.Background(), "key0", generate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Generations() != before+1 {
		t.Error("evicted entry was not regenerated")
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(8)
	generate := func(ctx context.Context) (*Artifact, error) { return &Artifact{}, nil }

	cache.GetOrGenerate(context.Background(), "key", generate)
	cache.Invalidate("key")
	cache.GetOrGenerate(context.Background(), "key", generate)

	if cache.Generations() != 2 {
		t.Errorf("generator invoked %d times, expected 2", cache.Generations())
	}
}

func TestCacheContextCancellation(t *testing.T) {
	cache := NewCache(8)

	started := make(chan struct{})
	release := make(chan struct{})
	go cache.GetOrGenerate(context.Background(), "key", func(ctx context.Context) (*Artifact, error) {
		close(started)
		<-release
		return &Artifact{PNG: []byte("tile")}, nil
	})
	<-started

	// A waiter with a canceled context abandons the wait without
	// disturbing the in-flight generation.
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cache.GetOrGenerate(canceled, "key", nil); err == nil {
		t.Fatal("expected context error")
	}

	close(release)

	// The generation still completed and populated the cache.
	artifact, err := cache.GetOrGenerate(context.Background(), "key", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(artifact.PNG) != "tile" {
		t.Error("cached artifact missing after canceled waiter")
	}
	if cache.Generations() != 1 {
		t.Errorf("generator invoked %d times, expected once", cache.Generations())
	}
}

func TestCacheGenerationSurvivesInitiatorCancel(t *testing.T) {
	cache := NewCache(8)

	started := make(chan struct{})
	release := make(chan struct{})
	generate := func(ctx context.Context) (*Artifact, error) {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &Artifact{PNG: []byte("tile")}, nil
	}

	// The initiating request gets canceled while its generation is in
	// flight.
	initiatorCtx, cancel := context.WithCancel(context.Background())
	initiatorErr := make(chan error, 1)
	go func() {
		_, err := cache.GetOrGenerate(initiatorCtx, "key", generate)
		initiatorErr <- err
	}()
	<-started

	// A second requester with a live context joins the same in-flight
	// generation.
	waiterErr := make(chan error, 1)
	var waiterArtifact *Artifact
	waiterDone := make(chan struct{})
	go func() {
		defer close(waiterDone)
		artifact, err := cache.GetOrGenerate(context.Background(), "key", generate)
		waiterArtifact = artifact
		waiterErr <- err
	}()

	cancel()
	if err := <-initiatorErr; err == nil {
		t.Error("canceled initiator kept waiting")
	}

	close(release)
	<-waiterDone
	if err := <-waiterErr; err != nil {
		t.Fatalf("waiter with live context got error: %v", err)
	}
	if string(waiterArtifact.PNG) != "tile" {
		t.Error("waiter received wrong artifact")
	}

	// Despite the initiator's cancellation the generation completed
	// and populated the cache.
	if cache.Len() != 1 {
		t.Errorf("cache holds %d entries, expected 1", cache.Len())
	}
	if cache.Generations() != 1 {
		t.Errorf("generator invoked %d times, expected once", cache.Generations())
	}
}
