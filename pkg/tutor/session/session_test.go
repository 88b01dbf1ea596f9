package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func newMemoryStore(t *testing.T) Store {
	t.Helper()
	store, err := NewStore(StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHistoryEmptyForUnknownSession(t *testing.T) {
	store := newMemoryStore(t)

	history, err := store.History(context.Background(), "nope")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history = %v, want empty", history)
	}
}

func TestAppendTurnOrdering(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	user := Message{Role: "user", Content: "hola"}
	assistant := Message{Role: "assistant", Content: "Hola, bienvenido", Language: "es"}
	if err := store.AppendTurn(ctx, "s1", user, assistant); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len = %d, want 2", len(history))
	}
	if history[0] != user || history[1] != assistant {
		t.Fatalf("history = %v", history)
	}
}

func TestAppendTurnTrimsOldest(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		err := store.AppendTurn(ctx, "s1",
			Message{Role: "user", Content: fmt.Sprintf("u%d", i)},
			Message{Role: "assistant", Content: fmt.Sprintf("a%d", i)},
		)
		if err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != MaxHistory {
		t.Fatalf("len = %d, want %d", len(history), MaxHistory)
	}
	// 15 turns of 2 messages leaves turns 5..14.
	if got, want := history[0].Content, "u5"; got != want {
		t.Fatalf("oldest = %q, want %q", got, want)
	}
	if got, want := history[len(history)-1].Content, "a14"; got != want {
		t.Fatalf("newest = %q, want %q", got, want)
	}
}

func TestClearRemovesHistory(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	store.AppendTurn(ctx, "s1", Message{Role: "user", Content: "hi"}, Message{Role: "assistant", Content: "hello"})
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	history, _ := store.History(ctx, "s1")
	if len(history) != 0 {
		t.Fatalf("history after clear = %v", history)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	store.AppendTurn(ctx, "a", Message{Role: "user", Content: "one"}, Message{Role: "assistant", Content: "uno"})
	store.AppendTurn(ctx, "b", Message{Role: "user", Content: "two"}, Message{Role: "assistant", Content: "dos"})

	ha, _ := store.History(ctx, "a")
	hb, _ := store.History(ctx, "b")
	if len(ha) != 2 || len(hb) != 2 {
		t.Fatalf("len(a)=%d len(b)=%d, want 2 and 2", len(ha), len(hb))
	}
	if ha[0].Content != "one" || hb[0].Content != "two" {
		t.Fatalf("cross-session leak: a=%v b=%v", ha, hb)
	}
}

func TestConcurrentAppends(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%5)
			store.AppendTurn(ctx, id,
				Message{Role: "user", Content: "q"},
				Message{Role: "assistant", Content: "a"},
			)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		history, err := store.History(ctx, fmt.Sprintf("s%d", i))
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) == 0 || len(history) > MaxHistory {
			t.Fatalf("session %d length = %d", i, len(history))
		}
		if len(history)%2 != 0 {
			t.Fatalf("session %d has a torn turn: %d messages", i, len(history))
		}
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("postgres"); err != ErrInvalidStoreType {
		t.Fatalf("err = %v, want ErrInvalidStoreType", err)
	}
}

func TestNewStoreRedisRequiresClient(t *testing.T) {
	if _, err := NewStore(StoreTypeRedis); err != ErrInvalidConfig {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
