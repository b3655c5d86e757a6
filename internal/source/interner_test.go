package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	// NoStringID зарезервирован за пустой строкой
	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID должен возвращать пустую строку, получили: %q, ok=%v", s, ok)
	}

	id1 := interner.Intern("strategy")
	if id1 == NoStringID {
		t.Error("Intern не должен возвращать NoStringID для непустой строки")
	}

	// Повторный Intern той же строки возвращает тот же ID
	id2 := interner.Intern("strategy")
	if id1 != id2 {
		t.Errorf("Intern должен возвращать одинаковые ID для одинаковых строк: %d != %d", id1, id2)
	}

	if s, ok := interner.Lookup(id1); !ok || s != "strategy" {
		t.Errorf("Lookup вернул неверную строку: %q, ok=%v", s, ok)
	}

	id3 := interner.Intern("RPG")
	if id3 == id1 {
		t.Error("Разные строки должны иметь разные ID")
	}

	// Имена тегов чувствительны к регистру, interner тоже
	id4 := interner.Intern("rpg")
	if id4 == id3 {
		t.Error("Регистр различает строки")
	}

	if interner.Len() != 4 { // "", "strategy", "RPG", "rpg"
		t.Errorf("Len должен быть 4, получили: %d", interner.Len())
	}
}

func TestInternerBytes(t *testing.T) {
	interner := NewInterner()

	id1 := interner.InternBytes([]byte("open source"))
	id2 := interner.Intern("open source")

	if id1 != id2 {
		t.Errorf("InternBytes и Intern должны возвращать одинаковые ID для одной строки: %d != %d", id1, id2)
	}
}

func TestInternerHas(t *testing.T) {
	interner := NewInterner()

	if !interner.Has(NoStringID) {
		t.Error("Has должен возвращать true для NoStringID")
	}

	id := interner.Intern("adventure")
	if !interner.Has(id) {
		t.Error("Has должен возвращать true для валидного ID")
	}

	if interner.Has(StringID(9999)) {
		t.Error("Has должен возвращать false для несуществующего ID")
	}
}

func TestInternerMustLookup(t *testing.T) {
	interner := NewInterner()

	id := interner.Intern("puzzle")
	if s := interner.MustLookup(id); s != "puzzle" {
		t.Errorf("MustLookup вернул неверную строку: %q", s)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup должен паниковать для невалидного ID")
		}
	}()
	interner.MustLookup(StringID(9999))
}

func TestInternerSnapshot(t *testing.T) {
	interner := NewInterner()

	interner.Intern("indie")
	interner.Intern("roguelike")

	snapshot := interner.Snapshot()
	if len(snapshot) != 3 { // "", "indie", "roguelike"
		t.Errorf("Snapshot должен содержать 3 элемента, получили: %d", len(snapshot))
	}

	// Snapshot — копия, мутации не задевают interner
	snapshot[0] = "modified"
	if s, _ := interner.Lookup(NoStringID); s != "" {
		t.Error("Изменение snapshot не должно влиять на interner")
	}
}

// Строка из переиспользуемого буфера должна копироваться.
func TestInternerStringCopy(t *testing.T) {
	interner := NewInterner()

	buf := []byte("shooter")
	id := interner.InternBytes(buf)

	buf[0] = 'X'

	if s, ok := interner.Lookup(id); !ok || s != "shooter" {
		t.Errorf("Interner должен сохранять копию строки, получили: %q", s)
	}
}

// Сборщики сводок по тегам могут работать из нескольких воркеров.
func TestInternerConcurrentIntern(t *testing.T) {
	interner := NewInterner()
	const numGoroutines = 32
	const numStrings = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// Все горутины интернируют один и тот же набор имён
	for range numGoroutines {
		go func() {
			defer wg.Done()
			for i := range numStrings {
				interner.Intern(fmt.Sprintf("tag_%d", i))
			}
		}()
	}

	wg.Wait()

	expectedLen := numStrings + 1 // +1 для NoStringID
	if interner.Len() != expectedLen {
		t.Errorf("Ожидалось %d строк, получили: %d", expectedLen, interner.Len())
	}

	// ID уникальны и стабильны
	ids := make(map[StringID]bool)
	for i := range numStrings {
		s := fmt.Sprintf("tag_%d", i)
		id := interner.Intern(s)
		if ids[id] {
			t.Errorf("Дубликат ID для строки %q: %d", s, id)
		}
		ids[id] = true

		if retrieved, ok := interner.Lookup(id); !ok || retrieved != s {
			t.Errorf("Lookup вернул неверную строку для %q: %q, ok=%v", s, retrieved, ok)
		}
	}
}

func BenchmarkInternerInternDuplicate(b *testing.B) {
	interner := NewInterner()
	const str = "strategy"

	interner.Intern(str)

	b.ResetTimer()
	for b.Loop() {
		interner.Intern(str)
	}
}

func BenchmarkInternerLookup(b *testing.B) {
	interner := NewInterner()
	ids := make([]StringID, 100)
	for i := range ids {
		ids[i] = interner.Intern(fmt.Sprintf("tag_%d", i))
	}

	b.ResetTimer()
	for i := range b.N {
		interner.Lookup(ids[i%len(ids)])
	}
}
