package main

import (
	"context"
	"strings"
	"testing"

	"gamedb/internal/driver"
)

func TestPrintCheckSummary(t *testing.T) {
	// Doom валиден, лишняя колонка даёт warning; у Heretic год не
	// число, это ошибка приведения плюс ошибка обязательного поля
	src := "Game\tDoom\nYear\t1993\textra\n\nGame\tHeretic\nYear\toops\n"
	res, err := driver.ParseBytes(context.Background(), "games.db", []byte(src), driver.Options{})
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	var sb strings.Builder
	printCheckSummary(&sb, res)
	got := sb.String()

	for _, want := range []string{"2 records", "1 invalid", "1 games", "2 errors", "1 warnings"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}
