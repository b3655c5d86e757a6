package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gamedb/internal/diag"
	"gamedb/internal/diagfmt"
	"gamedb/internal/driver"
	"gamedb/internal/source"
)

// useColorFor решает, красить ли вывод в f, по глобальному флагу --color.
func useColorFor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f)), nil
}

// reportToStderr печатает диагностику разбора в stderr, если она есть
// и не подавлена флагом --quiet. Команды с данными на stdout зовут её
// перед выводом, чтобы JSON оставался чистым.
func reportToStderr(cmd *cobra.Command, res *driver.Result) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet || res.Bag.Len() == 0 {
		return nil
	}
	useColor, err := useColorFor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	opts := diagfmt.PrettyOpts{
		Color:   useColor,
		Context: 2,
	}
	diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, opts)
	return nil
}

// reportLoadError печатает ошибку загрузки файла как диагностику, не
// прерывая вызывающий цикл. Используется в watch-режиме, где файл
// может на мгновение пропадать при атомарном сохранении.
func reportLoadError(w *os.File, useColor bool, path string, err error) {
	// виртуальный файл, чтобы нулевой Span было к чему привязать
	fs := source.NewFileSet()
	fs.AddVirtual(path, nil)
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  fmt.Sprintf("cannot load %s: %v", path, err),
	})
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: useColor, Context: -1})
}

// silentExit заставляет cobra вернуть код 1 без текста об ошибке:
// диагностика уже напечатана.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
