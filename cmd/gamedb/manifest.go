package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"gamedb/internal/catalog"
)

const noManifestMessage = "no gamedb.toml found\nplease specify the database explicitly, e.g.:\n  gamedb check path/to/games.db"

type projectManifest struct {
	Path   string
	Root   string
	Config manifestConfig
}

type manifestConfig struct {
	Database databaseConfig `toml:"database"`
	Catalog  catalogConfig  `toml:"catalog"`
	Output   outputConfig   `toml:"output"`
	Check    checkConfig    `toml:"check"`
}

type databaseConfig struct {
	Path string `toml:"path"`
}

type catalogConfig struct {
	Duplicates string `toml:"duplicates"`
}

type outputConfig struct {
	Compact bool `toml:"compact"`
}

type checkConfig struct {
	Strict bool `toml:"strict"`
}

func findGamedbToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "gamedb.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findGamedbToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadManifestConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadManifestConfig(path string) (manifestConfig, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return manifestConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("database") {
		return manifestConfig{}, fmt.Errorf("%s: missing [database]", path)
	}
	if !meta.IsDefined("database", "path") || strings.TrimSpace(cfg.Database.Path) == "" {
		return manifestConfig{}, fmt.Errorf("%s: missing [database].path", path)
	}
	if meta.IsDefined("catalog", "duplicates") {
		if _, ok := catalog.ParseDupPolicy(cfg.Catalog.Duplicates); !ok {
			return manifestConfig{}, fmt.Errorf("%s: unknown [catalog].duplicates value: %q", path, cfg.Catalog.Duplicates)
		}
	}
	return cfg, nil
}

// applyManifestSettings подставляет настройки из gamedb.toml вместо
// зашитых значений по умолчанию. Явно заданные флаги сильнее манифеста;
// без манифеста поведение команды не меняется.
func applyManifestSettings(cmd *cobra.Command) error {
	manifest, found, err := loadProjectManifest(".")
	if err != nil || !found {
		return err
	}
	set := func(name, value string) error {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || cmd.Flags().Changed(name) {
			return nil
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("%s: failed to apply manifest value for --%s: %w", manifest.Path, name, err)
		}
		return nil
	}
	cfg := manifest.Config
	if cfg.Catalog.Duplicates != "" {
		if err := set("duplicates", cfg.Catalog.Duplicates); err != nil {
			return err
		}
	}
	if cfg.Output.Compact {
		if err := set("compact", "true"); err != nil {
			return err
		}
	}
	// [check].strict относится только к одноимённой команде
	if cfg.Check.Strict && cmd.Name() == "check" {
		if err := set("strict", "true"); err != nil {
			return err
		}
	}
	return nil
}

// resolveDatabaseArg возвращает путь к файлу базы: явный аргумент,
// иначе [database].path из ближайшего gamedb.toml вверх по дереву.
// Команды передают сюда хвост args после своих обязательных аргументов.
func resolveDatabaseArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	manifest, found, err := loadProjectManifest(".")
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.New(noManifestMessage)
	}
	dbRel := strings.TrimSpace(manifest.Config.Database.Path)
	dbPath := filepath.Join(manifest.Root, filepath.FromSlash(dbRel))
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [database].path does not exist: %s", manifest.Path, dbPath)
		}
		return "", fmt.Errorf("%s: failed to stat [database].path: %w", manifest.Path, err)
	}
	return dbPath, nil
}
