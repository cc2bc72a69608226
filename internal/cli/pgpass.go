package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/jackc/pgpassfile"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// pgpassPath returns the platform-appropriate .pgpass file path.
func pgpassPath() string {
	if custom := os.Getenv("PGPASSFILE"); custom != "" {
		return custom
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "postgresql", "pgpass.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgpass")
}

// lookupPgpass returns the .pgpass password matching cfg, or "".
func lookupPgpass(cfg *taxiload.ConnectionConfig) string {
	path := pgpassPath()
	if path == "" {
		return ""
	}
	passfile, err := pgpassfile.ReadPassfile(path)
	if err != nil {
		return ""
	}
	return passfile.FindPassword(cfg.Host, strconv.Itoa(cfg.Port), cfg.Database, cfg.Username)
}

// offerSavePgpass asks whether a prompted password should be saved to .pgpass.
func offerSavePgpass(cfg *taxiload.ConnectionConfig, confirm func(string) bool, logger taxiload.Logger) {
	if cfg.Password == "" || cfg.Driver != taxiload.DriverPostgres {
		return
	}
	if !confirm("Save password to .pgpass for future loads?") {
		return
	}
	if err := writePgpassEntry(cfg); err != nil {
		logger.Error("Failed to save .pgpass: %v", err)
		return
	}
	logger.Info("Saved to %s", pgpassPath())
}

// writePgpassEntry adds or replaces the .pgpass entry for cfg.
func writePgpassEntry(cfg *taxiload.ConnectionConfig) error {
	path := pgpassPath()
	if path == "" {
		return fmt.Errorf("cannot determine home directory")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	matchPrefix := strings.Join([]string{
		escapePgpass(cfg.Host),
		strconv.Itoa(cfg.Port),
		escapePgpass(cfg.Database),
		escapePgpass(cfg.Username),
	}, ":") + ":"
	newEntry := matchPrefix + escapePgpass(cfg.Password)

	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, strings.TrimRight(line, "\r"))
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing .pgpass: %w", err)
	}

	found := false
	for i, line := range lines {
		if strings.HasPrefix(line, matchPrefix) {
			lines[i] = newEntry
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, newEntry)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		return err
	}
	// libpq ignores a .pgpass readable by group or others; WriteFile keeps
	// the mode of an existing file
	return os.Chmod(path, 0600)
}

// escapePgpass escapes colons and backslashes in a .pgpass field value.
func escapePgpass(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	return s
}
