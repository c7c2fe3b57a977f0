package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadEnvFiles applies dotenv files to the process environment. Non-empty
// variables already set in the process win over every file; among files,
// later ones override earlier ones. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	merged := map[string]string{}
	var order []string
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		pairs, err := readEnvFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("dotenv %s: %w", p, err)
		}
		for _, kv := range pairs {
			if _, seen := merged[kv[0]]; !seen {
				order = append(order, kv[0])
			}
			merged[kv[0]] = kv[1]
		}
	}
	for _, k := range order {
		if v, set := os.LookupEnv(k); set && v != "" {
			continue
		}
		if err := os.Setenv(k, merged[k]); err != nil {
			return err
		}
	}
	return nil
}

func readEnvFile(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseDotenv(f)
}

// parseDotenv reads KEY=VALUE lines. Blank lines, '#' comments and an
// optional "export " prefix are accepted; one pair of matching quotes around
// the value is removed. Lines without a key are ignored.
func parseDotenv(r io.Reader) ([][2]string, error) {
	var out [][2]string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		val = strings.TrimSpace(val)
		if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
			val = val[1 : n-1]
		}
		out = append(out, [2]string{key, val})
	}
	return out, sc.Err()
}
