// Package config locates the cobalt configuration directory and loads the
// environment file stored there.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

const (
	APP_NAME = "cobalt"
	ENV_FILE = "env"
)

var DEFAULT_ENV_FILE string = `CO_STD=/usr/local/cobalt/std
CO_LIBS=/usr/local/cobalt/lib
`

// Envs holds the settings of the env file. A variable of the same name in
// the process environment takes precedence.
type Envs struct {
	STD  string `env:"CO_STD"`
	LIBS string `env:"CO_LIBS"`
}

func (e *Envs) ShowAll(w io.Writer) {
	v := reflect.ValueOf(e).Elem()
	for i := range v.NumField() {
		field := v.Type().Field(i)
		if envTag := field.Tag.Get("env"); envTag != "" {
			fmt.Fprintf(w, "%s='%s'\n", envTag, v.Field(i).String())
		}
	}
}

// LibPaths splits CO_LIBS into the directories searched for libraries.
func (e *Envs) LibPaths() []string {
	if e.LIBS == "" {
		return nil
	}
	return filepath.SplitList(e.LIBS)
}

// Load reads the env file from the config directory, writing the default
// file first if there is none.
func Load() (*Envs, error) {
	dir, err := ConfigDir(APP_NAME)
	if err != nil {
		return nil, err
	}

	envs, err := LoadEnvFile(filepath.Join(dir, ENV_FILE))
	if err != nil {
		return nil, err
	}

	parsed := &Envs{}
	if err := MapEnvToStruct(envs, parsed); err != nil {
		return nil, err
	}
	if err := MapEnvToStruct(environ(), parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func ConfigDir(appName string) (string, error) {
	var configDir string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		configDir = filepath.Join(configHome, appName)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		if os.Getenv("OS") == "Windows_NT" {
			configDir = filepath.Join(os.Getenv("APPDATA"), appName)
		} else {
			configDir = filepath.Join(homeDir, ".config", appName)
		}
	} else {
		return "", fmt.Errorf("could not determine home directory")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

func LoadEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte(DEFAULT_ENV_FILE), 0644); err != nil {
			return nil, err
		}
		return ParseEnv(strings.NewReader(DEFAULT_ENV_FILE))
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	envs, err := ParseEnv(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return envs, nil
}

// ParseEnv reads KEY=VALUE lines. Blank lines, lines starting with '#' and
// lines without '=' are skipped.
func ParseEnv(r io.Reader) (map[string]string, error) {
	env := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		env[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return env, nil
}

// MapEnvToStruct copies the values of data into the string fields of the
// struct result points to, matching keys against the fields' env tags.
func MapEnvToStruct(data map[string]string, result any) error {
	v := reflect.ValueOf(result)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("expected a pointer to a struct, got %T", result)
	}
	v = v.Elem()
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		fieldValue := v.Field(i)

		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}
		if value, ok := data[envTag]; ok && fieldValue.CanSet() && fieldValue.Kind() == reflect.String {
			fieldValue.SetString(value)
		}
	}

	return nil
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && value != "" {
			env[key] = value
		}
	}
	return env
}
