package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "mezzai.json")
}

func writeTestConfig(t *testing.T, path string, cfg *Config) {
	t.Helper()
	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
}

// isolateEnv clears every variable Load reads and moves into an empty
// directory so no stray .env file is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HOST", "PORT", "LOG_LEVEL", "CORS_ORIGINS",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"FIREBASE_SERVICE_ACCOUNT_JSON", "FIREBASE_SERVICE_ACCOUNT_BASE64", "FIREBASE_DATABASE_URL",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %q", cfg.Host)
	}
	if cfg.OpenAI.Model != DefaultModel {
		t.Errorf("expected default model %s, got %q", DefaultModel, cfg.OpenAI.Model)
	}
	if cfg.OpenAI.APIKey != "" {
		t.Errorf("expected no API key, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Addr() != "0.0.0.0:3000" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "nope.json")
	if _, err := Load(path); err != nil {
		t.Fatalf("Load with missing file failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load must not create the config file")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolateEnv(t)

	path := tempConfigPath(t)
	cfg := Default()
	cfg.Port = 8080
	cfg.OpenAI.Model = "gpt-4o"
	cfg.Firebase.DatabaseURL = "https://file.firebaseio.com"
	writeTestConfig(t, path, cfg)

	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 8080 {
		t.Errorf("expected port from file, got %d", loaded.Port)
	}
	if loaded.OpenAI.Model != "gpt-4.1" {
		t.Errorf("expected env to override model, got %q", loaded.OpenAI.Model)
	}
	if loaded.OpenAI.APIKey != "sk-env" {
		t.Errorf("expected API key from env, got %q", loaded.OpenAI.APIKey)
	}
	if loaded.Firebase.DatabaseURL != "https://file.firebaseio.com" {
		t.Errorf("expected database URL from file, got %q", loaded.Firebase.DatabaseURL)
	}
	if len(loaded.CORSOrigins) != 2 || loaded.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins %v", loaded.CORSOrigins)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	isolateEnv(t)
	os.Unsetenv("FIREBASE_DATABASE_URL")
	os.Unsetenv("PORT")

	if err := os.WriteFile(".env", []byte("FIREBASE_DATABASE_URL=https://dotenv.firebaseio.com\nPORT=4000\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("FIREBASE_DATABASE_URL")
		os.Unsetenv("PORT")
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Firebase.DatabaseURL != "https://dotenv.firebaseio.com" {
		t.Errorf("expected database URL from .env, got %q", cfg.Firebase.DatabaseURL)
	}
	if cfg.Port != 4000 {
		t.Errorf("expected port from .env, got %d", cfg.Port)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "http")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	isolateEnv(t)

	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestSave_AtomicWrite(t *testing.T) {
	path := tempConfigPath(t)

	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file should not exist after successful save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Errorf("saved file is not valid JSON: %v", err)
	}
}

func TestListValues(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "sk-secret-key-1234"
	cfg.Firebase.ServiceAccountBase64 = "c2VydmljZS1hY2NvdW50"

	plain, err := ListValues(cfg, false)
	if err != nil {
		t.Fatalf("ListValues failed: %v", err)
	}
	if plain["openai.api_key"] != "sk-secret-key-1234" {
		t.Errorf("expected unmasked openai.api_key, got %v", plain["openai.api_key"])
	}
	if plain["port"] != float64(3000) {
		t.Errorf("expected port=3000, got %v", plain["port"])
	}

	masked, err := ListValues(cfg, true)
	if err != nil {
		t.Fatalf("ListValues failed: %v", err)
	}
	if masked["openai.api_key"] != "***1234" {
		t.Errorf("expected masked openai.api_key=***1234, got %v", masked["openai.api_key"])
	}
	if masked["firebase.service_account_base64"] != "***dW50" {
		t.Errorf("expected masked base64 credentials, got %v", masked["firebase.service_account_base64"])
	}
	if masked["openai.model"] != DefaultModel {
		t.Errorf("expected openai.model unchanged, got %v", masked["openai.model"])
	}
}

func TestGetValue(t *testing.T) {
	path := tempConfigPath(t)
	cfg := Default()
	cfg.OpenAI.Model = "gpt-4o"
	writeTestConfig(t, path, cfg)

	v, err := GetValue(path, "openai.model")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "gpt-4o" {
		t.Errorf("expected openai.model=gpt-4o, got %v", v)
	}

	v, err = GetValue(path, "port")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	// JSON numbers are float64
	if v != float64(3000) {
		t.Errorf("expected port=3000, got %v (%T)", v, v)
	}

	_, err = GetValue(path, "nonexistent.key")
	if err == nil || err.Error() != "unknown config key: nonexistent.key" {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestSetValue(t *testing.T) {
	path := tempConfigPath(t)
	writeTestConfig(t, path, Default())

	if err := SetValue(path, "port", "8081"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := SetValue(path, "firebase.database_url", "https://x.firebaseio.com"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	isolateEnv(t)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("expected port=8081 after set, got %d", cfg.Port)
	}
	if cfg.Firebase.DatabaseURL != "https://x.firebaseio.com" {
		t.Errorf("expected database URL after set, got %q", cfg.Firebase.DatabaseURL)
	}
	if cfg.OpenAI.Model != DefaultModel {
		t.Errorf("expected other values preserved, got model %q", cfg.OpenAI.Model)
	}
}

func TestSetValue_NonexistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "mezzai.json")
	if err := SetValue(path, "log_level", "debug"); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}
