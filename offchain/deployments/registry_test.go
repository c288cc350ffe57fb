package deployments

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeRegistry(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deployments.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAndFindByName(t *testing.T) {
	path := writeRegistry(t, `{
  "schema_version": 1,
  "deployments": [
    {
      "name": "devnet",
      "cluster": "devnet",
      "rpc_url": "https://api.devnet.solana.com",
      "program_id": "5boAEVrqySfeTnERzGK1CjFoYTRRGVoUEF6yqQfSSG48"
    },
    {
      "name": "broken",
      "cluster": "localnet"
    }
  ]
}`)

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d, err := r.FindByName("devnet")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if d.Cluster != "devnet" || d.RPCURL != "https://api.devnet.solana.com" || d.ProgramID != "5boAEVrqySfeTnERzGK1CjFoYTRRGVoUEF6yqQfSSG48" {
		t.Fatalf("unexpected deployment: %+v", d)
	}

	if _, err := r.FindByName("mainnet"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByName(mainnet): got %v want ErrNotFound", err)
	}
	if _, err := r.FindByName("broken"); err == nil {
		t.Fatalf("FindByName(broken): expected error for missing program_id")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeRegistry(t, "{")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
