package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFiles creates files under root from a map of slash-separated relative
// paths to contents, creating parent directories as needed.
func WriteFiles(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// SampleTestModule is a unittest module with one badly named test, one
// allowed unittest hook and one override-decorated method.
const SampleTestModule = `import unittest
from typing import override


class TestAccount(unittest.TestCase):
    def setUp(self):
        self.balance = 0

    def testDeposit(self):
        self.balance += 1

    def test_withdraw(self):
        self.balance -= 1

    @override
    def tearDownClass(cls):
        pass
`

// NewPythonProject creates a temporary project holding SampleTestModule at
// tests/test_account.py and, when config is non-empty, a leaplint.yaml.
func NewPythonProject(t testing.TB, config string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"tests/test_account.py": SampleTestModule,
		"src/app/__init__.py":   "",
	}
	if config != "" {
		files["leaplint.yaml"] = config
	}
	WriteFiles(t, root, files)
	return root
}
