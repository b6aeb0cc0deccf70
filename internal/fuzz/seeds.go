package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var builtinSeeds = []string{
	"",
	"int main() { return 0; }\n",
	"int a = 1, b[2][2] = {{1}, 2};\nint main() { int c = a + b[1][0]; return c; }\n",
	"const int N = 3;\nint f(int x[], int n) { return x[n - 1]; }\nint main() { int a[N] = {1, 2, 3}; return f(a, N); }\n",
	"int main() { int i = 0; while (i < 10) { if (i == 5) break; i = i + 1; continue; } return i; }\n",
	"int f() { return 1; }\nint main() { return 0 && f() || !f(); }\n",
	"void g(int a, int b, int c, int d, int e, int f, int h, int i, int j) {}\nint main() { g(1,2,3,4,5,6,7,8,9); return 0; }\n",
	"int main() { int x[1024]; x[1023] = 7; return x[1023] % 4; }\n",
	"int main() { return -(+1) * 2 / 3 >= 4 != 5 <= 6; }\n",
	"int main() { /* unterminated\n",
	"int main() { return 0 $ }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds picks up *.c files from testdata/ next to the package, if any.
func addTestdataSeeds(f *testing.F) {
	root := "testdata"
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".c" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src))
		return nil
	})
}

func clamp(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
