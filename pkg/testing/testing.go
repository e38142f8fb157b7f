package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the project root so relative paths (logs/, testdata) resolve the
	// same way for every package under test
	//
	//   in some_test.go,
	//   import (
	//     _ "energy-report-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
