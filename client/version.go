package client

import (
	"fmt"
	"io"
	"runtime"

	"github.com/0xef53/networkctl/core"
)

func ShowVersion(w io.Writer) error {
	fmt.Fprintf(w, "networkctl v%s (built w/%s)\n", core.Version, runtime.Version())

	return nil
}
